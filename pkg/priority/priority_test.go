package priority

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		snippet string
		sender  string
		want    Category
	}{
		{
			name:    "urgent project mail from the boss",
			subject: "URGENT: Project deadline ASAP",
			snippet: "please review and sign off",
			sender:  "boss@company.com",
			want:    Work,
		},
		{
			name:    "shop promotion",
			subject: "50% OFF SALE - Limited Time Offer",
			snippet: "save big, exclusive deal",
			sender:  "deals@shop.com",
			want:    Promotions,
		},
		{
			name:    "lottery spam",
			subject: "You are a WINNER! Claim your FREE prize",
			snippet: "click here now, congratulations",
			sender:  "x@random.com",
			want:    Spam,
		},
		{
			name:    "single work keyword",
			subject: "Lunch with the team?",
			snippet: "are you free to join",
			sender:  "friend@mail.com",
			want:    Medium,
		},
		{
			name:    "nothing matches",
			subject: "Photos from the weekend",
			snippet: "here they are",
			sender:  "mom@family.org",
			want:    Low,
		},
		{
			name:    "sender bonus alone reaches work",
			subject: "Hello",
			snippet: "quick note",
			sender:  "alice@corporate.com",
			want:    Work,
		},
		{
			name:    "offer counts twice",
			subject: "A special offer",
			snippet: "",
			sender:  "news@store.com",
			want:    Promotions,
		},
		{
			name:    "spam beats work",
			subject: "Urgent meeting: you are the winner of a cash prize",
			snippet: "important deadline",
			sender:  "manager@company.com",
			want:    Spam,
		},
		{
			name:    "substring match without word boundary",
			subject: "Teamwork tips",
			snippet: "",
			sender:  "",
			want:    Medium,
		},
		{
			name: "empty input",
			want: Low,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.subject, tt.snippet, tt.sender)
			if got != tt.want {
				t.Fatalf("Classify(%q, %q, %q) = %q, want %q", tt.subject, tt.snippet, tt.sender, got, tt.want)
			}
			if again := Classify(tt.subject, tt.snippet, tt.sender); again != got {
				t.Fatalf("Classify is not deterministic: %q then %q", got, again)
			}
			if !got.Valid() {
				t.Fatalf("Classify returned unknown category %q", got)
			}
		})
	}
}

func TestScores(t *testing.T) {
	got := Scores("URGENT: Project deadline ASAP", "please review and sign off", "boss@company.com")
	// urgent, asap, project, deadline, review plus the workplace bonus
	if got.Work != 7 {
		t.Errorf("Work = %d, want 7", got.Work)
	}
	if got.Spam != 0 || got.Promo != 0 {
		t.Errorf("unexpected promo/spam score: %+v", got)
	}

	// Only one workplace bonus even when several markers match
	if s := Scores("", "", "manager@hr.company.com"); s.Work != workplaceBonus {
		t.Errorf("Work = %d, want %d", s.Work, workplaceBonus)
	}
}

func TestWorkplaceSenderNeverPushesTowardSpamOrPromotions(t *testing.T) {
	inputs := []struct{ subject, snippet string }{
		{"Hello", "see you"},
		{"Team sync", "notes attached"},
		{"Weekly report", ""},
		{"A sale", "nothing else"},
	}
	for _, in := range inputs {
		before := Classify(in.subject, in.snippet, "someone@example.org")
		after := Classify(in.subject, in.snippet, "someone@work.com")
		if before != Low && before != Medium {
			continue
		}
		if after == Spam || after == Promotions {
			t.Errorf("%q: workplace sender moved %q to %q", in.subject, before, after)
		}
	}
}
