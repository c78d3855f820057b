package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

	"github.com/rs/zerolog"
)

func TestExtractSenderName(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{`"Jane Doe" <jane@x.com>`, "Jane Doe"},
		{"noreply@x.com", "noreply@x.com"},
		{"Bob Smith <bob@x.com>", "Bob Smith"},
		{"<only@x.com>", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			if got := ExtractSenderName(tt.from); got != tt.want {
				t.Errorf("ExtractSenderName(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestHeaderValue(t *testing.T) {
	headers := []emaildomain.Header{{Name: "SUBJECT", Value: "upper"}, {Name: "subject", Value: "lower"}}
	if v, ok := HeaderValue(headers, "Subject"); !ok || v != "upper" {
		t.Errorf("HeaderValue() = %q, %v", v, ok)
	}
	if _, ok := HeaderValue(headers, "From"); ok {
		t.Error("HeaderValue() found a missing header")
	}
}

func TestFormatDates(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSummary string
		wantDetail  string
	}{
		{
			"rfc 2822",
			"Tue, 14 May 2024 09:05:00 -0400",
			"May 14, 09:05 AM",
			"Tuesday, May 14, 2024 at 09:05 AM",
		},
		{
			"afternoon with comment zone",
			"Wed, 1 Jan 2025 17:30:00 +0000 (UTC)",
			"Jan 01, 05:30 PM",
			"Wednesday, January 01, 2025 at 05:30 PM",
		},
		{"unparseable long", "sometime next week maybe", "sometime next we", "sometime next week maybe"},
		{"unparseable short", "soon", "soon", "soon"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSummaryDate(tt.raw); got != tt.wantSummary {
				t.Errorf("FormatSummaryDate() = %q, want %q", got, tt.wantSummary)
			}
			if got := FormatDetailDate(tt.raw); got != tt.wantDetail {
				t.Errorf("FormatDetailDate() = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

func TestListRecent(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 5; i++ {
		store.add(rawMessage(string(rune('a'+i)), "s", "f", "", ""))
	}

	now := time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)
	r := NewReader(zerolog.Nop())
	r.now = func() time.Time { return now }

	refs, err := r.ListRecent(context.Background(), store, 24, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(refs) != 3 || refs[0].ID != "a" {
		t.Errorf("refs = %v", refs)
	}
	if !store.query.After.Equal(now.Add(-24*time.Hour)) || store.query.Folder != emaildomain.FolderInbox {
		t.Errorf("query = %+v", store.query)
	}

	store.listErr = errors.New("quota")
	if _, err := r.ListRecent(context.Background(), store, 24, 3); err == nil {
		t.Error("ListRecent() error = nil on list failure")
	}
}

func TestFetchMetadata(t *testing.T) {
	store := newFakeStore()
	store.add(&emaildomain.RawMessage{ID: "bare", Snippet: "hi"})
	store.add(rawMessage("full", "Hello", `"Jane Doe" <jane@x.com>`, "Tue, 14 May 2024 09:05:00 -0400", "snip"))
	store.failIDs["broken"] = true

	r := NewReader(zerolog.Nop())
	ctx := context.Background()

	meta, err := r.FetchMetadata(ctx, store, emaildomain.MessageRef{ID: "bare"})
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta.Subject != "(No Subject)" || meta.Sender != "Unknown Sender" || meta.RawDate != "" {
		t.Errorf("defaults = %+v", meta)
	}

	meta, err = r.FetchMetadata(ctx, store, emaildomain.MessageRef{ID: "full"})
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta.Sender != "Jane Doe" || meta.RawSender != `"Jane Doe" <jane@x.com>` || meta.Subject != "Hello" {
		t.Errorf("meta = %+v", meta)
	}
	last := store.getCalls[len(store.getCalls)-1]
	if !last.MetadataOnly || len(last.Headers) != 3 {
		t.Errorf("GetOptions = %+v", last)
	}

	_, err = r.FetchMetadata(ctx, store, emaildomain.MessageRef{ID: "broken"})
	var fe *emaildomain.FetchError
	if !errors.As(err, &fe) || fe.ID != "broken" {
		t.Errorf("FetchMetadata() error = %v, want FetchError", err)
	}
}
