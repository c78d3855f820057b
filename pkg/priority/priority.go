package priority

import "strings"

// Category is the triage bucket assigned to a message
type Category string

const (
	Work       Category = "work"
	Medium     Category = "medium"
	Low        Category = "low"
	Promotions Category = "promotions"
	Spam       Category = "spam"
)

// Categories lists every category in display order
var Categories = []Category{Work, Medium, Low, Promotions, Spam}

var (
	workKeywords = []string{
		"urgent", "asap", "important", "project", "meeting", "deadline", "boss",
		"manager", "team", "report", "presentation", "review", "action required",
	}
	// "offer" is listed twice on purpose; a matching offer scores 2.
	promoKeywords = []string{
		"sale", "discount", "offer", "deal", "promo", "buy now", "limited time",
		"coupon", "save", "special", "exclusive", "offer",
	}
	spamKeywords = []string{
		"winner", "prize", "free", "congratulations", "lottery", "click here",
		"unsubscribe", "selected", "cash", "million",
	}
	workplaceSenders = []string{"company.com", "work.com", "corporate.com", "hr.", "manager"}
)

// workplaceBonus is added to the work score when the sender looks like a colleague
const workplaceBonus = 2

// Score holds the keyword counters behind a classification
type Score struct {
	Work  int `json:"work"`
	Promo int `json:"promo"`
	Spam  int `json:"spam"`
}

// Scores computes the keyword counters for a message
func Scores(subject, snippet, sender string) Score {
	content := strings.ToLower(subject + " " + snippet)
	senderLower := strings.ToLower(sender)

	s := Score{
		Work:  countMatches(content, workKeywords),
		Promo: countMatches(content, promoKeywords),
		Spam:  countMatches(content, spamKeywords),
	}
	for _, domain := range workplaceSenders {
		if strings.Contains(senderLower, domain) {
			s.Work += workplaceBonus
			break
		}
	}
	return s
}

// Category resolves the counters into a single category.
// Spam wins over work, work over promotions.
func (s Score) Category() Category {
	switch {
	case s.Spam >= 2:
		return Spam
	case s.Work >= 2:
		return Work
	case s.Promo >= 2:
		return Promotions
	case s.Work >= 1:
		return Medium
	default:
		return Low
	}
}

// Classify maps a message to its priority category
func Classify(subject, snippet, sender string) Category {
	return Scores(subject, snippet, sender).Category()
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func countMatches(content string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			n++
		}
	}
	return n
}
