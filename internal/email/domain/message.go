package domain

import "github.com/BhavyPan/Advance-Web/pkg/priority"

// MessageRef identifies a message returned by a list query
type MessageRef struct {
	ID string `json:"id"`
}

// MessageSummary is one triaged inbox row
type MessageSummary struct {
	ID        string            `json:"id"`
	Subject   string            `json:"subject"`
	Sender    string            `json:"sender"`
	Snippet   string            `json:"snippet"`
	Date      string            `json:"date"`
	Priority  priority.Category `json:"priority"`
	AILabels  []string          `json:"ai_labels,omitempty"`
	AISummary string            `json:"summary,omitempty"`
}

// MessageDetail is a single message with its decoded body. Date carries the
// long form, e.g. "Monday, January 02, 2006 at 03:04 PM".
type MessageDetail struct {
	MessageSummary
	Body string `json:"body"`
}

// Metadata is the header-level view of a message
type Metadata struct {
	ID      string
	Subject string
	// RawSender is the From header as received
	RawSender string
	Sender    string
	RawDate   string
	Snippet   string
}

// PriorityStats counts triaged messages per category. Total counts every listed
// message, including the ones that were skipped.
type PriorityStats struct {
	Work       int `json:"work"`
	Medium     int `json:"medium"`
	Low        int `json:"low"`
	Promotions int `json:"promotions"`
	Spam       int `json:"spam"`
	Total      int `json:"total"`
}

// Add increments the counter for c
func (s *PriorityStats) Add(c priority.Category) {
	switch c {
	case priority.Work:
		s.Work++
	case priority.Medium:
		s.Medium++
	case priority.Low:
		s.Low++
	case priority.Promotions:
		s.Promotions++
	case priority.Spam:
		s.Spam++
	}
}

// Classified is the sum of the per-category counters
func (s PriorityStats) Classified() int {
	return s.Work + s.Medium + s.Low + s.Promotions + s.Spam
}
