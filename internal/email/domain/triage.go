package domain

import authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"

// TriageMode selects the endpoint profile of a triage run
type TriageMode string

const (
	// ModeInbox lists 20 recent messages and triages the first 15
	ModeInbox TriageMode = "inbox"
	// ModeAnalyzeAll triages 15 messages with summaries and a batch analysis
	ModeAnalyzeAll TriageMode = "analyze-all"
)

// TriageProfile holds the per-mode limits and switches
type TriageProfile struct {
	Scopes     []string
	ListMax    int
	ProcessMax int
	Summaries  bool
	Analysis   bool
}

var triageProfiles = map[TriageMode]TriageProfile{
	ModeInbox: {
		Scopes:     authdomain.ScopesAll,
		ListMax:    20,
		ProcessMax: 15,
	},
	ModeAnalyzeAll: {
		Scopes:     authdomain.ScopesReadModify,
		ListMax:    15,
		ProcessMax: 15,
		Summaries:  true,
		Analysis:   true,
	},
}

// Profile returns the profile for m
func (m TriageMode) Profile() (TriageProfile, bool) {
	p, ok := triageProfiles[m]
	return p, ok
}

// TriageResult is the response of a batch triage
type TriageResult struct {
	RunID       string                      `json:"run_id"`
	Emails      []*MessageSummary           `json:"emails"`
	Stats       PriorityStats               `json:"stats"`
	Analysis    string                      `json:"analysis,omitempty"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}

// LabelAnalysis is the label distribution over recent messages
type LabelAnalysis struct {
	LabelDistribution map[string]int `json:"label_distribution"`
	Recommendations   string         `json:"recommendations"`
}

type LabelAnalysisResult struct {
	Analysis    LabelAnalysis               `json:"analysis"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}
