package repository

import emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

// TriageReportRepository defines the interface for triage report history
type TriageReportRepository interface {
	// Save stores a report; an empty ID gets a fresh uuid
	Save(report *emaildomain.TriageReport) error
	// ListByAccount returns the newest reports first
	ListByAccount(account string, limit int) ([]*emaildomain.TriageReport, error)
	// DeleteOlderThan prunes reports of an account beyond the newest keep entries
	DeleteOlderThan(account string, keep int) error
}
