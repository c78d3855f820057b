package domain

import "time"

// TriageReport keeps the counters of one triage run. No message content or
// credentials are stored.
type TriageReport struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	RunID      string    `json:"run_id" gorm:"uniqueIndex;not null"`
	Account    string    `json:"account" gorm:"index:idx_account_created;not null"`
	Mode       string    `json:"mode"`
	Total      int       `json:"total"`
	Processed  int       `json:"processed"`
	Work       int       `json:"work"`
	Medium     int       `json:"medium"`
	Low        int       `json:"low"`
	Promotions int       `json:"promotions"`
	Spam       int       `json:"spam"`
	Analysis   string    `json:"analysis,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_account_created"`
}

// TableName specifies the table name for GORM
func (TriageReport) TableName() string {
	return "triage_reports"
}
