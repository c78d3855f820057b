package usecase

import (
	"context"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/internal/email/dto"
	"github.com/BhavyPan/Advance-Web/pkg/ai"
)

// MailStore is a session-bound mailbox
type MailStore interface {
	// ListMessages returns at most max messages, most recent first
	ListMessages(ctx context.Context, q emaildomain.Query, max int) ([]emaildomain.MessageRef, error)
	GetMessage(ctx context.Context, id string, opts emaildomain.GetOptions) (*emaildomain.RawMessage, error)
	// SendMessage transmits an RFC 5322 message and returns its id
	SendMessage(ctx context.Context, raw []byte) (string, error)
	// Account returns the mailbox address
	Account(ctx context.Context) (string, error)
	Close() error
}

// StoreOpener builds a MailStore for an authenticated session
type StoreOpener interface {
	Open(ctx context.Context, sess *authdomain.Session) (MailStore, error)
}

// OpenerFunc adapts a function to StoreOpener
type OpenerFunc func(ctx context.Context, sess *authdomain.Session) (MailStore, error)

func (f OpenerFunc) Open(ctx context.Context, sess *authdomain.Session) (MailStore, error) {
	return f(ctx, sess)
}

// Assistant is the AI capability set the use cases depend on
type Assistant interface {
	Labels(ctx context.Context, subject, content, sender string) []string
	Summarize(ctx context.Context, subject, body, snippet string) string
	SmartReplies(ctx context.Context, subject, body, sender string) string
	Compose(ctx context.Context, req ai.ComposeRequest) string
	OverallAnalysis(ctx context.Context, stats ai.BatchStats) string
	LabelRecommendations(ctx context.Context, distribution map[string]int) string
	Enhance(ctx context.Context, subject, body string) (string, error)
}

// ReportRecorder persists triage run counters
type ReportRecorder interface {
	Save(report *emaildomain.TriageReport) error
	ListByAccount(account string, limit int) ([]*emaildomain.TriageReport, error)
	DeleteOlderThan(account string, keep int) error
}

// TriageUsecase runs the batch pipelines
type TriageUsecase interface {
	Triage(ctx context.Context, bundle authdomain.CredentialBundle, mode emaildomain.TriageMode) (*emaildomain.TriageResult, error)
	AnalyzeLabels(ctx context.Context, bundle authdomain.CredentialBundle) (*emaildomain.LabelAnalysisResult, error)
}

// EmailUsecase defines the single-message and compose use cases
type EmailUsecase interface {
	GetEmail(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.EmailResponse, error)
	AnalyzeEmail(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.EmailResponse, error)
	SmartReply(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.SmartReplyResponse, error)
	SendEmail(ctx context.Context, bundle authdomain.CredentialBundle, req dto.SendEmailRequest) (*dto.SendEmailResponse, error)
	ComposeEmail(ctx context.Context, req dto.ComposeEmailRequest) (string, error)
	EnhanceEmail(ctx context.Context, req dto.EnhanceEmailRequest) (string, error)
	Reports(ctx context.Context, bundle authdomain.CredentialBundle) (*dto.ReportsResponse, error)
}
