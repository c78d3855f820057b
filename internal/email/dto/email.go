package dto

import (
	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
)

// TokensRequest is the body of every endpoint that only needs credentials
type TokensRequest struct {
	Tokens *authdomain.CredentialBundle `json:"tokens"`
}

type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Cc      string `json:"cc"`
	Bcc     string `json:"bcc"`
}

type ComposeEmailRequest struct {
	Recipient string `json:"recipient"`
	Purpose   string `json:"purpose"`
	Context   string `json:"context"`
	Tone      string `json:"tone"`
}

type EnhanceEmailRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type EmailResponse struct {
	Success     bool                        `json:"success"`
	Email       *emaildomain.MessageDetail  `json:"email"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}

type SmartReplyResponse struct {
	Success     bool                        `json:"success"`
	Replies     string                      `json:"replies"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}

type SendEmailResponse struct {
	Success     bool                        `json:"success"`
	MessageID   string                      `json:"message_id"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}

type ReportsResponse struct {
	Success     bool                        `json:"success"`
	Account     string                      `json:"account"`
	Reports     []*emaildomain.TriageReport `json:"reports"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}

// TriageResponse wraps a triage result for the HTTP layer
type TriageResponse struct {
	Success bool `json:"success"`
	*emaildomain.TriageResult
}

type LabelAnalysisResponse struct {
	Success bool `json:"success"`
	*emaildomain.LabelAnalysisResult
}

type ComposeEmailResponse struct {
	Success      bool   `json:"success"`
	EmailContent string `json:"email_content"`
}

type EnhanceEmailResponse struct {
	Success      bool   `json:"success"`
	EnhancedBody string `json:"enhanced_body"`
}
