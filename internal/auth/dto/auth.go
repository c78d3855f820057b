package dto

import authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"

// CredentialsRequest is embedded by every request that acts on the mailbox
type CredentialsRequest struct {
	Tokens *authdomain.CredentialBundle `json:"tokens"`
}

type CallbackResponse struct {
	Success     bool                        `json:"success"`
	UserInfo    *authdomain.UserInfo        `json:"user_info"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}

type UserResponse struct {
	Success     bool                        `json:"success"`
	User        *authdomain.UserInfo        `json:"user"`
	Credentials authdomain.CredentialBundle `json:"credentials"`
}
