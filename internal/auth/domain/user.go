package domain

// UserInfo is the Google profile of the signed-in account
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
	VerifiedEmail bool   `json:"verified_email"`
}
