package usecase

import (
	"context"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	authdto "github.com/BhavyPan/Advance-Web/internal/auth/dto"
)

// CredentialAdapter turns a client-held credential bundle into a session
type CredentialAdapter interface {
	// Authenticate validates the bundle, refreshes an expired access token once,
	// and returns a session whose bundle carries the refreshed token.
	Authenticate(ctx context.Context, bundle authdomain.CredentialBundle, defaultScopes []string) (*authdomain.Session, error)
}

// AuthUsecase drives the Google consent flow
type AuthUsecase interface {
	AuthURL(redirectURI string) (string, error)
	HandleCallback(ctx context.Context, code, state, redirectURI string) (*authdto.CallbackResponse, error)
	UserInfo(ctx context.Context, sess *authdomain.Session) (*authdomain.UserInfo, error)
	// CurrentUser authenticates the bundle and returns the account it belongs to
	CurrentUser(ctx context.Context, bundle authdomain.CredentialBundle) (*authdto.UserResponse, error)
}
