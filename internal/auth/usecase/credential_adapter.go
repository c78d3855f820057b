package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

type credentialAdapter struct {
	log zerolog.Logger
	now func() time.Time
	// httpClient, when set, is used for token endpoint calls
	httpClient *http.Client
}

// AdapterOption customizes the credential adapter
type AdapterOption func(*credentialAdapter)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) AdapterOption {
	return func(a *credentialAdapter) { a.now = now }
}

// WithTokenHTTPClient sets the HTTP client used to reach the token endpoint
func WithTokenHTTPClient(c *http.Client) AdapterOption {
	return func(a *credentialAdapter) { a.httpClient = c }
}

// NewCredentialAdapter creates a new instance of credentialAdapter
func NewCredentialAdapter(log zerolog.Logger, opts ...AdapterOption) CredentialAdapter {
	a := &credentialAdapter{
		log: log.With().Str("component", "credentials").Logger(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *credentialAdapter) Authenticate(ctx context.Context, bundle authdomain.CredentialBundle, defaultScopes []string) (*authdomain.Session, error) {
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	// defaults apply to this session only; the echoed bundle keeps what the caller sent
	cfg := bundle.OAuthConfig()
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = append([]string(nil), defaultScopes...)
	}
	sess := authdomain.NewSession(bundle)
	token := bundle.Token()

	if bundle.Expired(a.now()) {
		// A token carrying only the refresh token forces exactly one refresh grant.
		refreshed, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: bundle.RefreshToken}).Token()
		if err != nil {
			a.log.Warn().Err(err).Str("token_uri", bundle.TokenEndpoint).Msg("token refresh failed")
			return nil, authdomain.NewAuthError(fmt.Sprintf("token refresh failed: %v", err), err)
		}
		a.log.Debug().Time("expiry", refreshed.Expiry).Msg("access token refreshed")
		sess.UpdateToken(refreshed)
		token = refreshed
	}

	src := &notifyTokenSource{
		src:      cfg.TokenSource(ctx, token),
		current:  token,
		callback: sess.UpdateToken,
	}
	sess.TokenSource = src
	sess.Client = oauth2.NewClient(ctx, src)

	return sess, nil
}
