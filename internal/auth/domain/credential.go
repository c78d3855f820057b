package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// CredentialBundle is the client-held OAuth state. The server never persists it;
// every authenticated request carries it and every response echoes it back,
// refreshed when needed.
type CredentialBundle struct {
	AccessToken   string     `json:"token"`
	RefreshToken  string     `json:"refresh_token"`
	TokenEndpoint string     `json:"token_uri"`
	ClientID      string     `json:"client_id"`
	ClientSecret  string     `json:"client_secret"`
	Scopes        []string   `json:"scopes,omitempty"`
	Expiry        *time.Time `json:"expiry,omitempty"`
}

// Validate reports the first missing required field
func (b *CredentialBundle) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"token", b.AccessToken},
		{"refresh_token", b.RefreshToken},
		{"token_uri", b.TokenEndpoint},
		{"client_id", b.ClientID},
		{"client_secret", b.ClientSecret},
	}
	for _, f := range required {
		if f.value == "" {
			return NewAuthError("missing credential field: "+f.name, nil)
		}
	}
	return nil
}

// Expired reports whether the access token expiry has passed.
// A bundle without expiry is treated as valid.
func (b *CredentialBundle) Expired(now time.Time) bool {
	return b.Expiry != nil && !b.Expiry.After(now)
}

// Token converts the bundle to an oauth2 token
func (b *CredentialBundle) Token() *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		TokenType:    "Bearer",
	}
	if b.Expiry != nil {
		t.Expiry = *b.Expiry
	}
	return t
}

// OAuthConfig builds the client config that refreshes against the bundle's endpoint.
// Client credentials go in the form body so a failed refresh is not retried
// with another auth style.
func (b *CredentialBundle) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     b.ClientID,
		ClientSecret: b.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  b.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: b.Scopes,
	}
}

// WithToken returns a copy of the bundle carrying t's access token and expiry.
// The refresh token is replaced only when the provider rotated it.
func (b CredentialBundle) WithToken(t *oauth2.Token) CredentialBundle {
	b.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		b.RefreshToken = t.RefreshToken
	}
	if t.Expiry.IsZero() {
		b.Expiry = nil
	} else {
		expiry := t.Expiry.UTC()
		b.Expiry = &expiry
	}
	if len(b.Scopes) > 0 {
		b.Scopes = append([]string(nil), b.Scopes...)
	}
	return b
}
