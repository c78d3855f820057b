package domain

import (
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// Session is an authenticated handle for one request. Its HTTP client signs
// every call with the current access token and refreshes it when it expires.
type Session struct {
	Client      *http.Client
	TokenSource oauth2.TokenSource

	mu        sync.Mutex
	bundle    CredentialBundle
	refreshed bool
}

func NewSession(bundle CredentialBundle) *Session {
	return &Session{bundle: bundle}
}

// Bundle returns the latest credentials, including any refreshed token
func (s *Session) Bundle() CredentialBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle.WithToken(s.bundle.Token())
}

// Refreshed reports whether the access token changed during the session
func (s *Session) Refreshed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}

// UpdateToken records a refreshed token
func (s *Session) UpdateToken(t *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.AccessToken == s.bundle.AccessToken {
		return
	}
	s.bundle = s.bundle.WithToken(t)
	s.refreshed = true
}
