package usecase

import (
	"sync"

	"golang.org/x/oauth2"
)

// notifyTokenSource reports every token change to callback
type notifyTokenSource struct {
	mu       sync.Mutex
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback func(*oauth2.Token)
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callback != nil && (s.current == nil || s.current.AccessToken != t.AccessToken) {
		s.current = t
		s.callback(t)
	}
	return t, nil
}
