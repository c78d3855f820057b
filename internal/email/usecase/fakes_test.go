package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/pkg/ai"
)

type fakeAdapter struct {
	err    error
	scopes []string
	calls  int
}

func (f *fakeAdapter) Authenticate(_ context.Context, bundle authdomain.CredentialBundle, defaultScopes []string) (*authdomain.Session, error) {
	f.calls++
	f.scopes = defaultScopes
	if f.err != nil {
		return nil, f.err
	}
	return authdomain.NewSession(bundle), nil
}

type fakeStore struct {
	mu       sync.Mutex
	refs     []emaildomain.MessageRef
	msgs     map[string]*emaildomain.RawMessage
	failIDs  map[string]bool
	listErr  error
	account  string
	query    emaildomain.Query
	listMax  int
	getCalls []emaildomain.GetOptions
	sent     [][]byte
	closed   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		msgs:    make(map[string]*emaildomain.RawMessage),
		failIDs: make(map[string]bool),
		account: "me@example.com",
	}
}

func (s *fakeStore) add(msg *emaildomain.RawMessage) {
	s.refs = append(s.refs, emaildomain.MessageRef{ID: msg.ID})
	s.msgs[msg.ID] = msg
}

func (s *fakeStore) ListMessages(_ context.Context, q emaildomain.Query, max int) ([]emaildomain.MessageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query, s.listMax = q, max
	if s.listErr != nil {
		return nil, s.listErr
	}
	refs := s.refs
	if len(refs) > max {
		refs = refs[:max]
	}
	return refs, nil
}

func (s *fakeStore) GetMessage(_ context.Context, id string, opts emaildomain.GetOptions) (*emaildomain.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls = append(s.getCalls, opts)
	if s.failIDs[id] {
		return nil, errors.New("backend error 500")
	}
	msg, ok := s.msgs[id]
	if !ok {
		return nil, emaildomain.ErrMessageNotFound
	}
	return msg, nil
}

func (s *fakeStore) SendMessage(_ context.Context, raw []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, raw)
	return fmt.Sprintf("sent-%d", len(s.sent)), nil
}

func (s *fakeStore) Account(context.Context) (string, error) {
	if s.account == "" {
		return "", errors.New("no profile")
	}
	return s.account, nil
}

func (s *fakeStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func openerFor(store *fakeStore) OpenerFunc {
	return func(context.Context, *authdomain.Session) (MailStore, error) {
		return store, nil
	}
}

// fakeAssistant labels every message with its subject so tests can track rows
type fakeAssistant struct {
	mu         sync.Mutex
	summaries  int
	analysis   ai.BatchStats
	enhanceErr error
}

func (a *fakeAssistant) Labels(_ context.Context, subject, _, _ string) []string {
	return []string{"label:" + subject}
}

func (a *fakeAssistant) Summarize(_ context.Context, subject, _, _ string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.summaries++
	return "summary of " + subject
}

func (a *fakeAssistant) SmartReplies(_ context.Context, subject, _, sender string) string {
	return "reply to " + sender + " about " + subject
}

func (a *fakeAssistant) Compose(_ context.Context, req ai.ComposeRequest) string {
	return "draft for " + req.Recipient
}

func (a *fakeAssistant) OverallAnalysis(_ context.Context, stats ai.BatchStats) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analysis = stats
	return "analysis"
}

func (a *fakeAssistant) LabelRecommendations(_ context.Context, distribution map[string]int) string {
	return fmt.Sprintf("%d labels", len(distribution))
}

func (a *fakeAssistant) Enhance(_ context.Context, _, body string) (string, error) {
	if a.enhanceErr != nil {
		return "", a.enhanceErr
	}
	return "enhanced " + body, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	saved   []*emaildomain.TriageReport
	saveErr error
}

func (r *fakeRecorder) Save(report *emaildomain.TriageReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, report)
	return nil
}

func (r *fakeRecorder) ListByAccount(account string, limit int) ([]*emaildomain.TriageReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*emaildomain.TriageReport
	for _, rep := range r.saved {
		if rep.Account == account && len(out) < limit {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *fakeRecorder) DeleteOlderThan(string, int) error { return nil }

func rawMessage(id, subject, from, date, snippet string) *emaildomain.RawMessage {
	return &emaildomain.RawMessage{
		ID:      id,
		Snippet: snippet,
		Headers: []emaildomain.Header{
			{Name: "Subject", Value: subject},
			{Name: "From", Value: from},
			{Name: "Date", Value: date},
		},
	}
}

func validTokens() authdomain.CredentialBundle {
	return authdomain.CredentialBundle{
		AccessToken:   "access",
		RefreshToken:  "refresh",
		TokenEndpoint: "https://oauth2.example.com/token",
		ClientID:      "id",
		ClientSecret:  "secret",
	}
}
