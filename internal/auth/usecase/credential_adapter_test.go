package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"

	"github.com/rs/zerolog"
)

type tokenServer struct {
	*httptest.Server
	calls atomic.Int32
	form  atomic.Value
}

func newTokenServer(t *testing.T, status int, body string) *tokenServer {
	t.Helper()
	ts := &tokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.calls.Add(1)
		if err := r.ParseForm(); err == nil {
			ts.form.Store(r.PostForm.Encode())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func validBundle(tokenURL string) authdomain.CredentialBundle {
	return authdomain.CredentialBundle{
		AccessToken:   "old-access",
		RefreshToken:  "refresh-1",
		TokenEndpoint: tokenURL,
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
	}
}

func TestAuthenticateValidation(t *testing.T) {
	ts := newTokenServer(t, http.StatusOK, `{}`)
	adapter := NewCredentialAdapter(zerolog.Nop())

	tests := []struct {
		name    string
		mutate  func(b *authdomain.CredentialBundle)
		wantMsg string
	}{
		{"missing access token", func(b *authdomain.CredentialBundle) { b.AccessToken = "" }, "missing credential field: token"},
		{"missing refresh token", func(b *authdomain.CredentialBundle) { b.RefreshToken = "" }, "missing credential field: refresh_token"},
		{"missing token endpoint", func(b *authdomain.CredentialBundle) { b.TokenEndpoint = "" }, "missing credential field: token_uri"},
		{"missing client id", func(b *authdomain.CredentialBundle) { b.ClientID = "" }, "missing credential field: client_id"},
		{"missing client secret", func(b *authdomain.CredentialBundle) { b.ClientSecret = "" }, "missing credential field: client_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBundle(ts.URL)
			tt.mutate(&b)

			_, err := adapter.Authenticate(context.Background(), b, authdomain.ScopesReadOnly)
			if !authdomain.IsAuthError(err) {
				t.Fatalf("Authenticate() error = %v, want AuthError", err)
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("Authenticate() error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}

	if n := ts.calls.Load(); n != 0 {
		t.Fatalf("token endpoint called %d times for invalid bundles", n)
	}
}

func TestAuthenticateValidTokenSkipsRefresh(t *testing.T) {
	ts := newTokenServer(t, http.StatusOK, `{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	adapter := NewCredentialAdapter(zerolog.Nop(), WithClock(func() time.Time { return now }))

	tests := []struct {
		name   string
		expiry *time.Time
	}{
		{"no expiry", nil},
		{"future expiry", timePtr(now.Add(30 * time.Minute))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBundle(ts.URL)
			b.Expiry = tt.expiry

			sess, err := adapter.Authenticate(context.Background(), b, authdomain.ScopesReadModify)
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			got := sess.Bundle()
			if got.AccessToken != "old-access" {
				t.Errorf("AccessToken = %q, want old-access", got.AccessToken)
			}
			if sess.Refreshed() {
				t.Error("Refreshed() = true, want false")
			}
			if len(got.Scopes) != 0 {
				t.Errorf("Scopes = %v, want none echoed back", got.Scopes)
			}
		})
	}

	if n := ts.calls.Load(); n != 0 {
		t.Fatalf("token endpoint called %d times, want 0", n)
	}
}

func TestAuthenticateKeepsExplicitScopes(t *testing.T) {
	ts := newTokenServer(t, http.StatusOK, `{}`)
	adapter := NewCredentialAdapter(zerolog.Nop())

	b := validBundle(ts.URL)
	b.Scopes = []string{"https://www.googleapis.com/auth/gmail.send"}

	sess, err := adapter.Authenticate(context.Background(), b, authdomain.ScopesAll)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got := sess.Bundle().Scopes; len(got) != 1 || got[0] != b.Scopes[0] {
		t.Fatalf("Scopes = %v, want %v", got, b.Scopes)
	}
}

func TestAuthenticateRefreshesExpiredToken(t *testing.T) {
	ts := newTokenServer(t, http.StatusOK, `{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)
	now := time.Now()
	adapter := NewCredentialAdapter(zerolog.Nop(),
		WithClock(func() time.Time { return now }),
		WithTokenHTTPClient(ts.Client()),
	)

	b := validBundle(ts.URL)
	b.Expiry = timePtr(now.Add(-time.Minute))

	sess, err := adapter.Authenticate(context.Background(), b, authdomain.ScopesReadModify)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if n := ts.calls.Load(); n != 1 {
		t.Fatalf("token endpoint called %d times, want 1", n)
	}
	form, _ := ts.form.Load().(string)
	for _, want := range []string{"grant_type=refresh_token", "refresh_token=refresh-1", "client_id=client-id"} {
		if !strings.Contains(form, want) {
			t.Errorf("refresh form %q missing %q", form, want)
		}
	}

	got := sess.Bundle()
	if got.AccessToken != "new-access" {
		t.Errorf("AccessToken = %q, want new-access", got.AccessToken)
	}
	if got.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken = %q, want refresh-1 kept", got.RefreshToken)
	}
	if got.Expiry == nil || !got.Expiry.After(now) {
		t.Errorf("Expiry = %v, want a future time", got.Expiry)
	}
	if !sess.Refreshed() {
		t.Error("Refreshed() = false, want true")
	}
	if len(got.Scopes) != 0 {
		t.Errorf("Scopes = %v, want none added by the refresh", got.Scopes)
	}
}

func TestAuthenticateRefreshFailure(t *testing.T) {
	ts := newTokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`)
	now := time.Now()
	adapter := NewCredentialAdapter(zerolog.Nop(), WithClock(func() time.Time { return now }))

	b := validBundle(ts.URL)
	b.Expiry = timePtr(now.Add(-time.Hour))

	sess, err := adapter.Authenticate(context.Background(), b, authdomain.ScopesReadModify)
	if sess != nil {
		t.Fatal("Authenticate() returned a session on refresh failure")
	}
	var authErr *authdomain.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Authenticate() error = %v, want AuthError", err)
	}
	if !strings.HasPrefix(authErr.Message, "token refresh failed: ") {
		t.Fatalf("message = %q, want token refresh failed prefix", authErr.Message)
	}
	if authErr.Unwrap() == nil {
		t.Error("AuthError does not wrap the refresh cause")
	}
	if n := ts.calls.Load(); n != 1 {
		t.Fatalf("token endpoint called %d times, want exactly 1", n)
	}
}

func TestSessionClientSendsBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer api.Close()

	ts := newTokenServer(t, http.StatusOK, `{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)
	now := time.Now()
	adapter := NewCredentialAdapter(zerolog.Nop(), WithClock(func() time.Time { return now }))

	b := validBundle(ts.URL)
	b.Expiry = timePtr(now.Add(-time.Second))

	sess, err := adapter.Authenticate(context.Background(), b, nil)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	resp, err := sess.Client.Get(api.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	if got, _ := gotAuth.Load().(string); got != "Bearer new-access" {
		t.Fatalf("Authorization = %q, want Bearer new-access", got)
	}
	if n := ts.calls.Load(); n != 1 {
		t.Fatalf("token endpoint called %d times, want 1", n)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
