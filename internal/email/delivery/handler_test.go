package delivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdelivery "github.com/BhavyPan/Advance-Web/internal/auth/delivery"
	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/internal/email/dto"
	"github.com/BhavyPan/Advance-Web/pkg/ai"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type fakeTriage struct {
	mode emaildomain.TriageMode
	err  error
}

func (f *fakeTriage) Triage(ctx context.Context, bundle authdomain.CredentialBundle, mode emaildomain.TriageMode) (*emaildomain.TriageResult, error) {
	f.mode = mode
	if f.err != nil {
		return nil, f.err
	}
	return &emaildomain.TriageResult{
		RunID:       "run-1",
		Emails:      []*emaildomain.MessageSummary{{ID: "m1", Subject: "Hi"}},
		Stats:       emaildomain.PriorityStats{Total: 1, Low: 1},
		Credentials: bundle,
	}, nil
}

func (f *fakeTriage) AnalyzeLabels(ctx context.Context, bundle authdomain.CredentialBundle) (*emaildomain.LabelAnalysisResult, error) {
	return &emaildomain.LabelAnalysisResult{
		Analysis:    emaildomain.LabelAnalysis{LabelDistribution: map[string]int{"work": 2}, Recommendations: "ok"},
		Credentials: bundle,
	}, f.err
}

type fakeEmail struct {
	err     error
	sendReq dto.SendEmailRequest
}

func (f *fakeEmail) GetEmail(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.EmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EmailResponse{Success: true, Email: &emaildomain.MessageDetail{MessageSummary: emaildomain.MessageSummary{ID: id}}}, nil
}

func (f *fakeEmail) AnalyzeEmail(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.EmailResponse, error) {
	return f.GetEmail(ctx, bundle, id)
}

func (f *fakeEmail) SmartReply(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.SmartReplyResponse, error) {
	return &dto.SmartReplyResponse{Success: true, Replies: "replies for " + id}, f.err
}

func (f *fakeEmail) SendEmail(ctx context.Context, bundle authdomain.CredentialBundle, req dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	f.sendReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SendEmailResponse{Success: true, MessageID: "sent-1"}, nil
}

func (f *fakeEmail) ComposeEmail(ctx context.Context, req dto.ComposeEmailRequest) (string, error) {
	return "draft for " + req.Recipient, f.err
}

func (f *fakeEmail) EnhanceEmail(ctx context.Context, req dto.EnhanceEmailRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "better " + req.Body, nil
}

func (f *fakeEmail) Reports(ctx context.Context, bundle authdomain.CredentialBundle) (*dto.ReportsResponse, error) {
	return &dto.ReportsResponse{Success: true, Account: "me@example.com", Reports: []*emaildomain.TriageReport{}}, f.err
}

const tokensBody = `{"tokens":{"token":"a","refresh_token":"r","token_uri":"https://oauth2.example.com/token","client_id":"c","client_secret":"s"}}`

func newTestRouter(email *fakeEmail, triage *fakeTriage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEmailHandler(email, triage, zerolog.Nop())

	r := gin.New()
	r.POST("/api/ai-compose-email", h.ComposeEmail)
	r.POST("/api/ai-enhance-email", h.EnhanceEmail)

	authed := r.Group("/api", authdelivery.RequireCredentials())
	authed.POST("/emails", h.ListEmails)
	authed.POST("/analyze-all-emails", h.AnalyzeAllEmails)
	authed.POST("/analyze-labels", h.AnalyzeLabels)
	authed.POST("/email/:id", h.GetEmail)
	authed.POST("/email/:id/smart-reply", h.SmartReply)
	authed.POST("/send-email", h.SendEmail)
	authed.POST("/reports", h.Reports)
	return r
}

func do(r http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestTriageRoutes(t *testing.T) {
	tests := []struct {
		path string
		mode emaildomain.TriageMode
	}{
		{"/api/emails", emaildomain.ModeInbox},
		{"/api/analyze-all-emails", emaildomain.ModeAnalyzeAll},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			triage := &fakeTriage{}
			w, out := do(newTestRouter(&fakeEmail{}, triage), tt.path, tokensBody)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if triage.mode != tt.mode {
				t.Errorf("mode = %q, want %q", triage.mode, tt.mode)
			}
			if out["success"] != true || out["run_id"] != "run-1" {
				t.Errorf("response = %v", out)
			}
			if _, ok := out["credentials"].(map[string]any); !ok {
				t.Errorf("credentials missing from %v", out)
			}
			if emails, _ := out["emails"].([]any); len(emails) != 1 {
				t.Errorf("emails = %v", out["emails"])
			}
		})
	}
}

func TestMissingTokens(t *testing.T) {
	r := newTestRouter(&fakeEmail{}, &fakeTriage{})
	for _, body := range []string{`{}`, `not json`, `{"tokens":null}`} {
		w, out := do(r, "/api/emails", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
		if out["error"] != "No tokens provided" {
			t.Errorf("body %q: error = %v", body, out["error"])
		}
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"auth", authdomain.NewAuthError("token refresh failed: invalid_grant", nil), http.StatusUnauthorized, "token refresh failed: invalid_grant"},
		{"validation", &emaildomain.ValidationError{Message: "Missing required fields"}, http.StatusBadRequest, "Missing required fields"},
		{"fetch", &emaildomain.FetchError{ID: "x", Err: errors.New("boom")}, http.StatusBadGateway, "Could not fetch email"},
		{"no model", ai.ErrNoModel, http.StatusServiceUnavailable, "AI service unavailable"},
		{"backend", &ai.BackendError{Op: "enhance", Err: errors.New("quota")}, http.StatusServiceUnavailable, "AI service unavailable"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeEmail{err: tt.err}, &fakeTriage{err: tt.err})
			w, out := do(r, "/api/email/abc", tokensBody)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if out["success"] != false || out["error"] != tt.message {
				t.Errorf("response = %v", out)
			}
		})
	}
}

func TestGetEmailAndSmartReply(t *testing.T) {
	r := newTestRouter(&fakeEmail{}, &fakeTriage{})

	w, out := do(r, "/api/email/abc", tokensBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if email, _ := out["email"].(map[string]any); email["id"] != "abc" {
		t.Errorf("email = %v", out["email"])
	}

	_, out = do(r, "/api/email/abc/smart-reply", tokensBody)
	if out["replies"] != "replies for abc" {
		t.Errorf("replies = %v", out["replies"])
	}
}

func TestSendEmailBindsPayload(t *testing.T) {
	email := &fakeEmail{}
	r := newTestRouter(email, &fakeTriage{})

	body := `{"tokens":{"token":"a","refresh_token":"r","token_uri":"u","client_id":"c","client_secret":"s"},"to":"bob@example.com","subject":"Hi","body":"line1\nline2","cc":"carol@example.com"}`
	w, out := do(r, "/api/send-email", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if out["message_id"] != "sent-1" {
		t.Errorf("message_id = %v", out["message_id"])
	}
	if email.sendReq.To != "bob@example.com" || email.sendReq.Cc != "carol@example.com" || email.sendReq.Body != "line1\nline2" {
		t.Errorf("request = %+v", email.sendReq)
	}
}

func TestComposeAndEnhance(t *testing.T) {
	r := newTestRouter(&fakeEmail{}, &fakeTriage{})

	w, out := do(r, "/api/ai-compose-email", `{"recipient":"Dana","purpose":"thanks"}`)
	if w.Code != http.StatusOK || out["email_content"] != "draft for Dana" {
		t.Errorf("compose: status %d, response %v", w.Code, out)
	}

	w, out = do(r, "/api/ai-enhance-email", `{"body":"hello"}`)
	if w.Code != http.StatusOK || out["enhanced_body"] != "better hello" {
		t.Errorf("enhance: status %d, response %v", w.Code, out)
	}

	w, _ = do(newTestRouter(&fakeEmail{err: ai.ErrNoModel}, &fakeTriage{}), "/api/ai-enhance-email", `{"body":"hello"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("enhance without model: status = %d, want 503", w.Code)
	}
}

func TestAnalyzeLabelsAndReports(t *testing.T) {
	r := newTestRouter(&fakeEmail{}, &fakeTriage{})

	_, out := do(r, "/api/analyze-labels", tokensBody)
	analysis, _ := out["analysis"].(map[string]any)
	if dist, _ := analysis["label_distribution"].(map[string]any); dist["work"] != float64(2) {
		t.Errorf("analysis = %v", out["analysis"])
	}

	_, out = do(r, "/api/reports", tokensBody)
	if out["account"] != "me@example.com" {
		t.Errorf("reports = %v", out)
	}
}
