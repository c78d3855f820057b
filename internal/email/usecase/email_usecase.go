package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	authusecase "github.com/BhavyPan/Advance-Web/internal/auth/usecase"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/internal/email/dto"
	"github.com/BhavyPan/Advance-Web/pkg/ai"
	"github.com/BhavyPan/Advance-Web/pkg/priority"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
)

// reportsListed is the number of reports returned by Reports
const reportsListed = 20

// emailUsecase implements EmailUsecase
type emailUsecase struct {
	adapter   authusecase.CredentialAdapter
	opener    StoreOpener
	reader    *Reader
	assistant Assistant
	reports   ReportRecorder
	now       func() time.Time
	log       zerolog.Logger
}

// NewEmailUsecase creates a new instance of emailUsecase. reports may be nil.
func NewEmailUsecase(
	adapter authusecase.CredentialAdapter,
	opener StoreOpener,
	assistant Assistant,
	reports ReportRecorder,
	log zerolog.Logger,
) EmailUsecase {
	return &emailUsecase{
		adapter:   adapter,
		opener:    opener,
		reader:    NewReader(log),
		assistant: assistant,
		reports:   reports,
		now:       time.Now,
		log:       log.With().Str("component", "email").Logger(),
	}
}

// withStore authenticates, opens a store and runs fn against it
func (u *emailUsecase) withStore(ctx context.Context, bundle authdomain.CredentialBundle, scopes []string, fn func(sess *authdomain.Session, store MailStore) error) error {
	sess, err := u.adapter.Authenticate(ctx, bundle, scopes)
	if err != nil {
		return err
	}
	store, err := u.opener.Open(ctx, sess)
	if err != nil {
		return fmt.Errorf("failed to open mail store: %w", err)
	}
	defer store.Close()
	return fn(sess, store)
}

func (u *emailUsecase) detail(ctx context.Context, store MailStore, id string) (*emaildomain.MessageDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &emaildomain.ValidationError{Message: "Email id is required"}
	}
	meta, body, err := u.reader.FetchDetail(ctx, store, id)
	if err != nil {
		u.log.Warn().Err(err).Str("message_id", id).Msg("could not fetch email")
		return nil, err
	}
	return &emaildomain.MessageDetail{
		MessageSummary: emaildomain.MessageSummary{
			ID:       id,
			Subject:  meta.Subject,
			Sender:   meta.Sender,
			Snippet:  meta.Snippet,
			Date:     FormatDetailDate(meta.RawDate),
			Priority: priority.Classify(meta.Subject, body, meta.RawSender),
		},
		Body: body,
	}, nil
}

func (u *emailUsecase) GetEmail(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.EmailResponse, error) {
	var resp *dto.EmailResponse
	err := u.withStore(ctx, bundle, authdomain.ScopesReadModify, func(sess *authdomain.Session, store MailStore) error {
		email, err := u.detail(ctx, store, id)
		if err != nil {
			return err
		}
		resp = &dto.EmailResponse{Success: true, Email: email, Credentials: sess.Bundle()}
		return nil
	})
	return resp, err
}

func (u *emailUsecase) AnalyzeEmail(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.EmailResponse, error) {
	var resp *dto.EmailResponse
	err := u.withStore(ctx, bundle, authdomain.ScopesReadModify, func(sess *authdomain.Session, store MailStore) error {
		email, err := u.detail(ctx, store, id)
		if err != nil {
			return err
		}
		content := promptText(email.Body, email.Snippet)
		email.AISummary = u.assistant.Summarize(ctx, email.Subject, content, email.Snippet)
		email.AILabels = u.assistant.Labels(ctx, email.Subject, content, email.Sender)
		resp = &dto.EmailResponse{Success: true, Email: email, Credentials: sess.Bundle()}
		return nil
	})
	return resp, err
}

func (u *emailUsecase) SmartReply(ctx context.Context, bundle authdomain.CredentialBundle, id string) (*dto.SmartReplyResponse, error) {
	var resp *dto.SmartReplyResponse
	err := u.withStore(ctx, bundle, authdomain.ScopesReadModify, func(sess *authdomain.Session, store MailStore) error {
		email, err := u.detail(ctx, store, id)
		if err != nil {
			return err
		}
		replies := u.assistant.SmartReplies(ctx, email.Subject, promptText(email.Body, email.Snippet), email.Sender)
		resp = &dto.SmartReplyResponse{Success: true, Replies: replies, Credentials: sess.Bundle()}
		return nil
	})
	return resp, err
}

func (u *emailUsecase) SendEmail(ctx context.Context, bundle authdomain.CredentialBundle, req dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, &emaildomain.ValidationError{Message: "Missing required fields"}
	}

	var resp *dto.SendEmailResponse
	err := u.withStore(ctx, bundle, authdomain.ScopesAll, func(sess *authdomain.Session, store MailStore) error {
		from, err := store.Account(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve sender address: %w", err)
		}

		raw, err := buildMessage(from, req, u.now())
		if err != nil {
			return err
		}

		id, err := store.SendMessage(ctx, raw)
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		u.log.Info().Str("message_id", id).Msg("email sent")

		resp = &dto.SendEmailResponse{Success: true, MessageID: id, Credentials: sess.Bundle()}
		return nil
	})
	return resp, err
}

// HTMLBody wraps a plain-text body in the outgoing HTML template, one <br>
// per newline
func HTMLBody(body string) string {
	return "<div style='font-family: Arial, sans-serif; line-height: 1.6;'>" +
		strings.ReplaceAll(body, "\n", "<br>") +
		"</div>"
}

// buildMessage renders an HTML email with go-message
func buildMessage(from string, req dto.SendEmailRequest, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetSubject(req.Subject)
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	if from != "" {
		h.SetAddressList("From", []*mail.Address{{Address: from}})
	}
	for _, field := range []struct {
		key   string
		value string
	}{
		{"To", req.To},
		{"Cc", req.Cc},
		{"Bcc", req.Bcc},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		addrs, err := mail.ParseAddressList(field.value)
		if err != nil {
			return nil, &emaildomain.ValidationError{Message: fmt.Sprintf("Invalid %s address: %v", field.key, err)}
		}
		h.SetAddressList(field.key, addrs)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	if _, err := w.Write([]byte(HTMLBody(req.Body))); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	return buf.Bytes(), nil
}

func (u *emailUsecase) ComposeEmail(ctx context.Context, req dto.ComposeEmailRequest) (string, error) {
	if strings.TrimSpace(req.Recipient) == "" || strings.TrimSpace(req.Purpose) == "" {
		return "", &emaildomain.ValidationError{Message: "Recipient and purpose are required"}
	}
	return u.assistant.Compose(ctx, ai.ComposeRequest{
		Context:   req.Context,
		Recipient: req.Recipient,
		Purpose:   req.Purpose,
		Tone:      req.Tone,
	}), nil
}

func (u *emailUsecase) EnhanceEmail(ctx context.Context, req dto.EnhanceEmailRequest) (string, error) {
	if strings.TrimSpace(req.Body) == "" {
		return "", &emaildomain.ValidationError{Message: "Email body is required"}
	}
	return u.assistant.Enhance(ctx, req.Subject, req.Body)
}

func (u *emailUsecase) Reports(ctx context.Context, bundle authdomain.CredentialBundle) (*dto.ReportsResponse, error) {
	var resp *dto.ReportsResponse
	err := u.withStore(ctx, bundle, authdomain.ScopesReadOnly, func(sess *authdomain.Session, store MailStore) error {
		account, err := store.Account(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve account: %w", err)
		}

		reports := []*emaildomain.TriageReport{}
		if u.reports != nil {
			reports, err = u.reports.ListByAccount(account, reportsListed)
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}
		}
		resp = &dto.ReportsResponse{Success: true, Account: account, Reports: reports, Credentials: sess.Bundle()}
		return nil
	})
	return resp, err
}

// promptText picks the text sent to the model: the body as markdown when it
// is HTML, the snippet when there is no body
func promptText(body, snippet string) string {
	if body == "" || body == noContentPlaceholder || body == bodyErrorPlaceholder {
		return snippet
	}
	if !looksLikeHTML(body) {
		return body
	}
	md, err := htmltomarkdown.ConvertString(body)
	if err != nil || strings.TrimSpace(md) == "" {
		return html.UnescapeString(body)
	}
	return md
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	for _, tag := range []string{"<html", "<body", "<div", "<p>", "<p ", "<br", "<table", "<span", "<a "} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}
