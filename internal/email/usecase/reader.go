package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
)

const (
	defaultSubject = "(No Subject)"
	defaultSender  = "Unknown Sender"

	summaryDateLayout = "Jan 02, 03:04 PM"
	detailDateLayout  = "Monday, January 02, 2006 at 03:04 PM"
)

// metadataHeaders are requested for list rows
var metadataHeaders = []string{"Subject", "From", "Date"}

// Reader turns mail store responses into domain views
type Reader struct {
	now func() time.Time
	log zerolog.Logger
}

func NewReader(log zerolog.Logger) *Reader {
	return &Reader{
		now: time.Now,
		log: log.With().Str("component", "reader").Logger(),
	}
}

// ListRecent lists inbox messages received in the last windowHours
func (r *Reader) ListRecent(ctx context.Context, store MailStore, windowHours, maxResults int) ([]emaildomain.MessageRef, error) {
	q := emaildomain.Query{
		After:  r.now().Add(-time.Duration(windowHours) * time.Hour),
		Folder: emaildomain.FolderInbox,
	}
	refs, err := store.ListMessages(ctx, q, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if len(refs) > maxResults {
		refs = refs[:maxResults]
	}
	return refs, nil
}

// FetchMetadata reads the Subject/From/Date headers of one message
func (r *Reader) FetchMetadata(ctx context.Context, store MailStore, ref emaildomain.MessageRef) (*emaildomain.Metadata, error) {
	msg, err := store.GetMessage(ctx, ref.ID, emaildomain.GetOptions{MetadataOnly: true, Headers: metadataHeaders})
	if err != nil {
		return nil, &emaildomain.FetchError{ID: ref.ID, Err: err}
	}
	return metadataOf(msg, defaultSubject, defaultSender), nil
}

// FetchDetail reads a full message and decodes its body
func (r *Reader) FetchDetail(ctx context.Context, store MailStore, id string) (*emaildomain.Metadata, string, error) {
	msg, err := store.GetMessage(ctx, id, emaildomain.GetOptions{})
	if err != nil {
		return nil, "", &emaildomain.FetchError{ID: id, Err: err}
	}
	return metadataOf(msg, defaultSubject, defaultSender), ExtractBody(msg.Payload), nil
}

func metadataOf(msg *emaildomain.RawMessage, subjectDefault, senderDefault string) *emaildomain.Metadata {
	subject, ok := HeaderValue(msg.Headers, "Subject")
	if !ok {
		subject = subjectDefault
	}
	from, ok := HeaderValue(msg.Headers, "From")
	if !ok {
		from = senderDefault
	}
	date, _ := HeaderValue(msg.Headers, "Date")

	return &emaildomain.Metadata{
		ID:        msg.ID,
		Subject:   subject,
		RawSender: from,
		Sender:    ExtractSenderName(from),
		RawDate:   date,
		Snippet:   msg.Snippet,
	}
}

// HeaderValue looks up the first header named name, ignoring case
func HeaderValue(headers []emaildomain.Header, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// ExtractSenderName returns the display name of a From value:
// `"Jane Doe" <jane@x.com>` gives `Jane Doe`, a bare address is returned as is.
func ExtractSenderName(from string) string {
	i := strings.Index(from, "<")
	if i < 0 {
		return from
	}
	return strings.ReplaceAll(strings.TrimSpace(from[:i]), `"`, "")
}

// FormatSummaryDate renders a Date header as "Jan 02, 03:04 PM", or the first
// 16 characters of the raw value when it does not parse
func FormatSummaryDate(raw string) string {
	t, err := parseDate(raw)
	if err != nil {
		if r := []rune(raw); len(r) > 16 {
			return string(r[:16])
		}
		return raw
	}
	return t.Format(summaryDateLayout)
}

// FormatDetailDate renders a Date header in the long form, or the raw value
// when it does not parse
func FormatDetailDate(raw string) string {
	t, err := parseDate(raw)
	if err != nil {
		return raw
	}
	return t.Format(detailDateLayout)
}

func parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	var h mail.Header
	h.Set("Date", raw)
	if t, err := h.Date(); err == nil {
		return t, nil
	}
	// some senders put ISO timestamps in Date
	return time.Parse(time.RFC3339, strings.TrimSpace(raw))
}
