package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const user = "me"

// Opener builds Gmail stores bound to an authenticated session. The rate
// limiter is shared by every store it opens.
type Opener struct {
	limiter    *rate.Limiter
	apiOptions []option.ClientOption
	log        zerolog.Logger
}

// NewOpener creates an Opener allowing rps Gmail calls per second
func NewOpener(rps float64, log zerolog.Logger, apiOptions ...option.ClientOption) *Opener {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Opener{
		limiter:    rate.NewLimiter(limit, burst),
		apiOptions: apiOptions,
		log:        log.With().Str("component", "gmail").Logger(),
	}
}

func (o *Opener) Open(ctx context.Context, sess *authdomain.Session) (*Store, error) {
	if sess == nil || sess.Client == nil {
		return nil, errors.New("session is not authenticated")
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(sess.Client)}, o.apiOptions...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}
	return &Store{srv: srv, limiter: o.limiter, log: o.log}, nil
}

// Store reads and sends mail through the Gmail REST API
type Store struct {
	srv     *gmail.Service
	limiter *rate.Limiter
	log     zerolog.Logger

	mu      sync.Mutex
	account string
}

func (s *Store) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("gmail rate limit: %w", err)
	}
	return nil
}

// searchQuery renders a Query in Gmail search syntax
func searchQuery(q emaildomain.Query) string {
	var parts []string
	if !q.After.IsZero() {
		parts = append(parts, fmt.Sprintf("after:%d", q.After.Unix()))
	}
	if q.Folder != "" {
		parts = append(parts, "in:"+strings.ToLower(q.Folder))
	}
	return strings.Join(parts, " ")
}

func (s *Store) ListMessages(ctx context.Context, q emaildomain.Query, max int) ([]emaildomain.MessageRef, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	call := s.srv.Users.Messages.List(user).MaxResults(int64(max)).Context(ctx)
	if query := searchQuery(q); query != "" {
		call = call.Q(query)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	refs := make([]emaildomain.MessageRef, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		refs = append(refs, emaildomain.MessageRef{ID: m.Id})
	}
	if len(refs) > max {
		refs = refs[:max]
	}
	return refs, nil
}

func (s *Store) GetMessage(ctx context.Context, id string, opts emaildomain.GetOptions) (*emaildomain.RawMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	call := s.srv.Users.Messages.Get(user, id).Context(ctx)
	if opts.MetadataOnly {
		call = call.Format("metadata").MetadataHeaders(opts.Headers...)
	} else {
		call = call.Format("full")
	}

	msg, err := call.Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", emaildomain.ErrMessageNotFound, id)
		}
		return nil, fmt.Errorf("unable to retrieve message: %w", err)
	}

	return convertMessage(msg), nil
}

func convertMessage(msg *gmail.Message) *emaildomain.RawMessage {
	raw := &emaildomain.RawMessage{
		ID:      msg.Id,
		Snippet: msg.Snippet,
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			raw.Headers = append(raw.Headers, emaildomain.Header{Name: h.Name, Value: h.Value})
		}
		raw.Payload = convertPart(msg.Payload)
	}
	return raw
}

// convertPart copies the MIME tree. Gmail already carries leaf data in base64url.
func convertPart(p *gmail.MessagePart) *emaildomain.Part {
	part := &emaildomain.Part{MimeType: p.MimeType}
	if p.Body != nil {
		part.Data = p.Body.Data
	}
	for _, child := range p.Parts {
		if child == nil {
			continue
		}
		part.Parts = append(part.Parts, convertPart(child))
	}
	return part
}

func (s *Store) SendMessage(ctx context.Context, raw []byte) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}
	sent, err := s.srv.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send message: %w", err)
	}
	s.log.Debug().Str("message_id", sent.Id).Msg("message sent")
	return sent.Id, nil
}

func (s *Store) Account(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != "" {
		return s.account, nil
	}

	if err := s.wait(ctx); err != nil {
		return "", err
	}
	profile, err := s.srv.Users.GetProfile(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve profile: %w", err)
	}
	s.account = profile.EmailAddress
	return s.account, nil
}

func (s *Store) Close() error {
	return nil
}
