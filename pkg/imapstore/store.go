package imapstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-sasl"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	dialTimeout    = 15 * time.Second
	commandTimeout = time.Minute
)

// AccountResolver returns the mailbox address the session belongs to
type AccountResolver func(ctx context.Context, sess *authdomain.Session) (string, error)

// Config holds the server addresses used by the Opener
type Config struct {
	IMAPAddr string
	SMTPAddr string
	// RPS limits IMAP and SMTP commands per second; zero disables the limit
	RPS float64
}

// Opener connects IMAP stores authenticated with the session's OAuth token
type Opener struct {
	cfg       Config
	limiter   *rate.Limiter
	resolve   AccountResolver
	tlsConfig *tls.Config
	log       zerolog.Logger
}

func NewOpener(cfg Config, resolve AccountResolver, log zerolog.Logger) *Opener {
	limit := rate.Limit(cfg.RPS)
	if cfg.RPS <= 0 {
		limit = rate.Inf
	}
	burst := int(cfg.RPS)
	if burst < 1 {
		burst = 1
	}
	return &Opener{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		resolve: resolve,
		log:     log.With().Str("component", "imap").Logger(),
	}
}

// oauthBearer builds the SASL client for addr
func oauthBearer(account, token, addr string) (sasl.Client, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
		Username: account,
		Token:    token,
		Host:     host,
		Port:     port,
	}), nil
}

func (o *Opener) tlsFor(addr string) *tls.Config {
	if o.tlsConfig != nil {
		return o.tlsConfig.Clone()
	}
	host, _, _ := net.SplitHostPort(addr)
	return &tls.Config{ServerName: host}
}

func (o *Opener) Open(ctx context.Context, sess *authdomain.Session) (*Store, error) {
	if sess == nil || sess.TokenSource == nil {
		return nil, errors.New("session is not authenticated")
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("imap rate limit: %w", err)
	}

	account, err := o.resolve(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve account: %w", err)
	}

	token, err := sess.TokenSource.Token()
	if err != nil {
		return nil, authdomain.NewAuthError(fmt.Sprintf("token refresh failed: %v", err), err)
	}

	auth, err := oauthBearer(account, token.AccessToken, o.cfg.IMAPAddr)
	if err != nil {
		return nil, err
	}

	c, err := client.DialWithDialerTLS(&net.Dialer{Timeout: dialTimeout}, o.cfg.IMAPAddr, o.tlsFor(o.cfg.IMAPAddr))
	if err != nil {
		return nil, fmt.Errorf("imap dial failed: %w", err)
	}
	c.Timeout = commandTimeout

	if err := c.Authenticate(auth); err != nil {
		_ = c.Logout()
		return nil, authdomain.NewAuthError(fmt.Sprintf("imap authentication failed: %v", err), err)
	}
	o.log.Debug().Str("account", account).Msg("imap session opened")

	return &Store{
		c:       c,
		opener:  o,
		sess:    sess,
		account: account,
		log:     o.log.With().Str("account", account).Logger(),
	}, nil
}

// Store reads mail over IMAP and sends it over SMTP. The IMAP connection
// runs one command at a time.
type Store struct {
	opener  *Opener
	sess    *authdomain.Session
	account string
	log     zerolog.Logger

	mu       sync.Mutex
	c        *client.Client
	selected string
}

func (s *Store) wait(ctx context.Context) error {
	if err := s.opener.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("imap rate limit: %w", err)
	}
	return nil
}

// selectFolder must be called with mu held
func (s *Store) selectFolder(folder string) error {
	if folder == "" {
		folder = emaildomain.FolderInbox
	}
	if s.selected == folder {
		return nil
	}
	if _, err := s.c.Select(folder, true); err != nil {
		return fmt.Errorf("unable to select %s: %w", folder, err)
	}
	s.selected = folder
	return nil
}

// searchCriteria asks the server for everything since the day of q.After.
// SINCE has day granularity, so results are filtered again on INTERNALDATE.
func searchCriteria(q emaildomain.Query) *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()
	if !q.After.IsZero() {
		y, m, d := q.After.UTC().Date()
		criteria.Since = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return criteria
}

type dated struct {
	uid      uint32
	received time.Time
}

// newest keeps the entries received at or after the cutoff, newest first, at most max
func newest(entries []dated, after time.Time, max int) []dated {
	kept := make([]dated, 0, len(entries))
	for _, e := range entries {
		if !after.IsZero() && e.received.Before(after) {
			continue
		}
		kept = append(kept, e)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].received.Equal(kept[j].received) {
			return kept[i].uid > kept[j].uid
		}
		return kept[i].received.After(kept[j].received)
	})
	if max > 0 && len(kept) > max {
		kept = kept[:max]
	}
	return kept
}

func (s *Store) ListMessages(ctx context.Context, q emaildomain.Query, max int) ([]emaildomain.MessageRef, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectFolder(q.Folder); err != nil {
		return nil, err
	}
	uids, err := s.c.UidSearch(searchCriteria(q))
	if err != nil {
		return nil, fmt.Errorf("unable to search messages: %w", err)
	}
	if len(uids) == 0 {
		return []emaildomain.MessageRef{}, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)
	items := []imap.FetchItem{imap.FetchUid, imap.FetchInternalDate}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.c.UidFetch(seqSet, items, messages)
	}()

	entries := make([]dated, 0, len(uids))
	for msg := range messages {
		entries = append(entries, dated{uid: msg.Uid, received: msg.InternalDate})
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("unable to fetch message dates: %w", err)
	}

	kept := newest(entries, q.After, max)
	refs := make([]emaildomain.MessageRef, 0, len(kept))
	for _, e := range kept {
		refs = append(refs, emaildomain.MessageRef{ID: strconv.FormatUint(uint64(e.uid), 10)})
	}
	return refs, nil
}

func (s *Store) GetMessage(ctx context.Context, id string, opts emaildomain.GetOptions) (*emaildomain.RawMessage, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil || uid == 0 {
		return nil, fmt.Errorf("%w: %s", emaildomain.ErrMessageNotFound, id)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectFolder(s.selected); err != nil {
		return nil, err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(uid))
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.c.UidFetch(seqSet, items, messages)
	}()

	var raw *emaildomain.RawMessage
	var parseErr error
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil || raw != nil {
			continue
		}
		raw, parseErr = ParseMessage(id, body, opts)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %w", err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("unable to parse message %s: %w", id, parseErr)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", emaildomain.ErrMessageNotFound, id)
	}
	return raw, nil
}

func (s *Store) Account(ctx context.Context) (string, error) {
	return s.account, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return nil
	}
	err := s.c.Logout()
	s.c = nil
	if err != nil && !errors.Is(err, client.ErrAlreadyLoggedOut) {
		return fmt.Errorf("imap logout: %w", err)
	}
	return nil
}
