package imapstore

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/emersion/go-smtp"
)

// Outgoing is a message ready for SMTP submission
type Outgoing struct {
	MessageID  string
	Recipients []string
	// Data is the message with the Bcc header removed
	Data []byte
}

// PrepareOutgoing collects the envelope recipients from To, Cc and Bcc and
// strips Bcc from the transmitted header. The body is copied unchanged.
func PrepareOutgoing(raw []byte) (*Outgoing, error) {
	br := bufio.NewReader(bytes.NewReader(raw))
	h, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("read message header: %w", err)
	}

	mh := mail.Header{Header: message.Header{Header: h}}
	seen := map[string]bool{}
	var recipients []string
	for _, key := range []string{"To", "Cc", "Bcc"} {
		list, err := mh.AddressList(key)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		for _, addr := range list {
			lower := strings.ToLower(addr.Address)
			if lower == "" || seen[lower] {
				continue
			}
			seen[lower] = true
			recipients = append(recipients, addr.Address)
		}
	}
	if len(recipients) == 0 {
		return nil, errors.New("message has no recipients")
	}

	messageID, err := mh.MessageID()
	if err != nil {
		messageID = ""
	}

	mh.Del("Bcc")
	var buf bytes.Buffer
	if err := textproto.WriteHeader(&buf, mh.Header.Header); err != nil {
		return nil, fmt.Errorf("write message header: %w", err)
	}
	if _, err := io.Copy(&buf, br); err != nil {
		return nil, fmt.Errorf("copy message body: %w", err)
	}

	return &Outgoing{MessageID: messageID, Recipients: recipients, Data: buf.Bytes()}, nil
}

func (o *Opener) dialSMTP(ctx context.Context, account string, sess *authdomain.Session) (*smtp.Client, error) {
	token, err := sess.TokenSource.Token()
	if err != nil {
		return nil, authdomain.NewAuthError(fmt.Sprintf("token refresh failed: %v", err), err)
	}
	auth, err := oauthBearer(account, token.AccessToken, o.cfg.SMTPAddr)
	if err != nil {
		return nil, err
	}

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: dialTimeout}, Config: o.tlsFor(o.cfg.SMTPAddr)}
	conn, err := dialer.DialContext(ctx, "tcp", o.cfg.SMTPAddr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial failed: %w", err)
	}

	c := smtp.NewClient(conn)
	if err := c.Auth(auth); err != nil {
		c.Close()
		return nil, authdomain.NewAuthError(fmt.Sprintf("smtp authentication failed: %v", err), err)
	}
	return c, nil
}

// SendMessage submits raw over SMTP and returns its Message-ID
func (s *Store) SendMessage(ctx context.Context, raw []byte) (string, error) {
	out, err := PrepareOutgoing(raw)
	if err != nil {
		return "", err
	}
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	c, err := s.opener.dialSMTP(ctx, s.account, s.sess)
	if err != nil {
		return "", err
	}
	defer c.Close()

	if err := c.Mail(s.account, nil); err != nil {
		return "", fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	for _, rcpt := range out.Recipients {
		if err := c.Rcpt(rcpt, nil); err != nil {
			return "", fmt.Errorf("smtp RCPT TO %q failed: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return "", fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(out.Data); err != nil {
		return "", fmt.Errorf("smtp write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("smtp finalize failed: %w", err)
	}
	if err := c.Quit(); err != nil {
		s.log.Warn().Err(err).Msg("smtp quit failed")
	}

	s.log.Debug().Str("message_id", out.MessageID).Int("recipients", len(out.Recipients)).Msg("message sent")
	return out.MessageID, nil
}
