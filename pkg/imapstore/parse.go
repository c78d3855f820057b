package imapstore

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

const snippetLength = 200

// ParseMessage converts an RFC 5322 message into the store's MIME tree.
// Leaf bodies are transfer-decoded, converted to UTF-8 and carried in
// base64url. With MetadataOnly set the payload is dropped and the headers are
// filtered to opts.Headers.
func ParseMessage(id string, r io.Reader, opts emaildomain.GetOptions) (*emaildomain.RawMessage, error) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return nil, err
	}

	payload, err := convertEntity(entity)
	if err != nil {
		return nil, err
	}

	raw := &emaildomain.RawMessage{
		ID:      id,
		Headers: headersOf(entity.Header, opts),
		Snippet: Snippet(payload),
	}
	if !opts.MetadataOnly {
		raw.Payload = payload
	}
	return raw, nil
}

func headersOf(h message.Header, opts emaildomain.GetOptions) []emaildomain.Header {
	want := map[string]bool{}
	if opts.MetadataOnly {
		for _, name := range opts.Headers {
			want[strings.ToLower(name)] = true
		}
	}

	var headers []emaildomain.Header
	fields := h.Fields()
	for fields.Next() {
		key := fields.Key()
		if len(want) > 0 && !want[strings.ToLower(key)] {
			continue
		}
		value, err := fields.Text()
		if err != nil {
			value = fields.Value()
		}
		headers = append(headers, emaildomain.Header{Name: key, Value: value})
	}
	return headers
}

func convertEntity(e *message.Entity) (*emaildomain.Part, error) {
	mimeType, _, err := e.Header.ContentType()
	if err != nil || mimeType == "" {
		mimeType = "text/plain"
	}
	part := &emaildomain.Part{MimeType: mimeType}

	if mr := e.MultipartReader(); mr != nil {
		for {
			child, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
				return nil, fmt.Errorf("read %s part: %w", mimeType, err)
			}
			if child == nil {
				break
			}
			converted, err := convertEntity(child)
			if err != nil {
				return nil, err
			}
			part.Parts = append(part.Parts, converted)
		}
		return part, nil
	}

	data, err := io.ReadAll(e.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", mimeType, err)
	}
	if len(data) > 0 {
		part.Data = base64.URLEncoding.EncodeToString(data)
	}
	return part, nil
}

// Snippet builds a short plain-text preview from the first text leaf,
// preferring text/plain over text/html.
func Snippet(root *emaildomain.Part) string {
	if root == nil {
		return ""
	}
	if text, ok := leafText(root, "text/plain"); ok {
		return clip(text)
	}
	if html, ok := leafText(root, "text/html"); ok {
		md, err := htmltomarkdown.ConvertString(html)
		if err != nil {
			return ""
		}
		return clip(md)
	}
	return ""
}

func leafText(p *emaildomain.Part, mimeType string) (string, bool) {
	if len(p.Parts) == 0 {
		if !strings.EqualFold(p.MimeType, mimeType) || p.Data == "" {
			return "", false
		}
		data, err := base64.URLEncoding.DecodeString(p.Data)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
	for _, child := range p.Parts {
		if text, ok := leafText(child, mimeType); ok {
			return text, true
		}
	}
	return "", false
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= snippetLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:snippetLength])) + "..."
}
