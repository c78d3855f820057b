package usecase

import (
	"encoding/base64"
	"strings"

	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
)

const (
	noContentPlaceholder = "No email content available"
	bodyErrorPlaceholder = "Error loading email content"
)

// ExtractBody returns the first text/html leaf of the payload tree, else the
// first text/plain leaf, else the data of a non-multipart payload.
// It never fails: missing or undecodable content yields a placeholder.
func ExtractBody(payload *emaildomain.Part) string {
	if payload == nil {
		return noContentPlaceholder
	}

	leaf := firstLeaf(payload, "text/html")
	if leaf == nil {
		leaf = firstLeaf(payload, "text/plain")
	}
	if leaf == nil && len(payload.Parts) == 0 && payload.Data != "" {
		leaf = payload
	}
	if leaf == nil {
		return noContentPlaceholder
	}

	body, err := decodeBodyData(leaf.Data)
	if err != nil {
		return bodyErrorPlaceholder
	}
	if body == "" {
		return noContentPlaceholder
	}
	return body
}

// firstLeaf walks the tree depth-first and returns the first leaf of mimeType
// that carries data
func firstLeaf(p *emaildomain.Part, mimeType string) *emaildomain.Part {
	if len(p.Parts) == 0 {
		if p.Data != "" && strings.EqualFold(p.MimeType, mimeType) {
			return p
		}
		return nil
	}
	for _, child := range p.Parts {
		if child == nil {
			continue
		}
		if leaf := firstLeaf(child, mimeType); leaf != nil {
			return leaf
		}
	}
	return nil
}

// decodeBodyData decodes base64url with or without padding, retrying with the
// standard alphabet
func decodeBodyData(data string) (string, error) {
	trimmed := strings.TrimRight(data, "=")
	raw, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		var stdErr error
		if raw, stdErr = base64.RawStdEncoding.DecodeString(trimmed); stdErr != nil {
			return "", err
		}
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}
