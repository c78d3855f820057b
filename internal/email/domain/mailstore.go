package domain

import "time"

// FolderInbox is the only folder the reader lists
const FolderInbox = "INBOX"

// Query selects messages received after a point in time in one folder
type Query struct {
	After  time.Time
	Folder string
}

// GetOptions controls how much of a message the store returns
type GetOptions struct {
	MetadataOnly bool
	// Headers limits the returned headers when MetadataOnly is set
	Headers []string
}

type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Part is a node of the MIME tree. Leaves carry Data in base64url encoding,
// containers carry Parts.
type Part struct {
	MimeType string  `json:"mime_type"`
	Data     string  `json:"data,omitempty"`
	Parts    []*Part `json:"parts,omitempty"`
}

// RawMessage is a message as returned by the mail store
type RawMessage struct {
	ID      string
	Snippet string
	Headers []Header
	Payload *Part
}
