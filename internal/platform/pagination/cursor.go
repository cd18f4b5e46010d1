// Package pagination implements opaque cursor paging over in-memory,
// ordered collections.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrInvalidCursor = errors.New("invalid cursor format")
	ErrCursorKind    = errors.New("cursor belongs to another collection")
	ErrUnknownCursor = errors.New("cursor references an unknown element")
)

// Cursor marks a position in a collection: the page starts after the
// element whose key is After. An empty After means the first page.
type Cursor struct {
	Kind  string
	After string
}

// Encode returns a URL-safe opaque Base64 representation.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Kind + ":" + c.After))
}

// DecodeCursor parses a cursor produced by Encode. The empty string decodes
// to the zero Cursor.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	kind, after, ok := strings.Cut(string(b), ":")
	if !ok || kind == "" {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Kind: kind, After: after}, nil
}
