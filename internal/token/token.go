// Package token generates the opaque identifiers and bearer codes used
// throughout the application.  A token is drawn from crypto/rand and
// encoded with the URL-safe base64 alphabet, so it can be embedded in
// paths and query strings without escaping.  Tokens act as bearer
// credentials: a management or attendance code, once known, grants full
// rights with no secondary check, so code lengths are chosen to resist
// brute-force guessing.  No collision checking is performed; at the
// intended scale the entropy makes collisions practically impossible.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	// IDLength is used for session and attendee identifiers.
	IDLength = 12
	// CodeLength is used for management, attendance and private-url
	// codes.  16 characters over a 64-symbol alphabet is ~96 bits.
	CodeLength = 16
)

// New returns a random URL-safe string of exactly n characters.  It
// panics only when the OS entropy source is unavailable, in which case
// the process cannot safely hand out credentials anyway.
func New(n int) string {
	if n <= 0 {
		return ""
	}
	// base64 yields 4 characters per 3 bytes; round up and trim.
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		panic("token: entropy source failed: " + err.Error())
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:n]
}

// NewID returns an identifier-length token.
func NewID() string { return New(IDLength) }

// NewCode returns a code-length token.
func NewCode() string { return New(CodeLength) }
