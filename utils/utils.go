package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// ToSlug converts free text to a URL-safe slug: lower-case, strip everything
// outside [a-z0-9 -], whitespace runs become single hyphens, hyphen runs
// collapse, no leading/trailing hyphens. Uniqueness is the caller's problem.
func ToSlug(text string) string {
	s := strings.ToLower(text)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Sha256String hashes and encodes in hex the result
func Sha256String(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// NewFileStem returns an opaque random filename base with no extension.
// Never derived from user input, so it is safe to place in a path.
func NewFileStem() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
