// Package keygen generates the opaque credentials handed out by the
// licensing service: application API keys and license key strings.
package keygen

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// KeyCharset is the alphabet for the random portion of a license key.
// Uppercase alphanumerics only so keys survive case-insensitive channels.
const KeyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// KeyRandomLength is the number of random characters appended to a prefix.
const KeyRandomLength = 6

// NewAPIKey returns a fresh application API key: a v4 UUID with the dashes
// stripped (32 hex chars). The value is opaque to callers and never changes
// for the lifetime of an application.
func NewAPIKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewLicenseKey returns a license key string of the form
// "{prefix}-{6 random uppercase alphanumerics}", e.g. "TRIAL-7KQ2ZD".
// Uniqueness is not guaranteed here; the store's uniqueness constraint is
// the backstop and a collision surfaces as a creation failure.
func NewLicenseKey(prefix string) (string, error) {
	buf := make([]byte, KeyRandomLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("keygen: read random: %w", err)
	}

	var b strings.Builder
	b.Grow(len(prefix) + 1 + KeyRandomLength)
	b.WriteString(prefix)
	b.WriteByte('-')
	for _, c := range buf {
		b.WriteByte(KeyCharset[int(c)%len(KeyCharset)])
	}
	return b.String(), nil
}
