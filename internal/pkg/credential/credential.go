package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Length is the number of hex characters in an event credential.
const Length = 16

var pattern = regexp.MustCompile(`^[0-9A-F]{16}$`)

// New generates an opaque event credential: 8 random bytes rendered as 16
// uppercase hex characters. Collisions across a single event's population
// are treated as negligible and not re-checked.
func New() (string, error) {
	buf := make([]byte, Length/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate credential: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Normalize uppercases a scanned credential so lookups are case-insensitive.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Valid reports whether s looks like an event credential.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
