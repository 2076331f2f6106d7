package events

import (
	"crypto/rand"
	"io"
	"strings"
)

// shortCodeAlphabet leaves out O, 0, I and 1 so codes survive being read
// aloud. It has 32 symbols, so byte%32 is unbiased.
const shortCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	shortCodeGroups    = 3
	shortCodeGroupSize = 3
	shortCodeAttempts  = 10
)

// NewShortCode returns a random code in the form XXX-XXX-XXX read from r.
// A nil r uses crypto/rand.
func NewShortCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, shortCodeGroups*shortCodeGroupSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	var b strings.Builder
	for i, c := range buf {
		if i > 0 && i%shortCodeGroupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(shortCodeAlphabet[int(c)%len(shortCodeAlphabet)])
	}
	return b.String(), nil
}

// IsShortCode reports whether s is a well-formed short code. Lowercase input
// is accepted.
func IsShortCode(s string) bool {
	s = strings.ToUpper(s)
	if len(s) != shortCodeGroups*shortCodeGroupSize+shortCodeGroups-1 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (i+1)%(shortCodeGroupSize+1) == 0 {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if !strings.ContainsRune(shortCodeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
