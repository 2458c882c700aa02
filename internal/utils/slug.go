package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

// Slugify lowercases the name and collapses anything that is not a letter or
// digit into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// SlugWithSuffix appends a short random suffix, used when the plain slug is
// already taken.
func SlugWithSuffix(name string) (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return Slugify(name) + "-" + hex.EncodeToString(bytes), nil
}
