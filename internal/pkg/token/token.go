package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Prefix marks every phone token.
	Prefix = "UT"
	// Length is the full token length: Prefix + 64 hex chars.
	Length = len(Prefix) + sha256.Size*2
)

// Derive returns the token for an E.164 phone number: Prefix followed by the
// lowercase hex HMAC-SHA256 of canonicalPhone keyed with secret.
func Derive(secret []byte, canonicalPhone string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonicalPhone))
	return Prefix + hex.EncodeToString(mac.Sum(nil))
}

// Valid reports whether s has the token wire format.
func Valid(s string) bool {
	if len(s) != Length || !strings.HasPrefix(s, Prefix) {
		return false
	}
	for _, r := range s[len(Prefix):] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
