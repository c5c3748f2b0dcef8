package token

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var secret = []byte("unittestsecret")

func TestDerive_Format(t *testing.T) {
	tok := Derive(secret, "+12125551212")
	assert.True(t, strings.HasPrefix(tok, "UT"))
	assert.Len(t, tok, 66)
	assert.True(t, Valid(tok))
	assert.Equal(t, strings.ToLower(tok[2:]), tok[2:])
}

func TestDerive_Deterministic(t *testing.T) {
	assert.Equal(t, Derive(secret, "+12125551212"), Derive(secret, "+12125551212"))
}

func TestDerive_KnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	got := Derive([]byte("Jefe"), "what do ya want for nothing?")
	assert.Equal(t, "UT5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}

func TestDerive_SecretMatters(t *testing.T) {
	assert.NotEqual(t, Derive(secret, "+12125551212"), Derive([]byte("other"), "+12125551212"))
}

func TestDerive_NoCollisions(t *testing.T) {
	seen := make(map[string]string, 5000)
	for i := 0; i < 5000; i++ {
		p := fmt.Sprintf("+1212555%04d", i)
		tok := Derive(secret, p)
		prev, dup := seen[tok]
		assert.False(t, dup, "%s collides with %s", p, prev)
		seen[tok] = p
	}
}

func TestValid(t *testing.T) {
	good := Derive(secret, "+12125551212")
	assert.True(t, Valid(good))
	assert.False(t, Valid(""))
	assert.False(t, Valid("XX"+good[2:]))
	assert.False(t, Valid(good[:65]))
	assert.False(t, Valid("UT"+strings.ToUpper(good[2:])))
	assert.False(t, Valid("UT"+strings.Repeat("g", 64)))
}
