package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgon2Hasher_HashAndMatch(t *testing.T) {
	hasher := NewArgon2Hasher()

	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.refresh-token-payload.signature"
	encoded, err := hasher.Hash(token)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	assert.True(t, hasher.Matches(token, encoded))
	assert.False(t, hasher.Matches("some-other-token", encoded))
}

func TestArgon2Hasher_SameTokenHashesDiffer(t *testing.T) {
	hasher := NewArgon2Hasher()

	token := "repeated-refresh-token"
	first, err := hasher.Hash(token)
	assert.NoError(t, err)
	second, err := hasher.Hash(token)
	assert.NoError(t, err)

	// Random salt makes the encodings differ while both still verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Matches(token, first))
	assert.True(t, hasher.Matches(token, second))
}

func TestArgon2Hasher_MalformedEncodings(t *testing.T) {
	hasher := NewArgon2Hasher()

	malformed := []string{
		"",
		"not-a-phc-string",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$%%%$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA",
	}

	for _, encoded := range malformed {
		assert.False(t, hasher.Matches("token", encoded), "expected no match for %q", encoded)
	}
}

func TestArgon2Hasher_LongTokens(t *testing.T) {
	hasher := NewArgon2Hasher()

	// JWTs routinely exceed bcrypt's 72-byte input limit; argon2 must not.
	token := strings.Repeat("a", 512)
	encoded, err := hasher.Hash(token)
	assert.NoError(t, err)
	assert.True(t, hasher.Matches(token, encoded))
	assert.False(t, hasher.Matches(strings.Repeat("a", 511), encoded))
}
