package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/crucial-sub/sub-board/internal/domain/service"
	"github.com/crucial-sub/sub-board/internal/errors"
)

// argon2id parameters. Refresh tokens are high-entropy JWTs so the cost can
// stay modest; the random salt is what prevents hash-equality lookups.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// argon2Hasher hashes refresh tokens with argon2id. bcrypt is unsuitable
// here because it truncates input at 72 bytes, shorter than a JWT.
type argon2Hasher struct{}

// NewArgon2Hasher is the constructor for argon2Hasher.
func NewArgon2Hasher() service.TokenHasher {
	return &argon2Hasher{}
}

// Hash derives an argon2id digest with a fresh random salt and encodes it in
// PHC string format. Hashing the same token twice yields different strings.
func (h *argon2Hasher) Hash(token string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generate salt failed")
	}

	digest := argon2.IDKey([]byte(token), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// Matches re-derives the digest using the salt and parameters embedded in the
// stored PHC string and compares in constant time.
func (h *argon2Hasher) Matches(token, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(token), salt, iterations, memory, threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(digest, computed) == 1
}
