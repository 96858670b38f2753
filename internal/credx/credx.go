// Package credx implements password credential material: per-account random
// salts and one-way argon2id digests, with constant-time verification.
// Plaintext passwords never leave this package's call frames.
package credx

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/olegkurtov/accesshub/internal/common"
)

const (
	saltSize = 16

	// argon2id parameters
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	digestSize   = 32
)

// Hash generates a fresh random salt and computes the argon2id digest binding
// the password to it. The same (password, salt) pair always yields the same
// digest; the digest does not reveal the password.
func Hash(password string) (salt, digest []byte) {
	salt = common.GenerateRandByteArray(saltSize)
	digest = deriveDigest([]byte(password), salt)
	return salt, digest
}

// Verify recomputes the digest for (password, salt) and compares it to the
// stored digest in constant time.
func Verify(password string, salt, digest []byte) bool {
	candidate := deriveDigest([]byte(password), salt)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func deriveDigest(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, digestSize)
}
