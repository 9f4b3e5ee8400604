// Package auth implements the credential primitives of the marketplace:
// random salts, opaque bearer tokens and the password digest.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SecretLength is the character length of salts and bearer tokens.
	SecretLength = 16

	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	hashIterations = 10000
	hashKeyLength  = 32
)

// GenerateSecret produces a cryptographically random alphanumeric string of
// the given character length.
func GenerateSecret(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", length)
	}
	max := big.NewInt(int64(len(secretAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = secretAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// GenerateSalt produces a fresh per-account password salt.
func GenerateSalt() (string, error) {
	return GenerateSecret(SecretLength)
}

// GenerateToken produces a fresh opaque bearer token.
func GenerateToken() (string, error) {
	return GenerateSecret(SecretLength)
}

// HashPassword derives the stored password digest from a password and its
// salt. The derivation is deterministic: equality of
// HashPassword(candidate, storedSalt) with the stored digest is the sole
// authentication check.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, hashKeyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}
