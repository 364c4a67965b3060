package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// APIKeyPrefix marks secrets issued by this service.
	APIKeyPrefix = "pali_"

	// APIKeyEntropyBytes is the number of random bytes in a secret (256 bits).
	APIKeyEntropyBytes = 32

	// APIKeyLength is the full length of a generated secret.
	APIKeyLength = len(APIKeyPrefix) + 2*APIKeyEntropyBytes

	// APIKeyHashIterations is the PBKDF2 work factor.
	APIKeyHashIterations = 100_000

	// APIKeyHashBytes is the digest length before hex encoding.
	APIKeyHashBytes = 32
)

// GenerateAPIKey returns a new secret of the form "pali_<64 hex chars>".
func GenerateAPIKey() (string, error) {
	buf := make([]byte, APIKeyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}

// MustGenerateAPIKey is like GenerateAPIKey but panics when the system
// random source fails. There is no safe fallback for key material.
func MustGenerateAPIKey() string {
	key, err := GenerateAPIKey()
	if err != nil {
		panic(fmt.Sprintf("cryptox: %v", err))
	}
	return key
}

// LooksLikeAPIKey reports whether s has the shape of a generated secret.
// It is a cheap pre-check; it says nothing about whether the key exists.
func LooksLikeAPIKey(s string) bool {
	if len(s) != APIKeyLength || !strings.HasPrefix(s, APIKeyPrefix) {
		return false
	}
	for _, c := range s[len(APIKeyPrefix):] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// HashAPIKey derives the stored digest of a secret: PBKDF2-HMAC-SHA256 keyed
// by the system pepper, hex encoded. The result is deterministic so that it
// can be used as a lookup key.
func HashAPIKey(secret string) string {
	return hashAPIKeyWithPepper(secret, GetPepper())
}

func hashAPIKeyWithPepper(secret, pepper string) string {
	dk := pbkdf2.Key([]byte(secret), []byte(pepper), APIKeyHashIterations, APIKeyHashBytes, sha256.New)
	return hex.EncodeToString(dk)
}

// EqualAPIKeyHash compares two digests in constant time.
func EqualAPIKeyHash(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
