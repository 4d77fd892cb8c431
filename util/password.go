package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing these invalidates stored hashes, so they are
// also encoded into each hash string.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltBytes    = 16
)

var (
	jwtSecret     = getEnv("JWTSECRET", "")
	jwtSecretByte = []byte(jwtSecret)
	jwtMutex      sync.RWMutex
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// SetJWTSecret allows tests or runtime code to update the JWT secret used for
// token signing. This function is thread-safe and can be called concurrently.
// Tests using this should avoid parallel execution if they need deterministic
// secret values.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecret = secret
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}

// GenerateSalt returns a new random hex-encoded salt.
func GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashPasswordArgon2 hashes a plain password with Argon2id and the supplied
// hex salt, producing a self-describing "argon2id$..." string.
func HashPasswordArgon2(password, salt string) (string, error) {
	saltByte, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid password salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), saltByte, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("argon2id$%d$%d$%d$%s", argonTime, argonMemory, argonThreads, hex.EncodeToString(key)), nil
}

// VerifyPassword re-derives the Argon2id key for the supplied plain password
// and compares it against the stored hash in constant time.
func VerifyPassword(password, storedHash, salt string) (bool, error) {
	if !strings.HasPrefix(storedHash, "argon2id$") {
		return false, fmt.Errorf("unsupported password hash format")
	}
	computed, err := HashPasswordArgon2(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1, nil
}
