// Package hash derives and verifies salted password credentials with
// PBKDF2-SHA256. The plaintext password never leaves this package.
package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 10000
	keyLength  = 64
	saltLength = 128
)

// ErrMalformedCredential means the stored salt/hash pair is structurally
// broken. That is a data bug, not a wrong password.
var ErrMalformedCredential = errors.New("stored credential is malformed")

// CreateCredential returns a hex-encoded derived key and the base64 salt it
// was derived with. Two calls on the same password produce different pairs.
func CreateCredential(password string) (hashHex, salt string, err error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = base64.StdEncoding.EncodeToString(raw)
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key), salt, nil
}

// Verify recomputes the derived key for the attempt and compares it against
// the stored hash in constant time.
func Verify(password, salt, hashHex string) (bool, error) {
	if salt == "" || hashHex == "" {
		return false, ErrMalformedCredential
	}
	stored, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, ErrMalformedCredential
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(key, stored) == 1, nil
}
