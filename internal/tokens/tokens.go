// Package tokens signs and verifies the HMAC-SHA256 identity tokens that
// ride the Authorization header.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is how long a signed token stays valid. Every authenticated request
// renews the token, so this is a sliding window.
const TTL = time.Hour

var (
	ErrEmptySecret     = errors.New("signing secret is empty")
	ErrInvalidIdentity = errors.New("cannot sign an invalid identity")
)

// Payload is the verified content of a token. IsValid == false covers
// expired, tampered and malformed tokens alike so the auth gate has a
// single branch to handle.
type Payload struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsValid bool   `json:"isValid"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec holds the process-wide signing secret. The secret is read-only
// after construction, so a single Codec is safe for concurrent use.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Codec{secret: secret}, nil
}

// Sign issues a token for the given identity. Signing an invalid or empty
// identity is a caller bug and is rejected.
func (c *Codec) Sign(p Payload) (string, error) {
	if !p.IsValid || p.UserID == "" {
		return "", ErrInvalidIdentity
	}

	now := time.Now()
	cl := claims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
}

// Verify parses and checks a raw token. It never fails: any expired,
// tampered or malformed token comes back as a zero Payload.
func (c *Codec) Verify(raw string) Payload {
	var cl claims
	tkn, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return Payload{}
	}

	// A token whose lifetime is zero or negative was tampered with or
	// issued under clock skew. Reject it even if exp is in the future.
	if cl.IssuedAt == nil || cl.ExpiresAt == nil || !cl.ExpiresAt.After(cl.IssuedAt.Time) {
		return Payload{}
	}

	return Payload{UserID: cl.Subject, Email: cl.Email, IsValid: true}
}
