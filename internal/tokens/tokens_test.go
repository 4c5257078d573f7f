package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestCodec(t *testing.T) *Codec {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)
	return codec
}

func TestNewCodecEmptySecret(t *testing.T) {
	_, err := NewCodec(nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Sign(Payload{UserID: "some-id", Email: "user@example.com", IsValid: true})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload := codec.Verify(token)
	require.True(t, payload.IsValid)
	require.Equal(t, "some-id", payload.UserID)
	require.Equal(t, "user@example.com", payload.Email)
}

func TestSignRejectsInvalidIdentity(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Sign(Payload{UserID: "some-id", Email: "user@example.com", IsValid: false})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = codec.Sign(Payload{UserID: "", Email: "user@example.com", IsValid: true})
	require.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestSignedTokensDiffer(t *testing.T) {
	codec := newTestCodec(t)
	p := Payload{UserID: "some-id", Email: "user@example.com", IsValid: true}

	token1, err := codec.Sign(p)
	require.NoError(t, err)
	token2, err := codec.Sign(p)
	require.NoError(t, err)
	require.NotEqual(t, token1, token2)
}

func TestVerifyTamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Sign(Payload{UserID: "some-id", Email: "user@example.com", IsValid: true})
	require.NoError(t, err)

	payload := codec.Verify(token + "x")
	require.False(t, payload.IsValid)
	require.Empty(t, payload.UserID)
	require.Empty(t, payload.Email)
}

func TestVerifyGarbage(t *testing.T) {
	codec := newTestCodec(t)
	require.False(t, codec.Verify("not a token").IsValid)
	require.False(t, codec.Verify("").IsValid)
}

func TestVerifyWrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec([]byte("other-secret"))
	require.NoError(t, err)

	token, err := other.Sign(Payload{UserID: "some-id", Email: "user@example.com", IsValid: true})
	require.NoError(t, err)
	require.False(t, codec.Verify(token).IsValid)
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	expired := signRaw(t, jwt.RegisteredClaims{
		Subject:   "some-id",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	require.False(t, codec.Verify(expired).IsValid)
}

func TestVerifyZeroLifetimeToken(t *testing.T) {
	codec := newTestCodec(t)

	// iat == exp with exp still in the future: the signature checks out but
	// the lifetime is zero, which only tampering or skew can produce.
	at := time.Now().Add(30 * time.Minute)
	token := signRaw(t, jwt.RegisteredClaims{
		Subject:   "some-id",
		IssuedAt:  jwt.NewNumericDate(at),
		ExpiresAt: jwt.NewNumericDate(at),
	})
	require.False(t, codec.Verify(token).IsValid)
}

func signRaw(t *testing.T, rc jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:            "user@example.com",
		RegisteredClaims: rc,
	}).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}
