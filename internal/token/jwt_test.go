package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret")

	tokenString, err := j.Generate("u1")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	payload, err := j.Parse(tokenString)
	require.NoError(t, err)
	require.Equal(t, "u1", payload.SubjectID)
	require.WithinDuration(t, payload.IssuedAt.Add(TokenTTL), payload.ExpiresAt, time.Second)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret")
	j.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	tokenString, err := j.Generate("u1")
	require.NoError(t, err)

	_, err = j.Parse(tokenString)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_WrongKey(t *testing.T) {
	signer := NewJWT("secret")
	verifier := NewJWT("other")

	tokenString, err := signer.Generate("u1")
	require.NoError(t, err)

	_, err = verifier.Parse(tokenString)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_MissingSubject(t *testing.T) {
	j := NewJWT("secret")

	tokenString, err := j.Generate("")
	require.NoError(t, err)

	_, err = j.Parse(tokenString)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_Garbage(t *testing.T) {
	j := NewJWT("secret")

	_, err := j.Parse("not-a-token")
	require.ErrorIs(t, err, model.ErrTokenExpired)
}
