package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Claims carries the subject id alongside the registered JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID string `json:"uid"`
}

// TokenTTL is the fixed lifetime of issued tokens.
const TokenTTL = 24 * time.Hour

// JWT implements TokenManager backed by symmetric HMAC. The signing
// key is process-wide configuration, read-only after construction.
type JWT struct {
	secretKey string
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey, now: time.Now}
}

// Generate signs a token asserting the subject's identity for TokenTTL.
func (j *JWT) Generate(subjectID string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		SubjectID: subjectID,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse validates signature and expiry and extracts the payload.
// Signature or expiry failures map to ErrTokenExpired; a valid token
// without a subject claim maps to ErrTokenInvalid.
func (j *JWT) Parse(tokenString string) (*model.TokenPayload, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrTokenExpired
	}
	if claims.SubjectID == "" {
		return nil, model.ErrTokenInvalid
	}

	payload := &model.TokenPayload{SubjectID: claims.SubjectID}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}

	return payload, nil
}
