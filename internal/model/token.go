package model

import "time"

// TokenManager signs and parses identity tokens.
type TokenManager interface {
	Generate(subjectID string) (string, error)
	Parse(token string) (*TokenPayload, error)
}

// TokenPayload is the decoded content of an identity token. It is
// owned exclusively by the token service and never persisted.
type TokenPayload struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
