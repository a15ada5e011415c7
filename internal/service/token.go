package service

import (
	"errors"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Token issues and verifies signed, time-bound identity tokens. It is
// independent of storage and safe to share across requests.
type Token struct {
	manager model.TokenManager
	logger  *logger.Logger
}

// NewToken creates the token service around a manager.
func NewToken(manager model.TokenManager, logger *logger.Logger) *Token {
	return &Token{manager: manager, logger: logger}
}

// Issue signs a token embedding the subject id, expiring one day from
// issuance.
func (s *Token) Issue(subjectID string) model.Result[string] {
	tokenString, err := s.manager.Generate(subjectID)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		return model.Fail[string](model.NewError("No se pudo emitir el token", 0))
	}
	return model.Ok(tokenString)
}

// Verify decodes and checks a bearer token. It never panics; callers
// branch on the returned error. The three failure causes stay
// distinguishable by message while all collapse to the same
// unauthenticated outcome upstream.
func (s *Token) Verify(tokenString string) (*model.TokenPayload, *model.Error) {
	if tokenString == "" {
		return nil, model.NewUnauthorized("token not found, authorization denied")
	}

	payload, err := s.manager.Parse(tokenString)
	switch {
	case err == nil:
		return payload, nil
	case errors.Is(err, model.ErrTokenInvalid):
		return nil, model.NewUnauthorized("invalid token")
	default:
		return nil, model.NewUnauthorized("token expired")
	}
}
