package middleware

import (
	"net/http"
	"strings"

	"github.com/equiptrack/equiptrack-server/internal/api/http/handler"
	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
)

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*model.TokenPayload, *model.Error)
}

// Authenticate validates bearer tokens and injects the subject id into
// the request context.
type Authenticate struct {
	tokens TokenVerifier
	ctxMgr model.ContextManager
	logger *logger.Logger
}

// NewAuthenticate creates the authentication middleware.
func NewAuthenticate(tokens TokenVerifier, ctxMgr model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, ctxMgr: ctxMgr, logger: logger}
}

// Handle parses the Authorization header and gates access on a valid
// token. The three verification failures stay distinguishable in the
// response body while all map to 401.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		payload, verifyErr := m.tokens.Verify(tokenString)
		if verifyErr != nil {
			m.logger.Debug("authentication rejected", "path", r.URL.Path, "reason", verifyErr.Message)
			handler.WriteError(w, verifyErr)
			return
		}

		ctx := m.ctxMgr.SetSubjectID(r.Context(), payload.SubjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
