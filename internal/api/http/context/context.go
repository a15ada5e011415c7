package context

import (
	"context"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

type contextKey int

const subjectIDKey contextKey = iota

// Manager implements ContextManager over request contexts.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new context Manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetSubjectID returns a child context carrying the subject id.
func (m *Manager) SetSubjectID(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectIDKey, subjectID)
}

// SubjectID extracts the subject id set by the authentication
// middleware, reporting whether one is present.
func (m *Manager) SubjectID(ctx context.Context) (string, bool) {
	subjectID, ok := ctx.Value(subjectIDKey).(string)
	return subjectID, ok
}
