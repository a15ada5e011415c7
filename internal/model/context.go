package model

import "context"

// ContextManager carries the authenticated subject id through request
// contexts.
type ContextManager interface {
	SetSubjectID(ctx context.Context, subjectID string) context.Context
	SubjectID(ctx context.Context) (string, bool)
}
