package middleware

import "context"

type contextKey string

// Context keys set by the auth middleware.
const (
	ContextKeySubject contextKey = "subject"
	ContextKeyRole    contextKey = "role"
)

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeySubject).(string)
	return v, ok
}

// RoleFromContext returns the authenticated role, if any.
func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyRole).(string)
	return v, ok
}
