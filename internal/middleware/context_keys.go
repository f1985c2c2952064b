package middleware

// contextKey is a private type for context keys defined in this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	// loggerCtxKey stores the request-scoped logger in the request context.
	loggerCtxKey = contextKey("logger")

	// subjectCtxKey stores the authenticated token subject in the request context.
	subjectCtxKey = contextKey("subject")
)
