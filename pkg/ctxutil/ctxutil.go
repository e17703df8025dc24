package ctxutil

import (
	"context"
)

type ctxKey string

const (
	principalKey ctxKey = "principal"
	requestIDKey ctxKey = "request_id"
)

// RoleAdmin is the role that may call the hydration endpoints.
const RoleAdmin = "admin"

// Principal is the caller authenticated by the admin middleware.
type Principal struct {
	Subject string
	Role    string
	// Method is "basic" or "bearer".
	Method string
}

// WithPrincipal stores the authenticated caller in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx extracts the authenticated caller from the context.
// Returns false if the value is missing, has no subject, or has the wrong type.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.Subject == "" {
		return Principal{}, false
	}
	return p, true
}

// IsAdminCtx reports whether the context carries an admin principal.
func IsAdminCtx(ctx context.Context) bool {
	p, ok := PrincipalFromCtx(ctx)
	return ok && p.Role == RoleAdmin
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
