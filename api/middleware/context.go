package middleware

import "context"

type (
	principalKey struct{}
	requestIDKey struct{}
)

// principal is the admin an access token resolved to.
type principal struct {
	email    string
	role     string
	accessID string
}

func principalFrom(ctx context.Context) principal {
	if ctx == nil {
		return principal{}
	}
	p, _ := ctx.Value(principalKey{}).(principal)
	return p
}

// WithAdmin stores the authenticated admin on ctx.
func WithAdmin(ctx context.Context, email, role, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, principal{email: email, role: role, accessID: accessID})
}

func AdminEmailFromContext(ctx context.Context) string { return principalFrom(ctx).email }

func RoleFromContext(ctx context.Context) string { return principalFrom(ctx).role }

// AccessIDFromContext is the jti of the token, which is also the session id.
func AccessIDFromContext(ctx context.Context) string { return principalFrom(ctx).accessID }

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
