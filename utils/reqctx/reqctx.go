// Package reqctx carries per-request session data through context.Context
// so that lower layers never reach for ambient state.
package reqctx

import "context"

type ctxKey int

const (
	sessionIDKey ctxKey = iota
	tokenKey
)

func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sid)
}

// SessionIDFromContext returns "" when no session was attached.
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// WithToken attaches the bearer token outbound API calls should carry.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
