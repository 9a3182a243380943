// Package ctxutil carries request-scoped values through context.Context.
package ctxutil

import "context"

type ctxKey int

const (
	userIDKey ctxKey = iota
	requestIDKey
)

// SetUserID stores the authenticated user's id.
func SetUserID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

// GetUserID returns the authenticated user's id, or 0 and false for guests.
func GetUserID(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(userIDKey).(int64)
	return uid, ok && uid != 0
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
