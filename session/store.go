// Package session holds per-visitor server-side state keyed by an opaque
// session id. Stores are process-external in production (Redis) so that any
// replica can serve any visitor.
package session

import (
	"context"
	"errors"
)

// Keys written by this application.
const (
	TokenKey = "api_token"
	UserKey  = "user"
	FlashKey = "_flash"
)

var ErrNotFound = errors.New("session: key not found")

type Store interface {
	// Get returns ErrNotFound when the session or key does not exist.
	Get(ctx context.Context, sid, key string) (string, error)
	// Set writes all values atomically and refreshes the session expiry.
	Set(ctx context.Context, sid string, values map[string]string) error
	// Touch pushes back the expiry of an existing session. A missing session
	// is not created.
	Touch(ctx context.Context, sid string) error
	Delete(ctx context.Context, sid string, keys ...string) error
	// Clear drops every key of the session.
	Clear(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
}

// Pull reads a key and deletes it, for values shown exactly once.
func Pull(ctx context.Context, store Store, sid, key string) (string, error) {
	value, err := store.Get(ctx, sid, key)
	if err != nil {
		return "", err
	}
	return value, store.Delete(ctx, sid, key)
}
