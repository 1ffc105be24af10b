package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract exercises the behaviour every Store must share.
func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing session", func(t *testing.T) {
		_, err := store.Get(ctx, "nobody", TokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set writes every key", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "s1", map[string]string{
			TokenKey: "tok123",
			UserKey:  `{"id":1}`,
		}))

		token, err := store.Get(ctx, "s1", TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok123", token)

		user, err := store.Get(ctx, "s1", UserKey)
		require.NoError(t, err)
		assert.Equal(t, `{"id":1}`, user)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		_, err := store.Get(ctx, "s2", TokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes only named keys", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "s1", UserKey))

		_, err := store.Get(ctx, "s1", UserKey)
		assert.ErrorIs(t, err, ErrNotFound)

		token, err := store.Get(ctx, "s1", TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok123", token)
	})

	t.Run("touch keeps values and never creates", func(t *testing.T) {
		require.NoError(t, store.Touch(ctx, "s1"))
		token, err := store.Get(ctx, "s1", TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok123", token)

		require.NoError(t, store.Touch(ctx, "s4"))
		_, err = store.Get(ctx, "s4", TokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pull reads once", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "s1", map[string]string{FlashKey: "hello"}))

		value, err := Pull(ctx, store, "s1", FlashKey)
		require.NoError(t, err)
		assert.Equal(t, "hello", value)

		_, err = Pull(ctx, store, "s1", FlashKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("clear drops the session and is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, "s1"))
		require.NoError(t, store.Clear(ctx, "s1"))

		_, err := store.Get(ctx, "s1", TokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty writes are no-ops", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "s3", nil))
		assert.NoError(t, store.Delete(ctx, "s3"))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
