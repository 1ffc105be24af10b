package session

import (
	"context"
	"errors"

	"github.com/octabyte/zip-client/models"
	"github.com/octabyte/zip-client/utils"
)

// PutFlash stores a message for the next page render, replacing any pending one.
func PutFlash(ctx context.Context, store Store, sid string, flash models.Flash) error {
	raw, err := utils.StructToString(flash)
	if err != nil {
		return err
	}
	return store.Set(ctx, sid, map[string]string{FlashKey: raw})
}

// PullFlash returns the pending message and removes it. It returns nil when
// there is none.
func PullFlash(ctx context.Context, store Store, sid string) (*models.Flash, error) {
	raw, err := Pull(ctx, store, sid, FlashKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var flash models.Flash
	if err := utils.BytesToStruct([]byte(raw), &flash); err != nil {
		return nil, err
	}
	return &flash, nil
}
