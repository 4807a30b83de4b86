package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/medsched/appointment-core/internal/store"
)

const usersKey = "users"

// UserDirectory reads the users collection. The scheduling core never
// writes user profiles; account management belongs to the auth
// collaborator.
type UserDirectory struct {
	store store.Store
	key   string
}

func NewUserDirectory(st store.Store, keyPrefix string) *UserDirectory {
	return &UserDirectory{store: st, key: keyPrefix + usersKey}
}

func (d *UserDirectory) ListUsers(ctx context.Context) ([]User, error) {
	raw, err := d.store.Get(ctx, d.key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return []User{}, nil
		}
		return nil, fmt.Errorf("load users: %w", err)
	}

	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, store.NewStoreError("decode", d.key, err)
	}
	return users, nil
}
