package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/vizora/internal/models"
)

// UserStorageKey prefixes the persisted session record of a user.
const UserStorageKey = "vizora_user"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, bool, error)
	Save(ctx context.Context, user *models.User) error
	Remove(ctx context.Context, id string) error
	// Update applies fn to the stored user atomically. It reports false
	// without calling fn when no user is stored under id.
	Update(ctx context.Context, id string, fn func(user *models.User) error) (bool, error)
}

type userRepository struct {
	s Storage
}

func NewUserRepository(s Storage) UserRepository {
	return &userRepository{s: s}
}

func userKey(id string) string {
	return fmt.Sprintf("%s:%s", UserStorageKey, id)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, bool, error) {
	raw, err := r.s.Get(ctx, userKey(id))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		slog.Info(err.Error())
		return nil, false, fmt.Errorf("decode stored user: %w", err)
	}
	return &user, true, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return r.s.Set(ctx, userKey(user.ID), raw)
}

func (r *userRepository) Remove(ctx context.Context, id string) error {
	return r.s.Remove(ctx, userKey(id))
}

func (r *userRepository) Update(ctx context.Context, id string, fn func(user *models.User) error) (bool, error) {
	err := r.s.Update(ctx, userKey(id), func(current []byte) ([]byte, error) {
		var user models.User
		if err := json.Unmarshal(current, &user); err != nil {
			return nil, fmt.Errorf("decode stored user: %w", err)
		}
		if err := fn(&user); err != nil {
			return nil, err
		}
		return json.Marshal(&user)
	})
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
