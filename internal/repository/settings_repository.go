package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
)

const SettingsStorageKey = "vizora_settings"

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Settings, bool, error)
	UpdateSettings(ctx context.Context, s *models.Settings, userID string) error
}

type settingsRepository struct {
	s Storage
}

func NewSettingsRepository(s Storage) SettingsRepository {
	return &settingsRepository{s: s}
}

func settingsKey(userID string) string {
	return fmt.Sprintf("%s:%s", SettingsStorageKey, userID)
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID string) (*models.Settings, bool, error) {
	raw, err := r.s.Get(ctx, settingsKey(userID))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var settings models.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		slog.Info(err.Error())
		return nil, false, fmt.Errorf("decode stored settings: %w", err)
	}
	return &settings, true, nil
}

func (r *settingsRepository) UpdateSettings(ctx context.Context, s *models.Settings, userID string) error {
	s.UserID = userID
	s.UpdatedAt = time.Now()

	raw, err := json.Marshal(s)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return r.s.Set(ctx, settingsKey(userID), raw)
}
