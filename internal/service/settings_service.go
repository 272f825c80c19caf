package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/repository"
	"github.com/maheshrc27/vizora/internal/transfer"
)

var ErrInvalidTimezone = errors.New("unknown timezone")

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID string, su *transfer.SettingsUpdate) (*models.Settings, error)
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

// GetSettingsInfo returns the stored settings or the defaults when the user
// never saved any.
func (s *settingsService) GetSettingsInfo(ctx context.Context, userID string) (*models.Settings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return models.DefaultSettings(userID), nil
	}

	return settings, nil
}

// UpdateSettings applies the non-empty fields of su.
func (s *settingsService) UpdateSettings(ctx context.Context, userID string, su *transfer.SettingsUpdate) (*models.Settings, error) {
	settings, err := s.GetSettingsInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	if su.Tone != "" {
		tone, err := models.ParseTone(su.Tone)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		settings.Tone = tone
	}
	if audience := strings.TrimSpace(su.Audience); audience != "" {
		settings.Audience = audience
	}
	if su.Timezone != "" {
		if _, err := time.LoadLocation(su.Timezone); err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, su.Timezone)
		}
		settings.Timezone = su.Timezone
	}

	if err := s.sr.UpdateSettings(ctx, settings, userID); err != nil {
		return nil, err
	}
	return settings, nil
}
