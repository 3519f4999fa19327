package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

var ErrVersionConflict = errors.New("settings were changed by a newer update")

// SettingsStore persists settings documents.
type SettingsStore interface {
	Get(ctx context.Context, userID int64) (*model.UserSettings, error)
	Upsert(ctx context.Context, s *model.UserSettings) error
	Delete(ctx context.Context, userID int64) error
}

// SettingsService manages the saved generator settings of each user.
type SettingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the saved settings of a user, or the defaults at version 0
// when nothing has been saved.
func (s *SettingsService) Get(ctx context.Context, userID int64) (model.SettingsResponse, error) {
	stored, err := s.store.Get(ctx, userID)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		return model.SettingsResponse{Settings: model.DefaultSettings()}, nil
	}
	if err != nil {
		return model.SettingsResponse{}, err
	}

	settings := model.DefaultSettings()
	if err := json.Unmarshal(stored.Data, &settings); err != nil {
		slog.Warn("stored settings unreadable, using defaults", "user_id", userID, "error", err)
		settings = model.DefaultSettings()
	}

	return model.SettingsResponse{
		Settings:  settings,
		Version:   stored.Version,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

// Update validates and saves req. A zero version means "next version";
// otherwise the version must be newer than the stored one.
func (s *SettingsService) Update(ctx context.Context, userID int64, req model.SettingsRequest) (model.SettingsResponse, error) {
	if err := req.Settings.Validate(); err != nil {
		return model.SettingsResponse{}, err
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return model.SettingsResponse{}, err
	}

	version := req.Version
	if version == 0 {
		version = current.Version + 1
	}
	if version <= current.Version {
		return model.SettingsResponse{}, fmt.Errorf("%w: stored version is %d", ErrVersionConflict, current.Version)
	}

	data, err := json.Marshal(req.Settings)
	if err != nil {
		return model.SettingsResponse{}, err
	}

	if err := s.store.Upsert(ctx, &model.UserSettings{UserID: userID, Data: data, Version: version}); err != nil {
		return model.SettingsResponse{}, err
	}

	saved, err := s.Get(ctx, userID)
	if err != nil {
		return model.SettingsResponse{}, err
	}
	// A concurrent writer got there first.
	if saved.Version != version {
		return model.SettingsResponse{}, fmt.Errorf("%w: stored version is %d", ErrVersionConflict, saved.Version)
	}

	return saved, nil
}

// Reset deletes the saved settings of a user.
func (s *SettingsService) Reset(ctx context.Context, userID int64) error {
	err := s.store.Delete(ctx, userID)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		return nil
	}
	return err
}

// IsValidationError reports whether err describes invalid settings.
func IsValidationError(err error) bool {
	return errors.Is(err, model.ErrInvalidTheme) ||
		errors.Is(err, model.ErrInvalidTab) ||
		errors.Is(err, model.ErrInvalidLength) ||
		errors.Is(err, model.ErrSetTooLarge) ||
		errors.Is(err, model.ErrInvalidWordCount) ||
		errors.Is(err, model.ErrInvalidSeparator)
}
