package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vaultpass/passgen-go/internal/model"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository stores one generator settings document per user.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// upsertSettingsQuery only replaces the stored document when the incoming
// version is newer (last write wins).
const upsertSettingsQuery = `
	INSERT INTO generator_settings (user_id, data, version)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE
		data       = IF(VALUES(version) > version, VALUES(data), data),
		updated_at = IF(VALUES(version) > version, CURRENT_TIMESTAMP, updated_at),
		version    = IF(VALUES(version) > version, VALUES(version), version)`

// Upsert writes the settings document if its version is greater than the stored one.
func (r *SettingsRepository) Upsert(ctx context.Context, s *model.UserSettings) error {
	_, err := r.db.ExecContext(ctx, upsertSettingsQuery, s.UserID, s.Data, s.Version)
	return err
}

// Get retrieves the settings document of a user.
func (r *SettingsRepository) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	query := `SELECT user_id, data, version, updated_at FROM generator_settings WHERE user_id = ?`

	s := &model.UserSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.Data, &s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	return s, nil
}

// Delete removes the settings of a user, restoring the defaults.
func (r *SettingsRepository) Delete(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM generator_settings WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
