package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// SettingsRepository handles the flat system_settings key/value table.
// Settings are read at request time; there is no caching layer.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the raw value for a key, or "" when the row is missing.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	query := database.ConvertPlaceholders(`
		SELECT setting_value FROM system_settings WHERE setting_key = ?
	`)
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// GetBool interprets the value as a boolean; missing or malformed rows
// resolve to the fallback.
func (r *SettingsRepository) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// GetInt interprets the value as an integer with a fallback.
func (r *SettingsRepository) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// Set upserts a setting row.
func (r *SettingsRepository) Set(ctx context.Context, key, value, valueType string) error {
	now := time.Now().UTC()

	update := database.ConvertPlaceholders(`
		UPDATE system_settings SET setting_value = ?, value_type = ?, updated_at = ?
		WHERE setting_key = ?
	`)
	result, err := r.db.ExecContext(ctx, update, value, valueType, now, key)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insert := database.ConvertPlaceholders(`
		INSERT INTO system_settings (setting_key, setting_value, value_type, updated_at)
		VALUES (?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, insert, key, value, valueType, now)
	return err
}

// List returns every setting row.
func (r *SettingsRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	query := `SELECT setting_key, setting_value, value_type, updated_at FROM system_settings ORDER BY setting_key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		s := &models.SystemSetting{}
		var value sql.NullString
		if err := rows.Scan(&s.Key, &value, &s.ValueType, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Value = value.String
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
