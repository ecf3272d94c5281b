package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the SettingsRepository port.
type SqliteSettingsRepository struct{ DB *sql.DB }

func NewSqliteSettingsRepository(db *sql.DB) *SqliteSettingsRepository {
	return &SqliteSettingsRepository{DB: db}
}

func (s *SqliteSettingsRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("sqlite settings repository: DB is nil")
	}

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SqliteSettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	if s.DB == nil {
		return errors.New("sqlite settings repository: DB is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?);`, key, value); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
