package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"zone_heating/internal/models"
)

type SettingsSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSettingsSQL(db *sql.DB, dialect Dialect) *SettingsSQL {
	return &SettingsSQL{db: db, dialect: dialect}
}

var _ SettingsRepo = (*SettingsSQL)(nil)

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO settings (id, eco_temp_c, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			eco_temp_c=excluded.eco_temp_c,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `SELECT eco_temp_c, updated_at FROM settings WHERE id=?`
)

// Save upserts the single settings row.
func (r *SettingsSQL) Save(ctx context.Context, s models.Settings) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(upsertSettingsSQL), settingsRowID, s.EcoTempC, ts); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Load returns ErrNotFound until settings were saved once.
func (r *SettingsSQL) Load(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectSettingsSQL), settingsRowID).Scan(&s.EcoTempC, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
