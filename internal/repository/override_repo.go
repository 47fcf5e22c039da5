package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zone_heating/internal/models"
)

type OverrideSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewOverrideSQL(db *sql.DB, dialect Dialect) *OverrideSQL {
	return &OverrideSQL{db: db, dialect: dialect}
}

var _ OverrideRepo = (*OverrideSQL)(nil)

const (
	selectZoneOverridesSQL = `SELECT id, zone_id, target_temp_c, active_from, active_until FROM manual_overrides WHERE zone_id = ? ORDER BY id`
	insertOverrideSQL      = `INSERT INTO manual_overrides (zone_id, target_temp_c, active_from, active_until) VALUES (?, ?, ?, ?) RETURNING id`
	updateOverrideSQL      = `UPDATE manual_overrides SET target_temp_c = ?, active_from = ?, active_until = ? WHERE id = ?`
)

// ListForZone returns every override row of the zone, expired and future ones included.
func (r *OverrideSQL) ListForZone(ctx context.Context, zoneID int) ([]models.ManualOverride, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectZoneOverridesSQL), zoneID)
	if err != nil {
		return nil, fmt.Errorf("select overrides for zone %d: %w", zoneID, err)
	}
	defer rows.Close()

	var out []models.ManualOverride
	for rows.Next() {
		var (
			o     models.ManualOverride
			until sql.NullTime
		)
		if err := rows.Scan(&o.ID, &o.ZoneID, &o.TargetTempC, &o.ActiveFrom, &until); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		o.ActiveFrom = o.ActiveFrom.UTC()
		if until.Valid {
			t := until.Time.UTC()
			o.ActiveUntil = &t
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

func untilArg(o models.ManualOverride) any {
	if o.ActiveUntil == nil {
		return nil
	}
	return o.ActiveUntil.UTC()
}

func (r *OverrideSQL) Create(ctx context.Context, o models.ManualOverride) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertOverrideSQL),
		o.ZoneID, o.TargetTempC, o.ActiveFrom.UTC(), untilArg(o),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert override for zone %d: %w", o.ZoneID, err)
	}
	return id, nil
}

func (r *OverrideSQL) Update(ctx context.Context, o models.ManualOverride) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(updateOverrideSQL),
		o.TargetTempC, o.ActiveFrom.UTC(), untilArg(o), o.ID,
	)
	if err != nil {
		return fmt.Errorf("update override %d: %w", o.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update override %d: %w", o.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("override %d: %w", o.ID, ErrNotFound)
	}
	return nil
}
