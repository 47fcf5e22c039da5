package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zone_heating/internal/models"
)

type ZoneSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewZoneSQL(db *sql.DB, dialect Dialect) *ZoneSQL {
	return &ZoneSQL{db: db, dialect: dialect}
}

var _ ZoneRepo = (*ZoneSQL)(nil)

const (
	selectZonesSQL = `SELECT id, name, pin, current_temp_c, target_temp_c, target_source FROM zones ORDER BY id`
	selectZoneSQL  = `SELECT id, name, pin, current_temp_c, target_temp_c, target_source FROM zones WHERE id = ?`
	insertZoneSQL  = `INSERT INTO zones (name, pin, current_temp_c, target_temp_c, target_source) VALUES (?, ?, ?, ?, ?) RETURNING id`

	updateZoneAppliedSQL  = `UPDATE zones SET target_temp_c = ?, target_source = ? WHERE id = ?`
	updateZoneMeasuredSQL = `UPDATE zones SET current_temp_c = ? WHERE pin = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (models.Zone, error) {
	var (
		z   models.Zone
		pin sql.NullInt64
		src string
	)
	if err := row.Scan(&z.ID, &z.Name, &pin, &z.CurrentTempC, &z.TargetTempC, &src); err != nil {
		return models.Zone{}, err
	}
	if pin.Valid {
		p := int(pin.Int64)
		z.Pin = &p
	}
	z.TargetSource = models.Source(src)
	return z, nil
}

func (r *ZoneSQL) List(ctx context.Context) ([]models.Zone, error) {
	rows, err := r.db.QueryContext(ctx, selectZonesSQL)
	if err != nil {
		return nil, fmt.Errorf("select zones: %w", err)
	}
	defer rows.Close()

	var out []models.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zones: %w", err)
	}
	return out, nil
}

// Get returns ErrNotFound when no zone has the id.
func (r *ZoneSQL) Get(ctx context.Context, id int) (models.Zone, error) {
	z, err := scanZone(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectZoneSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Zone{}, fmt.Errorf("zone %d: %w", id, ErrNotFound)
		}
		return models.Zone{}, fmt.Errorf("select zone %d: %w", id, err)
	}
	return z, nil
}

func (r *ZoneSQL) Create(ctx context.Context, z models.Zone) (int, error) {
	var pin any
	if z.Pin != nil {
		pin = *z.Pin
	}
	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertZoneSQL),
		z.Name, pin, z.CurrentTempC, z.TargetTempC, string(z.TargetSource),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert zone %q: %w", z.Name, err)
	}
	return id, nil
}

// UpdateApplied stores the target the driver last applied and its source.
func (r *ZoneSQL) UpdateApplied(ctx context.Context, id int, targetC float64, source models.Source) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(updateZoneAppliedSQL), targetC, string(source), id)
	if err != nil {
		return fmt.Errorf("update zone %d target: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update zone %d target: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateMeasuredByPin records a hardware reading. It reports false when no zone uses the pin.
func (r *ZoneSQL) UpdateMeasuredByPin(ctx context.Context, pin int, tempC float64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(updateZoneMeasuredSQL), tempC, pin)
	if err != nil {
		return false, fmt.Errorf("update measured temperature for pin %d: %w", pin, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update measured temperature for pin %d: %w", pin, err)
	}
	return n > 0, nil
}
