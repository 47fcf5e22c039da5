package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zone_heating/internal/models"
)

type ScheduleSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewScheduleSQL(db *sql.DB, dialect Dialect) *ScheduleSQL {
	return &ScheduleSQL{db: db, dialect: dialect}
}

var _ ScheduleRepo = (*ScheduleSQL)(nil)

const (
	scheduleColumns        = `id, zone_id, day_of_week, start_time, end_time, target_temp_c, priority`
	selectSchedulesSQL     = `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY zone_id, day_of_week, priority, start_time, id`
	selectZoneSchedulesSQL = `SELECT ` + scheduleColumns + ` FROM schedules WHERE zone_id = ? ORDER BY day_of_week, priority, start_time, id`
	insertScheduleSQL      = `INSERT INTO schedules (zone_id, day_of_week, start_time, end_time, target_temp_c, priority) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
)

func (r *ScheduleSQL) ListForZone(ctx context.Context, zoneID int) ([]models.Schedule, error) {
	return r.query(ctx, r.dialect.Rebind(selectZoneSchedulesSQL), zoneID)
}

func (r *ScheduleSQL) ListAll(ctx context.Context) ([]models.Schedule, error) {
	return r.query(ctx, selectSchedulesSQL)
}

func (r *ScheduleSQL) query(ctx context.Context, q string, args ...any) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select schedules: %w", err)
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.ZoneID, &s.DayOfWeek, &s.Start, &s.End, &s.TargetTempC, &s.Priority); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return out, nil
}

func (r *ScheduleSQL) Create(ctx context.Context, s models.Schedule) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertScheduleSQL),
		s.ZoneID, int(s.DayOfWeek), s.Start, s.End, s.TargetTempC, s.Priority,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert schedule for zone %d: %w", s.ZoneID, err)
	}
	return id, nil
}
