package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"zone_heating/internal/models"

	"github.com/google/uuid"
)

type LogSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewLogSQL(db *sql.DB, dialect Dialect) *LogSQL { return &LogSQL{db: db, dialect: dialect} }

var _ LogRepo = (*LogSQL)(nil)

const insertLogSQL = `INSERT INTO temperature_logs (id, zone_id, temp_c, source, occurred_at) VALUES (?, ?, ?, ?, ?)`

// Append inserts a log row. Missing ID and OccurredAt are filled in.
func (r *LogSQL) Append(ctx context.Context, l models.TemperatureLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.OccurredAt.IsZero() {
		l.OccurredAt = time.Now().UTC()
	} else {
		l.OccurredAt = l.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertLogSQL),
		l.ID, l.ZoneID, l.TempC, string(l.Source), l.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert temperature log for zone %d: %w", l.ZoneID, err)
	}
	return nil
}

// List returns logs matching f, oldest first. From and To are inclusive.
func (r *LogSQL) List(ctx context.Context, f LogFilter) ([]models.TemperatureLog, error) {
	var (
		conds []string
		args  []any
	)
	if f.ZoneID != 0 {
		conds = append(conds, "zone_id = ?")
		args = append(args, f.ZoneID)
	}
	if src := strings.ToLower(strings.TrimSpace(string(f.Source))); src != "" {
		conds = append(conds, "source = ?")
		args = append(args, src)
	}
	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, f.To.UTC())
	}

	q := `SELECT id, zone_id, temp_c, source, occurred_at FROM temperature_logs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("select temperature logs: %w", err)
	}
	defer rows.Close()

	out := make([]models.TemperatureLog, 0, 64)
	for rows.Next() {
		var (
			l   models.TemperatureLog
			src string
		)
		if err := rows.Scan(&l.ID, &l.ZoneID, &l.TempC, &src, &l.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan temperature log: %w", err)
		}
		l.Source = models.Source(src)
		l.OccurredAt = l.OccurredAt.UTC()
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate temperature logs: %w", err)
	}
	return out, nil
}
