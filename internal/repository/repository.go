package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"zone_heating/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type ZoneRepo interface {
	List(ctx context.Context) ([]models.Zone, error)
	Get(ctx context.Context, id int) (models.Zone, error)
	Create(ctx context.Context, z models.Zone) (int, error)
	UpdateApplied(ctx context.Context, id int, targetC float64, source models.Source) error
	UpdateMeasuredByPin(ctx context.Context, pin int, tempC float64) (bool, error)
}

type ScheduleRepo interface {
	ListForZone(ctx context.Context, zoneID int) ([]models.Schedule, error)
	ListAll(ctx context.Context) ([]models.Schedule, error)
	Create(ctx context.Context, s models.Schedule) (int, error)
}

type OverrideRepo interface {
	ListForZone(ctx context.Context, zoneID int) ([]models.ManualOverride, error)
	Create(ctx context.Context, o models.ManualOverride) (int, error)
	Update(ctx context.Context, o models.ManualOverride) error
}

// LogFilter narrows a temperature log listing. Zero values mean "no filter".
type LogFilter struct {
	ZoneID int
	Source models.Source
	From   time.Time
	To     time.Time
	Limit  int
}

type LogRepo interface {
	Append(ctx context.Context, l models.TemperatureLog) error
	List(ctx context.Context, f LogFilter) ([]models.TemperatureLog, error)
}

type SettingsRepo interface {
	Save(ctx context.Context, s models.Settings) error
	Load(ctx context.Context) (models.Settings, error)
}

type Repository struct {
	Zones     ZoneRepo
	Schedules ScheduleRepo
	Overrides OverrideRepo
	Logs      LogRepo
	Settings  SettingsRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		Zones:     NewZoneSQL(db, dialect),
		Schedules: NewScheduleSQL(db, dialect),
		Overrides: NewOverrideSQL(db, dialect),
		Logs:      NewLogSQL(db, dialect),
		Settings:  NewSettingsSQL(db, dialect),
		Auth:      NewUserRepository(db, dialect),
	}
}
