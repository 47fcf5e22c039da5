package service

import (
	"context"
	"errors"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/logger"
	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

var (
	ErrZoneNotFound    = errors.New("zone not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidSetting  = errors.New("invalid setting")
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Heating answers what a zone should be heated to and accepts manual adjustments.
type Heating interface {
	Zones(ctx context.Context) ([]models.Zone, error)
	Resolve(ctx context.Context, zoneID int) (engine.Resolution, error)
	NextEvent(ctx context.Context, zoneID int) (*engine.Event, error)
	NextTarget(ctx context.Context, zoneID int) (float64, error)
	Upcoming(ctx context.Context, zoneID int, horizon time.Duration) ([]engine.Event, error)
	Status(ctx context.Context, zoneID int) (ZoneStatus, error)
	Statuses(ctx context.Context) ([]ZoneStatus, error)
	AdjustOverride(ctx context.Context, zoneID int, delta float64) (AdjustResult, error)
	RecordMeasurement(ctx context.Context, pin int, tempC float64) error
}

// Monitoring serves the all-zones dashboard, from cache when possible.
type Monitoring interface {
	Dashboard(ctx context.Context) ([]ZoneStatus, error)
}

type Schedules interface {
	Weekly(ctx context.Context, zoneID int) (WeeklySchedule, error)
	Grouped(ctx context.Context) ([]ScheduleGroup, error)
}

type Settings interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateEcoTemp(ctx context.Context, ecoC float64) (models.Settings, error)
	FallbackTemp(ctx context.Context) (float64, error)
}

// EventLog exposes the temperature log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.TemperatureLog, error)
}

// Driver runs the background loop that applies resolved targets to zones.
// Stop via context cancellation.
type Driver interface {
	Run(ctx context.Context, tick time.Duration)
	ApplyOnce(ctx context.Context) error
}

// StatusCache stores JSON-encodable values. Get reports false on a miss.
type StatusCache interface {
	Set(ctx context.Context, key string, v any) error
	Get(ctx context.Context, key string, dst any) (bool, error)
	Delete(ctx context.Context, key string) error
}

// TargetPublisher pushes applied targets to the zone hardware.
type TargetPublisher interface {
	PublishTarget(ctx context.Context, zone models.Zone, targetC float64, source models.Source) error
}

// Recorder receives operational measurements.
type Recorder interface {
	ObserveZones(zones []models.Zone)
	ObserveTick(d time.Duration, err error)
	ObserveAdjustment(created bool)
}

// Options carries configuration and optional collaborators. Nil collaborators are replaced
// with no-ops.
type Options struct {
	EcoTempC   float64
	Limits     engine.Limits
	Location   *time.Location
	SigningKey []byte
	TokenTTL   time.Duration

	Cache     StatusCache
	Publisher TargetPublisher
	Metrics   Recorder
	Log       *logger.Logger
	Now       func() time.Time
}

func (o *Options) setDefaults() {
	if o.Limits == (engine.Limits{}) {
		o.Limits = engine.DefaultLimits
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Cache == nil {
		o.Cache = nopCache{}
	}
	if o.Publisher == nil {
		o.Publisher = nopPublisher{}
	}
	if o.Metrics == nil {
		o.Metrics = nopRecorder{}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	if o.Now == nil {
		loc := o.Location
		o.Now = func() time.Time { return time.Now().In(loc) }
	}
}

type Service struct {
	Heating
	Monitoring
	Schedules
	Settings
	EventLog
	Driver
	Authorization
}

func NewService(repos *repository.Repository, opts Options) *Service {
	opts.setDefaults()

	locks := newZoneLocks()
	settings := NewSettingsService(repos.Settings, opts.EcoTempC)
	heating := NewHeatingService(repos, settings, locks, opts)

	return &Service{
		Heating:       heating,
		Monitoring:    NewMonitoringService(heating, opts.Cache, opts.Log),
		Schedules:     NewScheduleService(repos.Zones, repos.Schedules, settings),
		Settings:      settings,
		EventLog:      NewEventLogService(repos.Logs),
		Driver:        NewDriverService(repos, settings, locks, opts),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}
}

type nopCache struct{}

func (nopCache) Set(context.Context, string, any) error         { return nil }
func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Delete(context.Context, string) error           { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishTarget(context.Context, models.Zone, float64, models.Source) error {
	return nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveZones([]models.Zone)       {}
func (nopRecorder) ObserveTick(time.Duration, error) {}
func (nopRecorder) ObserveAdjustment(bool)           {}
