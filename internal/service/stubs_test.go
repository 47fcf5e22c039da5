package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

// monday is 2025-01-06, a Monday.
func monday(h, m int) time.Time {
	return time.Date(2025, time.January, 6, h, m, 0, 0, time.UTC)
}

func tod(h, m int) models.TimeOfDay { return models.NewTimeOfDay(h, m, 0) }

func intPtr(v int) *int { return &v }

// ---- repositories ----

type appliedTarget struct {
	zoneID  int
	targetC float64
	source  models.Source
}

type zoneRepoStub struct {
	mu        sync.Mutex
	zones     map[int]models.Zone
	listErr   error
	updateErr error
	applied   []appliedTarget
}

func newZoneRepoStub(zones ...models.Zone) *zoneRepoStub {
	s := &zoneRepoStub{zones: make(map[int]models.Zone)}
	for _, z := range zones {
		s.zones[z.ID] = z
	}
	return s
}

func (s *zoneRepoStub) List(ctx context.Context) ([]models.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, z)
	}
	slices.SortFunc(out, func(a, b models.Zone) int { return a.ID - b.ID })
	return out, nil
}

func (s *zoneRepoStub) Get(ctx context.Context, id int) (models.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zones[id]
	if !ok {
		return models.Zone{}, fmt.Errorf("zone %d: %w", id, repository.ErrNotFound)
	}
	return z, nil
}

func (s *zoneRepoStub) Create(ctx context.Context, z models.Zone) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z.ID = len(s.zones) + 1
	s.zones[z.ID] = z
	return z.ID, nil
}

func (s *zoneRepoStub) UpdateApplied(ctx context.Context, id int, targetC float64, source models.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	z, ok := s.zones[id]
	if !ok {
		return fmt.Errorf("zone %d: %w", id, repository.ErrNotFound)
	}
	z.TargetTempC, z.TargetSource = targetC, source
	s.zones[id] = z
	s.applied = append(s.applied, appliedTarget{zoneID: id, targetC: targetC, source: source})
	return nil
}

func (s *zoneRepoStub) UpdateMeasuredByPin(ctx context.Context, pin int, tempC float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, z := range s.zones {
		if z.Pin != nil && *z.Pin == pin {
			z.CurrentTempC = tempC
			s.zones[id] = z
			return true, nil
		}
	}
	return false, nil
}

type scheduleRepoStub struct {
	rows []models.Schedule
	err  error
}

func (s *scheduleRepoStub) ListForZone(ctx context.Context, zoneID int) ([]models.Schedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Schedule
	for _, r := range s.rows {
		if r.ZoneID == zoneID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *scheduleRepoStub) ListAll(ctx context.Context) ([]models.Schedule, error) {
	return s.rows, s.err
}

func (s *scheduleRepoStub) Create(ctx context.Context, r models.Schedule) (int, error) {
	r.ID = len(s.rows) + 1
	s.rows = append(s.rows, r)
	return r.ID, nil
}

type overrideRepoStub struct {
	mu      sync.Mutex
	rows    []models.ManualOverride
	created []models.ManualOverride
	updated []models.ManualOverride
	err     error
}

func (s *overrideRepoStub) ListForZone(ctx context.Context, zoneID int) ([]models.ManualOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ManualOverride
	for _, o := range s.rows {
		if o.ZoneID == zoneID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *overrideRepoStub) Create(ctx context.Context, o models.ManualOverride) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = 100 + len(s.rows)
	s.rows = append(s.rows, o)
	s.created = append(s.created, o)
	return o.ID, nil
}

func (s *overrideRepoStub) Update(ctx context.Context, o models.ManualOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == o.ID {
			s.rows[i] = o
			s.updated = append(s.updated, o)
			return nil
		}
	}
	return fmt.Errorf("override %d: %w", o.ID, repository.ErrNotFound)
}

type logRepoStub struct {
	appended  []models.TemperatureLog
	appendErr error

	gotFilter repository.LogFilter
	listResp  []models.TemperatureLog
	calls     int
}

func (s *logRepoStub) Append(ctx context.Context, l models.TemperatureLog) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, l)
	return nil
}

func (s *logRepoStub) List(ctx context.Context, f repository.LogFilter) ([]models.TemperatureLog, error) {
	s.calls++
	s.gotFilter = f
	return s.listResp, nil
}

type settingsRepoStub struct {
	stored  *models.Settings
	loadErr error
	saveErr error
}

func (s *settingsRepoStub) Load(ctx context.Context) (models.Settings, error) {
	if s.loadErr != nil {
		return models.Settings{}, s.loadErr
	}
	if s.stored == nil {
		return models.Settings{}, fmt.Errorf("settings: %w", repository.ErrNotFound)
	}
	return *s.stored, nil
}

func (s *settingsRepoStub) Save(ctx context.Context, st models.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stored = &st
	return nil
}

// ---- collaborators ----

type cacheStub struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	deletes []string
}

func newCacheStub() *cacheStub { return &cacheStub{data: make(map[string][]byte)} }

func (c *cacheStub) Set(ctx context.Context, key string, v any) error {
	if c.setErr != nil {
		return c.setErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *cacheStub) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *cacheStub) Delete(ctx context.Context, key string) error {
	c.deletes = append(c.deletes, key)
	delete(c.data, key)
	return nil
}

type publishedTarget struct {
	zoneID  int
	targetC float64
	source  models.Source
}

// publisherStub fails with err for failZone, or for every zone when failZone is 0.
type publisherStub struct {
	calls    []publishedTarget
	err      error
	failZone int
}

func (p *publisherStub) PublishTarget(ctx context.Context, z models.Zone, targetC float64, source models.Source) error {
	if p.err != nil && (p.failZone == 0 || p.failZone == z.ID) {
		return p.err
	}
	p.calls = append(p.calls, publishedTarget{zoneID: z.ID, targetC: targetC, source: source})
	return nil
}

type recorderStub struct {
	zones       [][]models.Zone
	ticks       []error
	adjustments []bool
}

func (r *recorderStub) ObserveZones(zones []models.Zone)       { r.zones = append(r.zones, zones) }
func (r *recorderStub) ObserveTick(_ time.Duration, err error) { r.ticks = append(r.ticks, err) }
func (r *recorderStub) ObserveAdjustment(created bool)         { r.adjustments = append(r.adjustments, created) }

// ---- fixture ----

// fixture is a two-zone house on a Monday:
// Bedroom (pin 4) 07:00-09:00 at 21 and overnight 22:00-06:00 at 18; Hall 08:00-17:00 at 19.
type fixture struct {
	zones     *zoneRepoStub
	schedules *scheduleRepoStub
	overrides *overrideRepoStub
	logs      *logRepoStub
	settings  *settingsRepoStub
	cache     *cacheStub
	publisher *publisherStub
	metrics   *recorderStub
	now       time.Time
}

func newFixture() *fixture {
	return &fixture{
		zones: newZoneRepoStub(
			models.Zone{ID: 1, Name: "Bedroom", Pin: intPtr(4)},
			models.Zone{ID: 2, Name: "Hall"},
		),
		schedules: &scheduleRepoStub{rows: []models.Schedule{
			{ID: 1, ZoneID: 1, DayOfWeek: models.Monday, Start: tod(7, 0), End: tod(9, 0), TargetTempC: 21, Priority: 1},
			{ID: 2, ZoneID: 1, DayOfWeek: models.Monday, Start: tod(22, 0), End: tod(6, 0), TargetTempC: 18, Priority: 1},
			{ID: 3, ZoneID: 2, DayOfWeek: models.Monday, Start: tod(8, 0), End: tod(17, 0), TargetTempC: 19, Priority: 1},
		}},
		overrides: &overrideRepoStub{},
		logs:      &logRepoStub{},
		settings:  &settingsRepoStub{},
		cache:     newCacheStub(),
		publisher: &publisherStub{},
		metrics:   &recorderStub{},
		now:       monday(8, 0),
	}
}

func (f *fixture) repos() *repository.Repository {
	return &repository.Repository{
		Zones:     f.zones,
		Schedules: f.schedules,
		Overrides: f.overrides,
		Logs:      f.logs,
		Settings:  f.settings,
	}
}

func (f *fixture) options() Options {
	return Options{
		EcoTempC:  16,
		Location:  time.UTC,
		Cache:     f.cache,
		Publisher: f.publisher,
		Metrics:   f.metrics,
		Now:       func() time.Time { return f.now },
	}
}

func (f *fixture) service() *Service {
	return NewService(f.repos(), f.options())
}
