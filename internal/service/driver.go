package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zone_heating/internal/logger"
	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

// DriverService applies resolved targets to zones on every tick.
type DriverService struct {
	loader    snapshotLoader
	zones     repository.ZoneRepo
	schedules repository.ScheduleRepo
	logs      repository.LogRepo
	settings  fallbackSource
	locks     *zoneLocks

	publisher TargetPublisher
	cache     StatusCache
	metrics   Recorder
	log       *logger.Logger
	now       func() time.Time
}

func NewDriverService(repos *repository.Repository, settings fallbackSource, locks *zoneLocks, opts Options) *DriverService {
	opts.setDefaults()
	return &DriverService{
		loader:    snapshotLoader{zones: repos.Zones, schedules: repos.Schedules, overrides: repos.Overrides},
		zones:     repos.Zones,
		schedules: repos.Schedules,
		logs:      repos.Logs,
		settings:  settings,
		locks:     locks,
		publisher: opts.Publisher,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		log:       opts.Log,
		now:       opts.Now,
	}
}

// Run applies once immediately, then on every tick until ctx is canceled.
func (s *DriverService) Run(ctx context.Context, tick time.Duration) {
	s.log.Infow("driver started", "tick", tick.String())
	defer s.log.Infow("driver stopped")

	s.runOnce(ctx)
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.runOnce(ctx)
		}
	}
}

func (s *DriverService) runOnce(ctx context.Context) {
	if err := s.ApplyOnce(ctx); err != nil && ctx.Err() == nil {
		s.log.Errorw("driver pass failed", "err", err)
	}
}

// ApplyOnce resolves every zone and applies targets that changed. A failing zone does not
// stop the others; all failures are returned joined.
func (s *DriverService) ApplyOnce(ctx context.Context) error {
	start := time.Now()
	err := s.applyAll(ctx)
	s.metrics.ObserveTick(time.Since(start), err)
	return err
}

func (s *DriverService) applyAll(ctx context.Context) error {
	zones, err := s.zones.List(ctx)
	if err != nil {
		return err
	}
	schedules, err := s.schedules.ListAll(ctx)
	if err != nil {
		return err
	}
	fallback, err := s.settings.FallbackTemp(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	var (
		errs     []error
		applied  = make([]models.Zone, 0, len(zones))
		statuses = make([]ZoneStatus, 0, len(zones))
	)
	for _, z := range zones {
		st, err := s.applyZone(ctx, z, schedules, now, fallback)
		if err != nil {
			errs = append(errs, fmt.Errorf("zone %d: %w", z.ID, err))
			applied = append(applied, z)
			continue
		}
		applied = append(applied, st.Zone)
		statuses = append(statuses, st)
	}

	s.metrics.ObserveZones(applied)
	if len(errs) > 0 {
		if err := s.cache.Delete(ctx, dashboardKey); err != nil {
			s.log.Warnw("dashboard cache invalidation failed", "err", err)
		}
		return errors.Join(errs...)
	}
	if err := s.cache.Set(ctx, dashboardKey, statuses); err != nil {
		s.log.Warnw("dashboard cache write failed", "err", err)
	}
	return nil
}

// applyZone publishes before persisting, so a failed publish is retried on the next tick.
func (s *DriverService) applyZone(ctx context.Context, z models.Zone, schedules []models.Schedule, now time.Time, fallback float64) (ZoneStatus, error) {
	unlock := s.locks.lock(z.ID)
	defer unlock()

	snap, err := s.loader.withSchedules(ctx, z, schedules)
	if err != nil {
		return ZoneStatus{}, err
	}
	st := buildStatus(snap, resolveLogged(s.log, snap, now, fallback), now, fallback)
	if !changed(z, st) {
		return st, nil
	}

	if err := s.publisher.PublishTarget(ctx, z, st.TargetTempC, st.Source); err != nil {
		return ZoneStatus{}, err
	}
	if err := s.zones.UpdateApplied(ctx, z.ID, st.TargetTempC, st.Source); err != nil {
		return ZoneStatus{}, err
	}
	if st.Source.Logged() {
		if err := s.logs.Append(ctx, models.TemperatureLog{
			ZoneID:     z.ID,
			TempC:      st.TargetTempC,
			Source:     st.Source,
			OccurredAt: now,
		}); err != nil {
			return ZoneStatus{}, err
		}
	}

	s.log.Infow("zone target applied",
		"zone_id", z.ID,
		"zone", z.Name,
		"target_temp_c", st.TargetTempC,
		"source", st.Source,
		"previous_temp_c", z.TargetTempC,
		"previous_source", z.TargetSource,
	)
	st.Zone.TargetTempC = st.TargetTempC
	st.Zone.TargetSource = st.Source
	return st, nil
}

func changed(z models.Zone, st ZoneStatus) bool {
	return z.TargetTempC != st.TargetTempC || z.TargetSource != st.Source
}

