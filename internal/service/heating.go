package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/logger"
	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

const defaultUpcomingHorizon = 24 * time.Hour

// fallbackSource supplies the eco temperature used when nothing else applies.
type fallbackSource interface {
	FallbackTemp(ctx context.Context) (float64, error)
}

type HeatingService struct {
	loader    snapshotLoader
	zones     repository.ZoneRepo
	schedules repository.ScheduleRepo
	overrides repository.OverrideRepo
	settings  fallbackSource
	locks     *zoneLocks

	limits  engine.Limits
	cache   StatusCache
	metrics Recorder
	log     *logger.Logger
	now     func() time.Time
}

func NewHeatingService(repos *repository.Repository, settings fallbackSource, locks *zoneLocks, opts Options) *HeatingService {
	opts.setDefaults()
	return &HeatingService{
		loader:    snapshotLoader{zones: repos.Zones, schedules: repos.Schedules, overrides: repos.Overrides},
		zones:     repos.Zones,
		schedules: repos.Schedules,
		overrides: repos.Overrides,
		settings:  settings,
		locks:     locks,
		limits:    opts.Limits,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		log:       opts.Log,
		now:       opts.Now,
	}
}

func (s *HeatingService) Zones(ctx context.Context) ([]models.Zone, error) {
	return s.zones.List(ctx)
}

// evaluate loads the zone and the fallback temperature at a single instant.
func (s *HeatingService) evaluate(ctx context.Context, zoneID int) (engine.Snapshot, time.Time, float64, error) {
	snap, err := s.loader.snapshot(ctx, zoneID)
	if err != nil {
		return engine.Snapshot{}, time.Time{}, 0, err
	}
	fallback, err := s.settings.FallbackTemp(ctx)
	if err != nil {
		return engine.Snapshot{}, time.Time{}, 0, err
	}
	return snap, s.now(), fallback, nil
}

func (s *HeatingService) Resolve(ctx context.Context, zoneID int) (engine.Resolution, error) {
	snap, now, fallback, err := s.evaluate(ctx, zoneID)
	if err != nil {
		return engine.Resolution{}, err
	}
	return resolveLogged(s.log, snap, now, fallback), nil
}

// NextEvent returns nil when the zone has nothing scheduled.
func (s *HeatingService) NextEvent(ctx context.Context, zoneID int) (*engine.Event, error) {
	snap, now, _, err := s.evaluate(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	ev, ok := engine.NextEvent(snap, now)
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (s *HeatingService) NextTarget(ctx context.Context, zoneID int) (float64, error) {
	snap, now, fallback, err := s.evaluate(ctx, zoneID)
	if err != nil {
		return 0, err
	}
	return engine.NextTarget(snap, now, fallback), nil
}

// Upcoming lists transitions within horizon. A non-positive horizon means one day.
func (s *HeatingService) Upcoming(ctx context.Context, zoneID int, horizon time.Duration) ([]engine.Event, error) {
	if horizon <= 0 {
		horizon = defaultUpcomingHorizon
	}
	snap, now, _, err := s.evaluate(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return engine.UpcomingEvents(snap, now, horizon), nil
}

func (s *HeatingService) Status(ctx context.Context, zoneID int) (ZoneStatus, error) {
	snap, now, fallback, err := s.evaluate(ctx, zoneID)
	if err != nil {
		return ZoneStatus{}, err
	}
	return buildStatus(snap, resolveLogged(s.log, snap, now, fallback), now, fallback), nil
}

// Statuses resolves every zone at the same instant.
func (s *HeatingService) Statuses(ctx context.Context) ([]ZoneStatus, error) {
	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	fallback, err := s.settings.FallbackTemp(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]ZoneStatus, 0, len(zones))
	for _, z := range zones {
		snap, err := s.loader.withSchedules(ctx, z, schedules)
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", z.ID, err)
		}
		out = append(out, buildStatus(snap, resolveLogged(s.log, snap, now, fallback), now, fallback))
	}
	return out, nil
}

// AdjustOverride nudges the zone's target by delta through a manual override.
func (s *HeatingService) AdjustOverride(ctx context.Context, zoneID int, delta float64) (AdjustResult, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return AdjustResult{}, fmt.Errorf("%w: delta must be a finite number", ErrInvalidArgument)
	}

	unlock := s.locks.lock(zoneID)
	defer unlock()

	snap, now, fallback, err := s.evaluate(ctx, zoneID)
	if err != nil {
		return AdjustResult{}, err
	}
	adj, err := engine.PlanAdjustment(snap, now, delta, fallback, s.limits)
	if errors.Is(err, engine.ErrInvalidDelta) {
		return AdjustResult{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if err != nil {
		return AdjustResult{}, err
	}

	ov := adj.Override
	if adj.Created {
		id, err := s.overrides.Create(ctx, ov)
		if err != nil {
			return AdjustResult{}, err
		}
		ov.ID = id
	} else if err := s.overrides.Update(ctx, ov); err != nil {
		return AdjustResult{}, err
	}

	s.metrics.ObserveAdjustment(adj.Created)
	if err := s.cache.Delete(ctx, dashboardKey); err != nil {
		s.log.Warnw("dashboard cache invalidation failed", "err", err)
	}
	s.log.Infow("override adjusted",
		"zone_id", zoneID,
		"override_id", ov.ID,
		"delta", delta,
		"target_temp_c", ov.TargetTempC,
		"created", adj.Created,
		"clamped", adj.Clamped,
	)

	return AdjustResult{
		ZoneID:     zoneID,
		NewTargetC: roundTenth(ov.TargetTempC),
		Clamped:    adj.Clamped,
		Created:    adj.Created,
		Override:   ov,
	}, nil
}

// RecordMeasurement stores a temperature reported by the controller on pin.
func (s *HeatingService) RecordMeasurement(ctx context.Context, pin int, tempC float64) error {
	if math.IsNaN(tempC) || math.IsInf(tempC, 0) {
		return fmt.Errorf("%w: temperature must be a finite number", ErrInvalidArgument)
	}
	ok, err := s.zones.UpdateMeasuredByPin(ctx, pin, tempC)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no zone on pin %d", ErrZoneNotFound, pin)
	}
	s.log.Debugw("measurement recorded", "pin", pin, "temp_c", tempC)
	return nil
}
