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

// dashboardKey is the cache key of the all-zones status list.
const dashboardKey = "dashboard"

// ZoneStatus is the resolved view of one zone at ResolvedAt.
type ZoneStatus struct {
	Zone           models.Zone            `json:"zone"`
	TargetTempC    float64                `json:"target_temp_c"`
	Source         models.Source          `json:"source"`
	ActiveSchedule *models.Schedule       `json:"active_schedule,omitempty"`
	ActiveOverride *models.ManualOverride `json:"active_override,omitempty"`
	NextEvent      *engine.Event          `json:"next_event,omitempty"`
	NextTargetC    float64                `json:"next_target_temp_c"`
	ResolvedAt     time.Time              `json:"resolved_at"`
}

// AdjustResult describes the override written by an adjustment.
type AdjustResult struct {
	ZoneID     int                   `json:"zone"`
	NewTargetC float64               `json:"new_target"`
	Clamped    bool                  `json:"clamped"`
	Created    bool                  `json:"created"`
	Override   models.ManualOverride `json:"override"`
}

func buildStatus(snap engine.Snapshot, res engine.Resolution, now time.Time, fallback float64) ZoneStatus {
	st := ZoneStatus{
		Zone:           snap.Zone,
		TargetTempC:    res.TargetTempC,
		Source:         res.Source,
		ActiveSchedule: res.ActiveSchedule,
		ActiveOverride: res.ActiveOverride,
		NextTargetC:    engine.NextTarget(snap, now, fallback),
		ResolvedAt:     now,
	}
	if ev, ok := engine.NextEvent(snap, now); ok {
		st.NextEvent = &ev
	}
	return st
}

// resolveLogged resolves and warns about overlapping overrides.
func resolveLogged(log *logger.Logger, snap engine.Snapshot, now time.Time, fallback float64) engine.Resolution {
	res := engine.Resolve(snap, now, fallback)
	if res.ActiveOverrideCount > 1 {
		log.Warnw("overlapping manual overrides",
			"zone_id", snap.Zone.ID,
			"active", res.ActiveOverrideCount,
			"winner_id", res.ActiveOverride.ID,
		)
	}
	return res
}

// snapshotLoader reads everything the engine needs about a zone.
type snapshotLoader struct {
	zones     repository.ZoneRepo
	schedules repository.ScheduleRepo
	overrides repository.OverrideRepo
}

func (l snapshotLoader) zone(ctx context.Context, zoneID int) (models.Zone, error) {
	z, err := l.zones.Get(ctx, zoneID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Zone{}, fmt.Errorf("%w: %d", ErrZoneNotFound, zoneID)
	}
	return z, err
}

func (l snapshotLoader) snapshot(ctx context.Context, zoneID int) (engine.Snapshot, error) {
	z, err := l.zone(ctx, zoneID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	schedules, err := l.schedules.ListForZone(ctx, zoneID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	return l.withSchedules(ctx, z, schedules)
}

// withSchedules completes a snapshot for z. schedules may hold rows of other zones.
func (l snapshotLoader) withSchedules(ctx context.Context, z models.Zone, schedules []models.Schedule) (engine.Snapshot, error) {
	overrides, err := l.overrides.ListForZone(ctx, z.ID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	return engine.NewSnapshot(z, schedules, overrides), nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
