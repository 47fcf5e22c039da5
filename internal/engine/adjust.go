package engine

import (
	"errors"
	"math"
	"time"

	"zone_heating/internal/models"
)

// ErrInvalidDelta is returned for NaN or infinite adjustments.
var ErrInvalidDelta = errors.New("invalid delta")

// Limits bounds every target produced by an adjustment.
type Limits struct {
	MinC float64
	MaxC float64
}

var DefaultLimits = Limits{MinC: 5.0, MaxC: 30.0}

// Clamp returns v limited to [MinC, MaxC] and whether it had to be changed.
func (l Limits) Clamp(v float64) (float64, bool) {
	switch {
	case v < l.MinC:
		return l.MinC, true
	case v > l.MaxC:
		return l.MaxC, true
	default:
		return v, false
	}
}

// Adjustment is the override row to persist after nudging a zone's target.
type Adjustment struct {
	Override models.ManualOverride
	Created  bool // Override is new and has no ID yet
	Clamped  bool
}

// PlanAdjustment moves the zone's target by delta. An active override is updated in place and
// re-stamped with ActiveFrom = now so it keeps winning over overlapping rows. Otherwise a new
// indefinite override starts at now, seeded from the currently resolved target.
func PlanAdjustment(snap Snapshot, now time.Time, delta, fallback float64, limits Limits) (Adjustment, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return Adjustment{}, ErrInvalidDelta
	}

	res := Resolve(snap, now, fallback)
	if res.ActiveOverride != nil {
		ov := *res.ActiveOverride
		target, clamped := limits.Clamp(ov.TargetTempC + delta)
		ov.TargetTempC = target
		ov.ActiveFrom = now
		return Adjustment{Override: ov, Clamped: clamped}, nil
	}

	target, clamped := limits.Clamp(res.TargetTempC + delta)
	return Adjustment{
		Override: models.ManualOverride{
			ZoneID:      snap.Zone.ID,
			TargetTempC: target,
			ActiveFrom:  now,
		},
		Created: true,
		Clamped: clamped,
	}, nil
}
