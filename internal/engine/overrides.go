package engine

import (
	"cmp"
	"slices"
	"time"

	"zone_heating/internal/models"
)

// OverrideStore holds every known override row per zone: past, current and future.
type OverrideStore struct {
	byZone map[int][]models.ManualOverride
}

func NewOverrideStore(overrides []models.ManualOverride) *OverrideStore {
	s := &OverrideStore{byZone: make(map[int][]models.ManualOverride)}
	for _, o := range overrides {
		s.byZone[o.ZoneID] = append(s.byZone[o.ZoneID], o)
	}
	return s
}

// ActiveOverrides returns all overrides of the zone in effect at now.
// The first element is the winner: latest ActiveFrom, then highest ID.
func (s *OverrideStore) ActiveOverrides(zoneID int, now time.Time) []models.ManualOverride {
	if s == nil {
		return nil
	}
	var active []models.ManualOverride
	for _, o := range s.byZone[zoneID] {
		if o.ActiveAt(now) {
			active = append(active, o)
		}
	}
	slices.SortFunc(active, func(a, b models.ManualOverride) int {
		if c := b.ActiveFrom.Compare(a.ActiveFrom); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return active
}

// ActiveOverride returns the winning override at now, if any.
func (s *OverrideStore) ActiveOverride(zoneID int, now time.Time) (models.ManualOverride, bool) {
	active := s.ActiveOverrides(zoneID, now)
	if len(active) == 0 {
		return models.ManualOverride{}, false
	}
	return active[0], true
}

// NextOverrideStart returns the override with the earliest ActiveFrom strictly after now.
// Ties go to the lowest ID.
func (s *OverrideStore) NextOverrideStart(zoneID int, now time.Time) (models.ManualOverride, bool) {
	if s == nil {
		return models.ManualOverride{}, false
	}
	var (
		next  models.ManualOverride
		found bool
	)
	for _, o := range s.byZone[zoneID] {
		if !o.ActiveFrom.After(now) {
			continue
		}
		if !found || o.ActiveFrom.Before(next.ActiveFrom) || (o.ActiveFrom.Equal(next.ActiveFrom) && o.ID < next.ID) {
			next, found = o, true
		}
	}
	return next, found
}

// All returns the zone's overrides in insertion order.
func (s *OverrideStore) All(zoneID int) []models.ManualOverride {
	if s == nil {
		return nil
	}
	return slices.Clone(s.byZone[zoneID])
}
