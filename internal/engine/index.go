// Package engine resolves which temperature a zone should be heated to.
//
// Everything in this package is a pure function of plain models: schedules, overrides,
// an instant and an injected fallback temperature. Nothing here reads storage or the clock.
package engine

import (
	"cmp"
	"slices"

	"zone_heating/internal/models"
)

const daysPerWeek = 7

// ScheduleIndex groups schedules by zone and declared weekday.
// Each bucket is ordered by precedence: priority asc, start asc, id asc.
type ScheduleIndex struct {
	byZone map[int]*[daysPerWeek][]models.Schedule
}

// NewScheduleIndex indexes schedules. Rows with an out-of-range weekday are ignored.
func NewScheduleIndex(schedules []models.Schedule) *ScheduleIndex {
	x := &ScheduleIndex{byZone: make(map[int]*[daysPerWeek][]models.Schedule)}
	for _, s := range schedules {
		if !s.DayOfWeek.Valid() {
			continue
		}
		days, ok := x.byZone[s.ZoneID]
		if !ok {
			days = new([daysPerWeek][]models.Schedule)
			x.byZone[s.ZoneID] = days
		}
		days[s.DayOfWeek] = append(days[s.DayOfWeek], s)
	}
	for _, days := range x.byZone {
		for d := range days {
			slices.SortStableFunc(days[d], compareSchedules)
		}
	}
	return x
}

// WindowsFor returns the zone's windows declared on day, in precedence order.
func (x *ScheduleIndex) WindowsFor(zoneID int, day models.Weekday) []models.Schedule {
	if x == nil || !day.Valid() {
		return nil
	}
	days, ok := x.byZone[zoneID]
	if !ok {
		return nil
	}
	return slices.Clone(days[day])
}

// All returns every window of the zone, Monday first.
func (x *ScheduleIndex) All(zoneID int) []models.Schedule {
	var out []models.Schedule
	for d := models.Monday; d <= models.Sunday; d++ {
		out = append(out, x.WindowsFor(zoneID, d)...)
	}
	return out
}

// Contains is the time-of-day containment test of a window, ignoring its weekday.
// End is exclusive; overnight windows wrap around midnight; zero-width windows never match.
func Contains(w models.Schedule, tod models.TimeOfDay) bool {
	switch {
	case w.Degenerate():
		return false
	case w.Overnight():
		return tod >= w.Start || tod < w.End
	default:
		return tod >= w.Start && tod < w.End
	}
}

// compareSchedules orders by precedence: lower priority value, then earlier start, then lower ID.
func compareSchedules(a, b models.Schedule) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
