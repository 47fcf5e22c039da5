package engine

import (
	"time"

	"zone_heating/internal/models"
)

// Snapshot is a consistent view of one zone: its schedules and overrides loaded together.
type Snapshot struct {
	Zone      models.Zone
	Schedules *ScheduleIndex
	Overrides *OverrideStore
}

func NewSnapshot(zone models.Zone, schedules []models.Schedule, overrides []models.ManualOverride) Snapshot {
	return Snapshot{
		Zone:      zone,
		Schedules: NewScheduleIndex(schedules),
		Overrides: NewOverrideStore(overrides),
	}
}

// Resolution is the target temperature in effect for a zone and what caused it.
type Resolution struct {
	TargetTempC    float64                `json:"target_temp_c"`
	Source         models.Source          `json:"source"`
	ActiveSchedule *models.Schedule       `json:"active_schedule,omitempty"`
	ActiveOverride *models.ManualOverride `json:"active_override,omitempty"`

	// ActiveOverrideCount above 1 means overlapping override rows were found.
	ActiveOverrideCount int `json:"-"`
}

// Resolve computes the target for the snapshot's zone at now.
// An active override wins over schedules; fallback applies when neither matches.
func Resolve(snap Snapshot, now time.Time, fallback float64) Resolution {
	if active := snap.Overrides.ActiveOverrides(snap.Zone.ID, now); len(active) > 0 {
		ov := active[0]
		return Resolution{
			TargetTempC:         ov.TargetTempC,
			Source:              models.SourceManual,
			ActiveOverride:      &ov,
			ActiveOverrideCount: len(active),
		}
	}
	if m, ok := currentSchedule(snap, now); ok {
		s := m.schedule
		return Resolution{
			TargetTempC:    s.TargetTempC,
			Source:         models.SourceSchedule,
			ActiveSchedule: &s,
		}
	}
	return Resolution{TargetTempC: fallback, Source: models.SourceFallback}
}

// windowMatch is a schedule occurrence containing some instant, with its absolute end.
type windowMatch struct {
	schedule models.Schedule
	end      time.Time
}

// currentSchedule finds the highest precedence window containing now. Candidates are today's
// windows (an overnight one only from its start to midnight) and yesterday's overnight windows
// for the part that spills past midnight.
func currentSchedule(snap Snapshot, now time.Time) (windowMatch, bool) {
	var (
		best  windowMatch
		found bool
	)
	consider := func(s models.Schedule, end time.Time) {
		if !found || compareSchedules(s, best.schedule) < 0 {
			best, found = windowMatch{schedule: s, end: end}, true
		}
	}

	today := models.WeekdayOf(now)
	tod := models.TimeOfDayOf(now)
	for _, w := range snap.Schedules.WindowsFor(snap.Zone.ID, today) {
		switch {
		case w.Degenerate():
		case w.Overnight():
			if tod >= w.Start {
				consider(w, w.End.On(now, 1))
			}
		case Contains(w, tod):
			consider(w, w.End.On(now, 0))
		}
	}
	for _, w := range snap.Schedules.WindowsFor(snap.Zone.ID, today.Prev()) {
		if w.Overnight() && tod < w.End {
			consider(w, w.End.On(now, 0))
		}
	}
	return best, found
}
