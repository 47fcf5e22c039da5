package engine

import (
	"slices"
	"time"

	"zone_heating/internal/models"
)

// EventKind names a state transition of a zone.
type EventKind string

const (
	ManualEnd     EventKind = "manual_end"
	ManualStart   EventKind = "manual_start"
	ScheduleEnd   EventKind = "schedule_end"
	ScheduleStart EventKind = "schedule_start"
)

// rank orders events that share an instant. Manual transitions come first.
func (k EventKind) rank() int {
	switch k {
	case ManualEnd:
		return 0
	case ManualStart:
		return 1
	case ScheduleEnd:
		return 2
	default:
		return 3
	}
}

// Event is an upcoming change. NewTarget is only set for *_start events: after an *_end event
// the zone falls back to whatever rule applies next, which callers must resolve again.
type Event struct {
	Time      time.Time `json:"time"`
	Kind      EventKind `json:"kind"`
	NewTarget *float64  `json:"new_target,omitempty"`
}

func compareEvents(a, b Event) int {
	if c := a.Time.Compare(b.Time); c != 0 {
		return c
	}
	return a.Kind.rank() - b.Kind.rank()
}

// NextEvent returns the earliest transition strictly after now.
func NextEvent(snap Snapshot, now time.Time) (Event, bool) {
	var candidates []Event

	if ov, ok := snap.Overrides.ActiveOverride(snap.Zone.ID, now); ok && ov.ActiveUntil != nil {
		candidates = append(candidates, Event{Time: *ov.ActiveUntil, Kind: ManualEnd})
	}
	if ov, ok := snap.Overrides.NextOverrideStart(snap.Zone.ID, now); ok {
		candidates = append(candidates, Event{Time: ov.ActiveFrom, Kind: ManualStart, NewTarget: ptr(ov.TargetTempC)})
	}
	if m, ok := currentSchedule(snap, now); ok {
		candidates = append(candidates, Event{Time: m.end, Kind: ScheduleEnd})
	}
	if ev, ok := nextScheduleStart(snap, now); ok {
		candidates = append(candidates, ev)
	}

	var (
		next  Event
		found bool
	)
	for _, ev := range candidates {
		if !ev.Time.After(now) {
			continue
		}
		if !found || compareEvents(ev, next) < 0 {
			next, found = ev, true
		}
	}
	return next, found
}

// NextTarget is the target announced by the next event, or the current target when the next
// event does not carry one.
func NextTarget(snap Snapshot, now time.Time, fallback float64) float64 {
	if ev, ok := NextEvent(snap, now); ok && ev.NewTarget != nil {
		return *ev.NewTarget
	}
	return Resolve(snap, now, fallback).TargetTempC
}

// nextScheduleStart finds the earliest window start within the coming week.
// A window that already started today counts from next week.
func nextScheduleStart(snap Snapshot, now time.Time) (Event, bool) {
	today := models.WeekdayOf(now)
	tod := models.TimeOfDayOf(now)

	var (
		next       Event
		nextWindow models.Schedule
		found      bool
	)
	for _, w := range snap.Schedules.All(snap.Zone.ID) {
		if w.Degenerate() {
			continue
		}
		daysAhead := today.DaysUntil(w.DayOfWeek)
		if daysAhead == 0 && w.Start <= tod {
			daysAhead = daysPerWeek
		}
		at := w.Start.On(now, daysAhead)
		if !found || at.Before(next.Time) || (at.Equal(next.Time) && compareSchedules(w, nextWindow) < 0) {
			next = Event{Time: at, Kind: ScheduleStart, NewTarget: ptr(w.TargetTempC)}
			nextWindow, found = w, true
		}
	}
	return next, found
}

// UpcomingEvents lists every transition in (now, now+horizon], ordered by time and kind.
func UpcomingEvents(snap Snapshot, now time.Time, horizon time.Duration) []Event {
	until := now.Add(horizon)
	inRange := func(t time.Time) bool { return t.After(now) && !t.After(until) }

	var out []Event
	for _, ov := range snap.Overrides.All(snap.Zone.ID) {
		if inRange(ov.ActiveFrom) {
			out = append(out, Event{Time: ov.ActiveFrom, Kind: ManualStart, NewTarget: ptr(ov.TargetTempC)})
		}
		if ov.ActiveUntil != nil && ov.ActiveUntil.After(ov.ActiveFrom) && inRange(*ov.ActiveUntil) {
			out = append(out, Event{Time: *ov.ActiveUntil, Kind: ManualEnd})
		}
	}

	// start one day back so overnight windows from yesterday contribute their end
	days := int(horizon/(24*time.Hour)) + 1
	for offset := -1; offset <= days; offset++ {
		day := models.WeekdayOf(now.AddDate(0, 0, offset))
		for _, w := range snap.Schedules.WindowsFor(snap.Zone.ID, day) {
			if w.Degenerate() {
				continue
			}
			if start := w.Start.On(now, offset); inRange(start) {
				out = append(out, Event{Time: start, Kind: ScheduleStart, NewTarget: ptr(w.TargetTempC)})
			}
			endOffset := offset
			if w.Overnight() {
				endOffset++
			}
			if end := w.End.On(now, endOffset); inRange(end) {
				out = append(out, Event{Time: end, Kind: ScheduleEnd})
			}
		}
	}
	slices.SortStableFunc(out, compareEvents)
	return out
}

func ptr[T any](v T) *T { return &v }
