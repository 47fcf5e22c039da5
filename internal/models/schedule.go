package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Weekday counts days from Monday (0) to Sunday (6).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const daysPerWeek = 7

var weekdayNames = [daysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf returns the Monday-based weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % daysPerWeek)
}

// Valid reports whether d is in 0..6.
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// Prev returns the day before d.
func (d Weekday) Prev() Weekday { return (d + daysPerWeek - 1) % daysPerWeek }

// DaysUntil returns how many days lie between d and other going forward, in 0..6.
func (d Weekday) DaysUntil(other Weekday) int {
	return ((int(other)-int(d))%daysPerWeek + daysPerWeek) % daysPerWeek
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// TimeOfDay is a wall-clock time without a date, in seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

var errInvalidTimeOfDay = errors.New("invalid time of day")

// NewTimeOfDay builds a TimeOfDay from its clock components.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf returns the wall-clock part of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Clock())
}

// ParseTimeOfDay accepts "15:04:05" and "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	ts, err := time.Parse("15:04:05", s)
	if err != nil {
		ts, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", errInvalidTimeOfDay, s, err)
	}
	return TimeOfDayOf(ts), nil
}

// Clock returns the hour, minute and second of t.
func (t TimeOfDay) Clock() (hour, minute, second int) {
	s := int(t)
	return s / 3600, (s % 3600) / 60, s % 60
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < secondsPerDay }

// On returns the instant at time t on the calendar day of date shifted by dayOffset days,
// in date's location.
func (t TimeOfDay) On(date time.Time, dayOffset int) time.Time {
	h, m, s := t.Clock()
	y, mo, d := date.Date()
	return time.Date(y, mo, d+dayOffset, h, m, s, 0, date.Location())
}

func (t TimeOfDay) String() string {
	h, m, s := t.Clock()
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// MarshalText serves both JSON and YAML.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	v, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Value stores the time as "HH:MM:SS" text.
func (t TimeOfDay) Value() (driver.Value, error) {
	h, m, s := t.Clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", errInvalidTimeOfDay, src)
	}
}

// Schedule is a weekly recurring window for one zone.
// Lower Priority values take precedence.
type Schedule struct {
	ID          int       `json:"id"`
	ZoneID      int       `json:"zone_id"`
	DayOfWeek   Weekday   `json:"day_of_week"`
	Start       TimeOfDay `json:"start_time"`
	End         TimeOfDay `json:"end_time"`
	TargetTempC float64   `json:"target_temp_c"`
	Priority    int       `json:"priority"`
}

// Overnight reports whether the window spans midnight.
func (s Schedule) Overnight() bool { return s.End < s.Start }

// Degenerate reports a zero-width window, which is never active.
func (s Schedule) Degenerate() bool { return s.End == s.Start }
