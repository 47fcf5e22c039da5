package models

import "time"

// Source is the reason a target temperature is in effect.
type Source string

const (
	SourceManual   Source = "manual"
	SourceSchedule Source = "schedule"
	SourceFallback Source = "fallback"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceSchedule, SourceFallback:
		return true
	}
	return false
}

// Logged reports whether targets from s are recorded in the temperature log.
// Fallback targets are applied but never logged.
func (s Source) Logged() bool {
	return s == SourceManual || s == SourceSchedule
}

// TemperatureLog is a single applied-target record written by the driver.
// Source is always schedule or manual.
type TemperatureLog struct {
	ID         string    `json:"id"`
	ZoneID     int       `json:"zone_id"`
	TempC      float64   `json:"temp_c"`
	Source     Source    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}
