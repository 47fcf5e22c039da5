package models

import "time"

// ManualOverride is a user instruction that supersedes scheduling for a zone.
// ActiveUntil == nil means the override never expires.
type ManualOverride struct {
	ID          int        `json:"id"`
	ZoneID      int        `json:"zone_id"`
	TargetTempC float64    `json:"target_temp_c"`
	ActiveFrom  time.Time  `json:"active_from"`
	ActiveUntil *time.Time `json:"active_until,omitempty"`
}

// ActiveAt reports whether the override is in effect at t.
// The interval is half-open: [ActiveFrom, ActiveUntil).
func (o ManualOverride) ActiveAt(t time.Time) bool {
	if t.Before(o.ActiveFrom) {
		return false
	}
	return o.ActiveUntil == nil || t.Before(*o.ActiveUntil)
}
