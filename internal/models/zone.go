package models

// Zone is an independently controlled heating area.
type Zone struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Pin          *int    `json:"pin,omitempty"`           // hardware pin, unique when set
	CurrentTempC float64 `json:"current_temp_c"`          // measured, written by hardware
	TargetTempC  float64 `json:"target_temp_c"`           // last applied target
	TargetSource Source  `json:"target_source,omitempty"` // source of the last applied target
}
