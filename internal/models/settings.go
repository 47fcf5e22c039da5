package models

import (
	"math"
	"time"
)

// Accepted range for the eco temperature.
const (
	MinEcoTempC = 5.0
	MaxEcoTempC = 20.0
)

// Settings is the single system-wide settings row.
type Settings struct {
	EcoTempC  float64   `json:"eco_temp_c"` // fallback target when nothing else applies
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidEcoTemp reports whether v is an acceptable eco temperature.
func ValidEcoTemp(v float64) bool {
	return !math.IsNaN(v) && v >= MinEcoTempC && v <= MaxEcoTempC
}
