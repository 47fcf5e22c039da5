// Package seed loads zones, weekly schedules and overrides from a YAML file into the repositories.
//
//	settings:
//	  eco_temp_c: 17
//	zones:
//	  - name: Bedroom
//	    pin: 4
//	    schedules:
//	      - days: [weekdays]
//	        start: "07:00"
//	        end: "09:00"
//	        target_temp_c: 21
//	    overrides:
//	      - target_temp_c: 23
//	        active_from: 2025-01-06T07:00:00Z
//	        active_until: 2025-01-06T10:00:00Z
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/models"
	"zone_heating/internal/repository"

	"gopkg.in/yaml.v3"
)

var ErrInvalidFile = errors.New("invalid seed file")

type File struct {
	Settings *SettingsSpec `yaml:"settings"`
	Zones    []ZoneSpec    `yaml:"zones"`
}

type SettingsSpec struct {
	EcoTempC float64 `yaml:"eco_temp_c"`
}

type ZoneSpec struct {
	Name      string         `yaml:"name"`
	Pin       *int           `yaml:"pin"`
	Schedules []WindowSpec   `yaml:"schedules"`
	Overrides []OverrideSpec `yaml:"overrides"`
}

// WindowSpec is one weekly window repeated on every listed day. Days accept names
// ("monday", "Mon") and the groups "daily", "weekdays" and "weekend".
type WindowSpec struct {
	Days        []string         `yaml:"days"`
	Start       models.TimeOfDay `yaml:"start"`
	End         models.TimeOfDay `yaml:"end"`
	TargetTempC float64          `yaml:"target_temp_c"`
	Priority    int              `yaml:"priority"`
}

// OverrideSpec without active_until never expires.
type OverrideSpec struct {
	TargetTempC float64    `yaml:"target_temp_c"`
	ActiveFrom  time.Time  `yaml:"active_from"`
	ActiveUntil *time.Time `yaml:"active_until"`
}

// Report counts what Apply wrote. Zones whose name already exists are skipped with their
// schedules and overrides.
type Report struct {
	Zones     int
	Schedules int
	Overrides int
	Skipped   []string
	Settings  bool
}

var dayGroups = map[string][]models.Weekday{
	"daily":    {models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday, models.Saturday, models.Sunday},
	"weekdays": {models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday},
	"weekend":  {models.Saturday, models.Sunday},
}

// Load reads and validates the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, rejecting unknown keys, and validates the result.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if err := f.Validate(engine.DefaultLimits); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseDays expands day names and groups, keeping the first occurrence of each day.
func ParseDays(names []string) ([]models.Weekday, error) {
	if len(names) == 0 {
		return nil, errors.New("no days")
	}
	seen := make(map[models.Weekday]bool, 7)
	var days []models.Weekday
	add := func(d models.Weekday) {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if group, ok := dayGroups[key]; ok {
			for _, d := range group {
				add(d)
			}
			continue
		}
		d, ok := parseDay(key)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", name)
		}
		add(d)
	}
	return days, nil
}

func parseDay(key string) (models.Weekday, bool) {
	if len(key) < 3 {
		return 0, false
	}
	for d := models.Monday; d <= models.Sunday; d++ {
		full := strings.ToLower(d.String())
		if key == full || key == full[:3] {
			return d, true
		}
	}
	return 0, false
}

// Validate checks names, pins, windows and override intervals. Targets must lie within limits.
func (f *File) Validate(limits engine.Limits) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidFile, fmt.Sprintf(format, args...))
	}
	inLimits := func(v float64) bool {
		return !math.IsNaN(v) && v >= limits.MinC && v <= limits.MaxC
	}

	if f.Settings != nil && !models.ValidEcoTemp(f.Settings.EcoTempC) {
		return invalid("settings.eco_temp_c %.1f must be within %.0f..%.0f", f.Settings.EcoTempC, models.MinEcoTempC, models.MaxEcoTempC)
	}

	names := make(map[string]bool, len(f.Zones))
	pins := make(map[int]string, len(f.Zones))
	for i, z := range f.Zones {
		name := strings.TrimSpace(z.Name)
		if name == "" {
			return invalid("zones[%d]: name is required", i)
		}
		if names[name] {
			return invalid("zone %q is listed twice", name)
		}
		names[name] = true

		if z.Pin != nil {
			if *z.Pin < 0 {
				return invalid("zone %q: pin must not be negative", name)
			}
			if other, ok := pins[*z.Pin]; ok {
				return invalid("zone %q: pin %d already used by %q", name, *z.Pin, other)
			}
			pins[*z.Pin] = name
		}

		for j, w := range z.Schedules {
			if _, err := ParseDays(w.Days); err != nil {
				return invalid("zone %q schedules[%d]: %v", name, j, err)
			}
			if !w.Start.Valid() || !w.End.Valid() {
				return invalid("zone %q schedules[%d]: time outside the day", name, j)
			}
			if !inLimits(w.TargetTempC) {
				return invalid("zone %q schedules[%d]: target %.1f outside %.1f..%.1f", name, j, w.TargetTempC, limits.MinC, limits.MaxC)
			}
		}

		for j, o := range z.Overrides {
			if o.ActiveFrom.IsZero() {
				return invalid("zone %q overrides[%d]: active_from is required", name, j)
			}
			if o.ActiveUntil != nil && !o.ActiveUntil.After(o.ActiveFrom) {
				return invalid("zone %q overrides[%d]: active_until must be after active_from", name, j)
			}
			if !inLimits(o.TargetTempC) {
				return invalid("zone %q overrides[%d]: target %.1f outside %.1f..%.1f", name, j, o.TargetTempC, limits.MinC, limits.MaxC)
			}
		}
	}
	return nil
}

// Apply writes the file through repos. It is not transactional: on error, rows written so far
// remain and the report counts them.
func Apply(ctx context.Context, repos *repository.Repository, f *File) (Report, error) {
	var rep Report

	if f.Settings != nil {
		err := repos.Settings.Save(ctx, models.Settings{EcoTempC: f.Settings.EcoTempC, UpdatedAt: time.Now().UTC()})
		if err != nil {
			return rep, fmt.Errorf("save settings: %w", err)
		}
		rep.Settings = true
	}

	existing, err := repos.Zones.List(ctx)
	if err != nil {
		return rep, fmt.Errorf("list zones: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, z := range existing {
		known[z.Name] = true
	}

	for _, z := range f.Zones {
		name := strings.TrimSpace(z.Name)
		if known[name] {
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		zoneID, err := repos.Zones.Create(ctx, models.Zone{Name: name, Pin: z.Pin})
		if err != nil {
			return rep, fmt.Errorf("create zone %q: %w", name, err)
		}
		rep.Zones++

		for _, w := range z.Schedules {
			days, err := ParseDays(w.Days)
			if err != nil {
				return rep, fmt.Errorf("zone %q: %w", name, err)
			}
			for _, d := range days {
				_, err := repos.Schedules.Create(ctx, models.Schedule{
					ZoneID:      zoneID,
					DayOfWeek:   d,
					Start:       w.Start,
					End:         w.End,
					TargetTempC: w.TargetTempC,
					Priority:    w.Priority,
				})
				if err != nil {
					return rep, fmt.Errorf("create schedule for zone %q on %s: %w", name, d, err)
				}
				rep.Schedules++
			}
		}

		for _, o := range z.Overrides {
			ov := models.ManualOverride{ZoneID: zoneID, TargetTempC: o.TargetTempC, ActiveFrom: o.ActiveFrom.UTC()}
			if o.ActiveUntil != nil {
				until := o.ActiveUntil.UTC()
				ov.ActiveUntil = &until
			}
			if _, err := repos.Overrides.Create(ctx, ov); err != nil {
				return rep, fmt.Errorf("create override for zone %q: %w", name, err)
			}
			rep.Overrides++
		}
	}
	return rep, nil
}
