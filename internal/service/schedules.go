package service

import (
	"cmp"
	"context"
	"slices"

	"zone_heating/internal/engine"
	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

// DaySchedule lists the windows declared on one weekday, in precedence order.
type DaySchedule struct {
	Day     models.Weekday    `json:"day"`
	Name    string            `json:"name"`
	Windows []models.Schedule `json:"windows"`
}

type WeeklySchedule struct {
	Zone     models.Zone   `json:"zone"`
	Days     []DaySchedule `json:"days"`
	EcoTempC float64       `json:"eco_temp_c"`
}

// ScheduleGroup collects windows that share times, target and priority.
type ScheduleGroup struct {
	Start       models.TimeOfDay `json:"start_time"`
	End         models.TimeOfDay `json:"end_time"`
	TargetTempC float64          `json:"target_temp_c"`
	Priority    int              `json:"priority"`
	Days        []models.Weekday `json:"days"`
	ZoneIDs     []int            `json:"zone_ids"`
}

type ScheduleService struct {
	loader    snapshotLoader
	schedules repository.ScheduleRepo
	settings  fallbackSource
}

func NewScheduleService(zones repository.ZoneRepo, schedules repository.ScheduleRepo, settings fallbackSource) *ScheduleService {
	return &ScheduleService{
		loader:    snapshotLoader{zones: zones, schedules: schedules},
		schedules: schedules,
		settings:  settings,
	}
}

// Weekly returns all seven days, Monday first. Days without windows have an empty list.
func (s *ScheduleService) Weekly(ctx context.Context, zoneID int) (WeeklySchedule, error) {
	z, err := s.loader.zone(ctx, zoneID)
	if err != nil {
		return WeeklySchedule{}, err
	}
	rows, err := s.schedules.ListForZone(ctx, zoneID)
	if err != nil {
		return WeeklySchedule{}, err
	}
	eco, err := s.settings.FallbackTemp(ctx)
	if err != nil {
		return WeeklySchedule{}, err
	}

	idx := engine.NewScheduleIndex(rows)
	days := make([]DaySchedule, 0, 7)
	for d := models.Monday; d <= models.Sunday; d++ {
		windows := idx.WindowsFor(zoneID, d)
		if windows == nil {
			windows = []models.Schedule{}
		}
		days = append(days, DaySchedule{Day: d, Name: d.String(), Windows: windows})
	}
	return WeeklySchedule{Zone: z, Days: days, EcoTempC: eco}, nil
}

type groupKey struct {
	start, end models.TimeOfDay
	target     float64
	priority   int
}

// Grouped merges identical windows across days and zones.
func (s *ScheduleService) Grouped(ctx context.Context) ([]ScheduleGroup, error) {
	rows, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[groupKey]*ScheduleGroup)
	for _, r := range rows {
		k := groupKey{start: r.Start, end: r.End, target: r.TargetTempC, priority: r.Priority}
		g, ok := groups[k]
		if !ok {
			g = &ScheduleGroup{Start: r.Start, End: r.End, TargetTempC: r.TargetTempC, Priority: r.Priority}
			groups[k] = g
		}
		if !slices.Contains(g.Days, r.DayOfWeek) {
			g.Days = append(g.Days, r.DayOfWeek)
		}
		if !slices.Contains(g.ZoneIDs, r.ZoneID) {
			g.ZoneIDs = append(g.ZoneIDs, r.ZoneID)
		}
	}

	out := make([]ScheduleGroup, 0, len(groups))
	for _, g := range groups {
		slices.Sort(g.Days)
		slices.Sort(g.ZoneIDs)
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b ScheduleGroup) int {
		return cmp.Or(
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.End, b.End),
			cmp.Compare(a.Priority, b.Priority),
			cmp.Compare(a.TargetTempC, b.TargetTempC),
		)
	})
	return out, nil
}
