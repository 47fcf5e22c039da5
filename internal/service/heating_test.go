package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/logger"
	"zone_heating/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHeatingService_Resolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		now        time.Time
		eco        *models.Settings
		zoneID     int
		wantTarget float64
		wantSource models.Source
	}{
		{name: "morning window", now: monday(8, 0), zoneID: 1, wantTarget: 21, wantSource: models.SourceSchedule},
		{name: "window end is exclusive", now: monday(9, 0), zoneID: 1, wantTarget: 16, wantSource: models.SourceFallback},
		{name: "overnight before midnight", now: monday(23, 30), zoneID: 1, wantTarget: 18, wantSource: models.SourceSchedule},
		{name: "overnight after midnight", now: monday(24+5, 0), zoneID: 1, wantTarget: 18, wantSource: models.SourceSchedule},
		{
			name:       "saved eco temperature",
			now:        monday(12, 0),
			eco:        &models.Settings{EcoTempC: 15.5},
			zoneID:     1,
			wantTarget: 15.5,
			wantSource: models.SourceFallback,
		},
		{name: "other zone", now: monday(12, 0), zoneID: 2, wantTarget: 19, wantSource: models.SourceSchedule},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture()
			f.now = tc.now
			f.settings.stored = tc.eco

			res, err := f.service().Resolve(context.Background(), tc.zoneID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.TargetTempC != tc.wantTarget || res.Source != tc.wantSource {
				t.Fatalf("got %v/%s, want %v/%s", res.TargetTempC, res.Source, tc.wantTarget, tc.wantSource)
			}
		})
	}
}

func TestHeatingService_UnknownZone(t *testing.T) {
	svc := newFixture().service()
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, 42); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("Resolve: want ErrZoneNotFound, got %v", err)
	}
	if _, err := svc.NextEvent(ctx, 42); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("NextEvent: want ErrZoneNotFound, got %v", err)
	}
	if _, err := svc.AdjustOverride(ctx, 42, 1); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("AdjustOverride: want ErrZoneNotFound, got %v", err)
	}
}

func TestHeatingService_SettingsFailure(t *testing.T) {
	f := newFixture()
	f.settings.loadErr = errors.New("db down")

	if _, err := f.service().Resolve(context.Background(), 1); err == nil {
		t.Fatalf("expected error when settings cannot be loaded")
	}
}

func TestHeatingService_NextEventAndTarget(t *testing.T) {
	f := newFixture()
	svc := f.service()
	ctx := context.Background()

	ev, err := svc.NextEvent(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev == nil || ev.Kind != engine.ScheduleEnd || !ev.Time.Equal(monday(9, 0)) {
		t.Fatalf("want schedule_end at 09:00, got %+v", ev)
	}

	// the window ending carries no target, so the current one is reported
	next, err := svc.NextTarget(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 21 {
		t.Fatalf("next target: want 21, got %v", next)
	}

	f.now = monday(12, 0)
	next, err = svc.NextTarget(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 18 {
		t.Fatalf("next target at noon: want 18, got %v", next)
	}
}

func TestHeatingService_NextEvent_None(t *testing.T) {
	f := newFixture()
	f.schedules.rows = nil

	ev, err := f.service().NextEvent(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev != nil {
		t.Fatalf("want no event, got %+v", ev)
	}
}

func TestHeatingService_Upcoming(t *testing.T) {
	f := newFixture()

	events, err := f.service().Upcoming(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		at   time.Time
		kind engine.EventKind
	}{
		{monday(9, 0), engine.ScheduleEnd},
		{monday(22, 0), engine.ScheduleStart},
		{monday(24+6, 0), engine.ScheduleEnd},
	}
	if len(events) != len(want) {
		t.Fatalf("want %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		if !events[i].Time.Equal(w.at) || events[i].Kind != w.kind {
			t.Errorf("event %d: want %s at %v, got %s at %v", i, w.kind, w.at, events[i].Kind, events[i].Time)
		}
	}
}

func TestHeatingService_Statuses(t *testing.T) {
	f := newFixture()

	got, err := f.service().Statuses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 statuses, got %d", len(got))
	}
	if got[0].Zone.Name != "Bedroom" || got[0].TargetTempC != 21 || got[0].ActiveSchedule == nil || got[0].ActiveSchedule.ID != 1 {
		t.Errorf("bedroom status: %+v", got[0])
	}
	if got[1].Zone.Name != "Hall" || got[1].TargetTempC != 19 || got[1].NextEvent == nil {
		t.Errorf("hall status: %+v", got[1])
	}
	if !got[0].ResolvedAt.Equal(f.now) {
		t.Errorf("resolved at: want %v, got %v", f.now, got[0].ResolvedAt)
	}
}

func TestHeatingService_AdjustOverride_CreatesOverride(t *testing.T) {
	f := newFixture()
	f.cache.data[dashboardKey] = []byte("[]")

	res, err := f.service().AdjustOverride(context.Background(), 1, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created || res.Clamped || res.NewTargetC != 22.5 || res.ZoneID != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(f.overrides.created) != 1 {
		t.Fatalf("want one created override, got %d", len(f.overrides.created))
	}
	ov := f.overrides.created[0]
	if ov.ActiveUntil != nil || !ov.ActiveFrom.Equal(f.now) || ov.TargetTempC != 22.5 {
		t.Errorf("unexpected override: %+v", ov)
	}
	if res.Override.ID != ov.ID {
		t.Errorf("result must carry the stored id, got %d want %d", res.Override.ID, ov.ID)
	}
	if _, cached := f.cache.data[dashboardKey]; cached {
		t.Errorf("dashboard cache must be invalidated")
	}
	if len(f.metrics.adjustments) != 1 || !f.metrics.adjustments[0] {
		t.Errorf("adjustment metric: %v", f.metrics.adjustments)
	}

	// the override now wins over the schedule
	r, err := f.service().Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Source != models.SourceManual || r.TargetTempC != 22.5 {
		t.Fatalf("want manual 22.5, got %s %v", r.Source, r.TargetTempC)
	}
}

func TestHeatingService_AdjustOverride_UpdatesActive(t *testing.T) {
	f := newFixture()
	f.overrides.rows = []models.ManualOverride{
		{ID: 7, ZoneID: 1, TargetTempC: 23, ActiveFrom: monday(7, 30)},
	}

	res, err := f.service().AdjustOverride(context.Background(), 1, -0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created || res.Override.ID != 7 {
		t.Fatalf("want update of override 7, got %+v", res)
	}
	if res.NewTargetC != 22.8 {
		t.Fatalf("new target must be rounded to 0.1: got %v", res.NewTargetC)
	}
	if len(f.overrides.updated) != 1 || !f.overrides.updated[0].ActiveFrom.Equal(f.now) {
		t.Fatalf("active override must be re-stamped at now: %+v", f.overrides.updated)
	}
	if len(f.overrides.created) != 0 {
		t.Fatalf("no override must be created")
	}
}

func TestHeatingService_AdjustOverride_Clamps(t *testing.T) {
	f := newFixture()

	res, err := f.service().AdjustOverride(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Clamped || res.NewTargetC != engine.DefaultLimits.MaxC {
		t.Fatalf("want clamped to %v, got %+v", engine.DefaultLimits.MaxC, res)
	}

	f.now = monday(12, 0)
	res, err = f.service().AdjustOverride(context.Background(), 2, -40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Clamped || res.NewTargetC != engine.DefaultLimits.MinC {
		t.Fatalf("want clamped to %v, got %+v", engine.DefaultLimits.MinC, res)
	}
}

func TestHeatingService_AdjustOverride_InvalidDelta(t *testing.T) {
	for _, delta := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		f := newFixture()
		_, err := f.service().AdjustOverride(context.Background(), 1, delta)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("delta %v: want ErrInvalidArgument, got %v", delta, err)
		}
		if len(f.overrides.created)+len(f.overrides.updated) != 0 {
			t.Fatalf("delta %v: state must not change", delta)
		}
	}
}

func TestHeatingService_RecordMeasurement(t *testing.T) {
	f := newFixture()
	svc := f.service()
	ctx := context.Background()

	if err := svc.RecordMeasurement(ctx, 4, 19.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.zones.zones[1].CurrentTempC; got != 19.5 {
		t.Fatalf("bedroom temperature: want 19.5, got %v", got)
	}
	if err := svc.RecordMeasurement(ctx, 9, 19.5); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("unknown pin: want ErrZoneNotFound, got %v", err)
	}
	if err := svc.RecordMeasurement(ctx, 4, math.NaN()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NaN: want ErrInvalidArgument, got %v", err)
	}
}

func TestHeatingService_WarnsOnOverlappingOverrides(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture()
	f.overrides.rows = []models.ManualOverride{
		{ID: 1, ZoneID: 1, TargetTempC: 20, ActiveFrom: monday(6, 0)},
		{ID: 2, ZoneID: 1, TargetTempC: 24, ActiveFrom: monday(7, 0)},
	}
	opts := f.options()
	opts.Log = &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	res, err := NewService(f.repos(), opts).Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ActiveOverride == nil || res.ActiveOverride.ID != 2 {
		t.Fatalf("latest override must win, got %+v", res.ActiveOverride)
	}
	entries := logs.FilterMessage("overlapping manual overrides").All()
	if len(entries) != 1 {
		t.Fatalf("want one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["active"]; got != int64(2) {
		t.Fatalf("active count: want 2, got %v (%T)", got, got)
	}
}
