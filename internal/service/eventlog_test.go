package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"zone_heating/internal/models"
)

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	if got := normalizeToUTC(time.Time{}); !got.IsZero() {
		t.Fatalf("zero time must stay zero, got %v", got)
	}
	in := mustTimeIn(time.FixedZone("UTC+3", 3*3600), 2025, time.August, 1, 12, 34, 56)
	got := normalizeToUTC(in)
	want := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC)
	if got.Location() != time.UTC || !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func Test_normalizeFilter(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	cases := []struct {
		name       string
		in         LogFilter
		wantSource models.Source
		wantLimit  int
		wantErr    bool
	}{
		{name: "empty filter", in: LogFilter{}},
		{name: "source is normalized", in: LogFilter{Source: "  Manual "}, wantSource: models.SourceManual},
		{name: "unknown source", in: LogFilter{Source: "boost"}, wantErr: true},
		{name: "fallback is never logged", in: LogFilter{Source: "fallback"}, wantErr: true},
		{name: "inverted range", in: LogFilter{From: to, To: from}, wantErr: true},
		{name: "equal bounds", in: LogFilter{From: from, To: from}},
		{name: "negative limit", in: LogFilter{Limit: -1}, wantErr: true},
		{name: "negative zone", in: LogFilter{ZoneID: -3}, wantErr: true},
		{name: "limit is capped", in: LogFilter{Limit: maxLogLimit + 1}, wantLimit: maxLogLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := normalizeFilter(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("want ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Source != tc.wantSource || got.Limit != tc.wantLimit {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestEventLogService_List(t *testing.T) {
	repo := &logRepoStub{listResp: []models.TemperatureLog{{ID: "a", ZoneID: 1}}}
	svc := NewEventLogService(repo)

	from := mustTimeIn(time.FixedZone("UTC+2", 2*3600), 2025, time.January, 6, 10, 0, 0)
	got, err := svc.List(context.Background(), LogFilter{ZoneID: 1, Source: "schedule", From: from, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected result: %+v", got)
	}
	q := repo.gotFilter
	if q.ZoneID != 1 || q.Source != models.SourceSchedule || q.Limit != 10 || q.From.Location() != time.UTC {
		t.Fatalf("unexpected repository query: %+v", q)
	}

	if _, err := svc.List(context.Background(), LogFilter{Source: "boost"}); err == nil {
		t.Fatalf("expected error")
	}
	if repo.calls != 1 {
		t.Fatalf("invalid filters must not reach the repository")
	}
}
