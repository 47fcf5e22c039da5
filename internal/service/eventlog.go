package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zone_heating/internal/models"
	"zone_heating/internal/repository"
)

const maxLogLimit = 10000

// LogFilter narrows a temperature log listing. Zero values mean "no filter".
type LogFilter struct {
	ZoneID int
	Source string
	From   time.Time
	To     time.Time
	Limit  int
}

type EventLogService struct {
	logRepo repository.LogRepo
}

func NewEventLogService(logRepo repository.LogRepo) *EventLogService {
	return &EventLogService{logRepo: logRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeFilter validates f and converts it to a repository query.
func normalizeFilter(f LogFilter) (repository.LogFilter, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.LogFilter{}, fmt.Errorf("%w: %w", ErrInvalidArgument, errInvalidTimeRange)
	}

	source := models.Source(strings.ToLower(strings.TrimSpace(f.Source)))
	if source != "" && !source.Logged() {
		return repository.LogFilter{}, fmt.Errorf("%w: unknown source %q", ErrInvalidArgument, f.Source)
	}
	if f.ZoneID < 0 || f.Limit < 0 {
		return repository.LogFilter{}, fmt.Errorf("%w: zone and limit must not be negative", ErrInvalidArgument)
	}

	limit := f.Limit
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	return repository.LogFilter{ZoneID: f.ZoneID, Source: source, From: from, To: to, Limit: limit}, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.TemperatureLog, error) {
	q, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.logRepo.List(ctx, q)
}
