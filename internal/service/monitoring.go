package service

import (
	"context"

	"zone_heating/internal/logger"
)

type statusLister interface {
	Statuses(ctx context.Context) ([]ZoneStatus, error)
}

type MonitoringService struct {
	statuses statusLister
	cache    StatusCache
	log      *logger.Logger
}

func NewMonitoringService(statuses statusLister, cache StatusCache, log *logger.Logger) *MonitoringService {
	return &MonitoringService{statuses: statuses, cache: cache, log: log}
}

// Dashboard returns the status of every zone. A cached list written by the driver is
// preferred; cache failures fall through to a fresh resolution.
func (s *MonitoringService) Dashboard(ctx context.Context) ([]ZoneStatus, error) {
	var cached []ZoneStatus
	hit, err := s.cache.Get(ctx, dashboardKey, &cached)
	if err != nil {
		s.log.Warnw("dashboard cache read failed", "err", err)
	}
	if hit && err == nil {
		return cached, nil
	}

	out, err := s.statuses.Statuses(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, dashboardKey, out); err != nil {
		s.log.Warnw("dashboard cache write failed", "err", err)
	}
	return out, nil
}
