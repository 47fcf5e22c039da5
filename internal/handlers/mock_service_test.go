package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/models"
	"zone_heating/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockHeating struct {
	zones      []models.Zone
	status     service.ZoneStatus
	event      *engine.Event
	nextTarget float64
	upcoming   []engine.Event
	adjust     service.AdjustResult
	err        error

	lastZoneID  int
	lastDelta   float64
	lastHorizon time.Duration
	adjustCalls int
}

func (m *mockHeating) Zones(ctx context.Context) ([]models.Zone, error) {
	return m.zones, m.err
}
func (m *mockHeating) Resolve(ctx context.Context, zoneID int) (engine.Resolution, error) {
	m.lastZoneID = zoneID
	return engine.Resolution{TargetTempC: m.status.TargetTempC, Source: m.status.Source}, m.err
}
func (m *mockHeating) NextEvent(ctx context.Context, zoneID int) (*engine.Event, error) {
	m.lastZoneID = zoneID
	return m.event, m.err
}
func (m *mockHeating) NextTarget(ctx context.Context, zoneID int) (float64, error) {
	m.lastZoneID = zoneID
	return m.nextTarget, m.err
}
func (m *mockHeating) Upcoming(ctx context.Context, zoneID int, horizon time.Duration) ([]engine.Event, error) {
	m.lastZoneID = zoneID
	m.lastHorizon = horizon
	return m.upcoming, m.err
}
func (m *mockHeating) Status(ctx context.Context, zoneID int) (service.ZoneStatus, error) {
	m.lastZoneID = zoneID
	return m.status, m.err
}
func (m *mockHeating) Statuses(ctx context.Context) ([]service.ZoneStatus, error) {
	return []service.ZoneStatus{m.status}, m.err
}
func (m *mockHeating) AdjustOverride(ctx context.Context, zoneID int, delta float64) (service.AdjustResult, error) {
	m.adjustCalls++
	m.lastZoneID = zoneID
	m.lastDelta = delta
	return m.adjust, m.err
}
func (m *mockHeating) RecordMeasurement(ctx context.Context, pin int, tempC float64) error {
	return m.err
}

type mockMonitoring struct {
	statuses []service.ZoneStatus
	err      error
}

func (m *mockMonitoring) Dashboard(ctx context.Context) ([]service.ZoneStatus, error) {
	return m.statuses, m.err
}

type mockSchedules struct {
	weekly service.WeeklySchedule
	groups []service.ScheduleGroup
	err    error
}

func (m *mockSchedules) Weekly(ctx context.Context, zoneID int) (service.WeeklySchedule, error) {
	return m.weekly, m.err
}
func (m *mockSchedules) Grouped(ctx context.Context) ([]service.ScheduleGroup, error) {
	return m.groups, m.err
}

type mockSettings struct {
	settings models.Settings
	err      error
	lastEco  float64
}

func (m *mockSettings) GetSettings(ctx context.Context) (models.Settings, error) {
	return m.settings, m.err
}
func (m *mockSettings) UpdateEcoTemp(ctx context.Context, ecoC float64) (models.Settings, error) {
	m.lastEco = ecoC
	if m.err != nil {
		return models.Settings{}, m.err
	}
	return models.Settings{EcoTempC: ecoC}, nil
}
func (m *mockSettings) FallbackTemp(ctx context.Context) (float64, error) {
	return m.settings.EcoTempC, m.err
}

type mockEventLog struct {
	resp       []models.TemperatureLog
	err        error
	lastFilter service.LogFilter
	calls      int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.TemperatureLog, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// authedRequest builds a request carrying a bearer token accepted by mockAuth.
func authedRequest(method, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
