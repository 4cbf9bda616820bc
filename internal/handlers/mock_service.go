package handlers

import (
	"context"
	"net/http"
	"time"

	"eld_tracker/internal/models"
	"eld_tracker/internal/service"

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

type mockDuty struct {
	result     service.TransitionResult
	err        error
	lastParams service.TransitionParams
	calls      int
}

func (m *mockDuty) RequestTransition(ctx context.Context, p service.TransitionParams) (service.TransitionResult, error) {
	m.calls++
	m.lastParams = p
	return m.result, m.err
}

type mockStatus struct {
	snap      models.RollingSnapshot
	err       error
	lastID    string
	lastAsOf  time.Time
	callCount int
}

func (m *mockStatus) GetRollingStatus(ctx context.Context, driverID string, asOf time.Time) (models.RollingSnapshot, error) {
	m.callCount++
	m.lastID = driverID
	m.lastAsOf = asOf
	return m.snap, m.err
}

type mockLogbook struct {
	summary       models.DailyLogSummary
	summaryErr    error
	amended       models.DutyStatusEvent
	amendErr      error
	lastLogDriver string
	lastLogDate   string
	lastAmend     service.AmendParams
}

func (m *mockLogbook) GetDailyLog(ctx context.Context, driverID, date string) (models.DailyLogSummary, error) {
	m.lastLogDriver = driverID
	m.lastLogDate = date
	return m.summary, m.summaryErr
}
func (m *mockLogbook) AmendEvent(ctx context.Context, p service.AmendParams) (models.DutyStatusEvent, error) {
	m.lastAmend = p
	return m.amended, m.amendErr
}

type mockViolations struct {
	resp       []models.HOSViolation
	listErr    error
	resolveErr error
	lastFilter service.ViolationFilter
	resolved   []string
}

func (m *mockViolations) List(ctx context.Context, f service.ViolationFilter) ([]models.HOSViolation, error) {
	m.lastFilter = f
	return m.resp, m.listErr
}
func (m *mockViolations) Resolve(ctx context.Context, id string) error {
	if m.resolveErr != nil {
		return m.resolveErr
	}
	m.resolved = append(m.resolved, id)
	return nil
}

type mockDrivers struct {
	driver     models.Driver
	createErr  error
	getErr     error
	lastCreate service.CreateDriverParams
	lastGetID  string
}

func (m *mockDrivers) Create(ctx context.Context, p service.CreateDriverParams) (models.Driver, error) {
	m.lastCreate = p
	return m.driver, m.createErr
}
func (m *mockDrivers) Get(ctx context.Context, id string) (models.Driver, error) {
	m.lastGetID = id
	return m.driver, m.getErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
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
