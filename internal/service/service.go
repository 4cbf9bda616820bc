package service

import (
	"context"
	"time"

	"eld_tracker/internal/models"
	"eld_tracker/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Duty applies requested duty-status transitions: validation, look-ahead
// rule evaluation, atomic append, violation recording.
type Duty interface {
	RequestTransition(ctx context.Context, p TransitionParams) (TransitionResult, error)
}

// Status exposes read-only rolling totals for a driver at an instant.
type Status interface {
	GetRollingStatus(ctx context.Context, driverID string, asOf time.Time) (models.RollingSnapshot, error)
}

// Logbook serves per-day summaries and the explicit amendment operation that
// invalidates them.
type Logbook interface {
	GetDailyLog(ctx context.Context, driverID, date string) (models.DailyLogSummary, error)
	AmendEvent(ctx context.Context, p AmendParams) (models.DutyStatusEvent, error)
}

// Violations lists and resolves recorded breaches.
type Violations interface {
	List(ctx context.Context, f ViolationFilter) ([]models.HOSViolation, error)
	Resolve(ctx context.Context, id string) error
}

// Drivers handles onboarding and lookup.
type Drivers interface {
	Create(ctx context.Context, p CreateDriverParams) (models.Driver, error)
	Get(ctx context.Context, id string) (models.Driver, error)
}

// Service aggregates all sub-services.
type Service struct {
	Duty
	Status
	Logbook
	Violations
	Drivers
	Authorization
}

// NewService wires the repository layer into concrete services. Duty and
// Logbook share the per-driver lock registry: both mutate a driver's history,
// so writes for one driver are serialized across the two services.
func NewService(repos *repository.Repository) *Service {
	locks := newDriverLocks()
	return &Service{
		Duty:          NewDutyService(repos.Drivers, repos.Events, locks),
		Status:        NewStatusService(repos.Drivers, repos.Events),
		Logbook:       NewLogbookService(repos.Drivers, repos.Events, repos.Violations, repos.DailyLogs, locks),
		Violations:    NewViolationService(repos.Drivers, repos.Violations),
		Drivers:       NewDriverService(repos.Drivers),
		Authorization: NewAuthService(repos.Auth),
	}
}
