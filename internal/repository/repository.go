package repository

import (
	"context"
	"database/sql"
	"time"

	"eld_tracker/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// DriverRepo persists driver identity and the cached cycle-hours field.
type DriverRepo interface {
	Create(ctx context.Context, d models.Driver) error
	GetByID(ctx context.Context, id string) (*models.Driver, error)
}

// EventRepo is the Event Store: append-only, time-ordered duty status events
// per driver, with read-your-writes consistency for a single driver.
type EventRepo interface {
	History(ctx context.Context, driverID string, from, to time.Time) ([]models.DutyStatusEvent, error)
	Last(ctx context.Context, driverID string) (*models.DutyStatusEvent, error)
	Get(ctx context.Context, driverID, eventID string) (*models.DutyStatusEvent, error)

	// CommitTransition appends an event together with its derived violations,
	// the driver's refreshed cycle-hours cache and the stale marks for
	// affected daily logs, in one transaction: all or nothing.
	CommitTransition(ctx context.Context, e models.DutyStatusEvent, violations []models.HOSViolation, cycleHours float64, fromLogDate string) error

	// Amend rewrites status/location/remarks of an existing event and marks
	// summaries from fromLogDate onward stale, in one transaction.
	Amend(ctx context.Context, e models.DutyStatusEvent, fromLogDate string) error
}

// ViolationRepo reads and resolves the append-only violation records.
type ViolationRepo interface {
	List(ctx context.Context, driverID string, from, to time.Time) ([]models.HOSViolation, error)
	Resolve(ctx context.Context, id string, at time.Time) error
}

// CachedDailyLog is a stored summary plus its staleness flag. A stale
// summary is never served; the logbook service regenerates it first.
type CachedDailyLog struct {
	Summary models.DailyLogSummary
	Stale   bool
}

type DailyLogRepo interface {
	Get(ctx context.Context, driverID, logDate string) (*CachedDailyLog, error)
	// Upsert stores a regenerated summary, clearing the stale flag. It
	// reports whether a new row was created (false means updated in place).
	Upsert(ctx context.Context, s models.DailyLogSummary) (created bool, err error)
}

type Repository struct {
	Drivers    DriverRepo
	Events     EventRepo
	Violations ViolationRepo
	DailyLogs  DailyLogRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Drivers:    NewDriverSQLite(db),
		Events:     NewEventSQLite(db),
		Violations: NewViolationSQLite(db),
		DailyLogs:  NewDailyLogSQLite(db),
		Auth:       NewUserRepository(db),
	}
}
