package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/models"
	"eld_tracker/internal/repository"
)

var ErrEventNotFound = errors.New("duty status event not found")

// LogbookService serves per-day summaries from the daily-log cache,
// regenerating lazily when a summary is missing or an amendment marked it
// stale. It shares the per-driver lock registry with DutyService because both
// regeneration and amendment read-modify-write a driver's records.
type LogbookService struct {
	driverRepo    repository.DriverRepo
	eventRepo     repository.EventRepo
	violationRepo repository.ViolationRepo
	dailyLogRepo  repository.DailyLogRepo
	locks         *driverLocks
}

func NewLogbookService(
	driverRepo repository.DriverRepo,
	eventRepo repository.EventRepo,
	violationRepo repository.ViolationRepo,
	dailyLogRepo repository.DailyLogRepo,
	locks *driverLocks,
) *LogbookService {
	return &LogbookService{
		driverRepo:    driverRepo,
		eventRepo:     eventRepo,
		violationRepo: violationRepo,
		dailyLogRepo:  dailyLogRepo,
		locks:         locks,
	}
}

// GetDailyLog returns the summary for one calendar day in the driver's zone.
// A fresh cached copy is served as-is; a missing or stale one is regenerated
// from history, persisted and then served.
func (s *LogbookService) GetDailyLog(ctx context.Context, driverID, date string) (models.DailyLogSummary, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("load driver %s: %w", driverID, err)
	}
	if driver == nil {
		return models.DailyLogSummary{}, hos.ErrUnknownDriver
	}
	loc, err := loadLocation(driver.Timezone)
	if err != nil {
		return models.DailyLogSummary{}, err
	}
	day, err := time.ParseInLocation(models.LogDateLayout, date, loc)
	if err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("bad log date %q: %w", date, err)
	}

	cached, err := s.dailyLogRepo.Get(ctx, driverID, date)
	if err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("load daily log %s/%s: %w", driverID, date, err)
	}
	if cached != nil && !cached.Stale {
		return cached.Summary, nil
	}

	mu := s.locks.forDriver(driverID)
	mu.Lock()
	defer mu.Unlock()

	// Re-check under the lock: a concurrent request may have regenerated it.
	cached, err = s.dailyLogRepo.Get(ctx, driverID, date)
	if err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("load daily log %s/%s: %w", driverID, date, err)
	}
	if cached != nil && !cached.Stale {
		return cached.Summary, nil
	}

	summary, err := s.regenerate(ctx, *driver, loc, day)
	if err != nil {
		return models.DailyLogSummary{}, err
	}
	return summary, nil
}

// regenerate rebuilds one day's summary from history and stores it. Must be
// called with the driver's lock held.
func (s *LogbookService) regenerate(ctx context.Context, driver models.Driver, loc *time.Location, day time.Time) (models.DailyLogSummary, error) {
	dayEnd := day.AddDate(0, 0, 1)

	// The remaining-hours figures at end of day look back a full cycle, so
	// load history well before the day itself.
	events, err := s.eventRepo.History(ctx, driver.ID, dayEnd.Add(-historyLookback), dayEnd)
	if err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("load history for driver %s: %w", driver.ID, err)
	}
	violations, err := s.violationRepo.List(ctx, driver.ID, day, dayEnd)
	if err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("load violations for driver %s: %w", driver.ID, err)
	}

	summary, err := hos.BuildDailyLog(driver.ID, driver.HOSRule, loc, day, events, violations)
	if err != nil {
		return models.DailyLogSummary{}, err
	}
	summary.GeneratedAt = time.Now().UTC()

	if _, err := s.dailyLogRepo.Upsert(ctx, summary); err != nil {
		return models.DailyLogSummary{}, fmt.Errorf("store daily log %s/%s: %w", driver.ID, summary.LogDate, err)
	}
	return summary, nil
}

// AmendEvent corrects status, location or remarks of a recorded event. The
// timestamp is immutable, so ordering cannot be disturbed; summaries from the
// event's day onward are marked stale in the same transaction.
func (s *LogbookService) AmendEvent(ctx context.Context, p AmendParams) (models.DutyStatusEvent, error) {
	mu := s.locks.forDriver(p.DriverID)
	mu.Lock()
	defer mu.Unlock()

	driver, err := s.driverRepo.GetByID(ctx, p.DriverID)
	if err != nil {
		return models.DutyStatusEvent{}, fmt.Errorf("load driver %s: %w", p.DriverID, err)
	}
	if driver == nil {
		return models.DutyStatusEvent{}, hos.ErrUnknownDriver
	}
	loc, err := loadLocation(driver.Timezone)
	if err != nil {
		return models.DutyStatusEvent{}, err
	}

	event, err := s.eventRepo.Get(ctx, p.DriverID, p.EventID)
	if err != nil {
		return models.DutyStatusEvent{}, fmt.Errorf("load event %s: %w", p.EventID, err)
	}
	if event == nil {
		return models.DutyStatusEvent{}, ErrEventNotFound
	}

	if p.Status != "" {
		if !p.Status.Valid() {
			return models.DutyStatusEvent{}, hos.ErrInvalidStatus
		}
		event.Status = p.Status
	}
	if p.Location != nil {
		event.Location = *p.Location
	}
	if p.Remarks != nil {
		event.Remarks = *p.Remarks
	}
	if event.Status.RequiresLocation() && event.Location == "" {
		return models.DutyStatusEvent{}, hos.ErrInvalidLocation
	}

	now := time.Now().UTC()
	event.AmendedAt = &now

	logDate := event.OccurredAt.In(loc).Format(models.LogDateLayout)
	if err := s.eventRepo.Amend(ctx, *event, logDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DutyStatusEvent{}, ErrEventNotFound
		}
		return models.DutyStatusEvent{}, fmt.Errorf("amend event %s: %w", p.EventID, err)
	}
	return *event, nil
}
