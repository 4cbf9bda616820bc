package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/models"
	"eld_tracker/internal/repository"
)

// historyLookback bounds how much history the engine loads per evaluation.
// Nine days covers the longest trailing window any rule inspects (the 8-day
// cycle) plus a day of slack for timezone offsets.
const historyLookback = 9 * 24 * time.Hour

// DutyService validates and applies duty-status transitions. All writes for
// one driver are serialized through the shared lock registry so the read
// history / evaluate / append sequence is atomic per driver.
type DutyService struct {
	driverRepo repository.DriverRepo
	eventRepo  repository.EventRepo
	locks      *driverLocks
}

func NewDutyService(driverRepo repository.DriverRepo, eventRepo repository.EventRepo, locks *driverLocks) *DutyService {
	return &DutyService{driverRepo: driverRepo, eventRepo: eventRepo, locks: locks}
}

// RequestTransition runs the full pipeline for a new duty-status event:
// structural validation via the state machine, look-ahead rule evaluation
// against the history with the event appended, and a single atomic commit of
// the event plus any newly detected violations. Violations never reject the
// transition; they are recorded and returned alongside the accepted event.
func (s *DutyService) RequestTransition(ctx context.Context, p TransitionParams) (TransitionResult, error) {
	mu := s.locks.forDriver(p.DriverID)
	mu.Lock()
	defer mu.Unlock()

	driver, err := s.driverRepo.GetByID(ctx, p.DriverID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("load driver %s: %w", p.DriverID, err)
	}
	if driver == nil {
		return TransitionResult{}, hos.ErrUnknownDriver
	}
	loc, err := loadLocation(driver.Timezone)
	if err != nil {
		return TransitionResult{}, err
	}

	// occurred_at is stored at second precision; comparing at the same grain
	// makes a same-second duplicate fail the ordering check here instead of
	// surfacing as a uniqueness error from the store.
	ts := p.Timestamp.UTC().Truncate(time.Second)

	last, err := s.eventRepo.Last(ctx, p.DriverID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("load last event for driver %s: %w", p.DriverID, err)
	}
	if last != nil && !ts.After(last.OccurredAt) {
		return TransitionResult{}, fmt.Errorf("%w: %s is not after last event at %s",
			hos.ErrOutOfOrderEvent, ts.Format(time.RFC3339), last.OccurredAt.Format(time.RFC3339))
	}

	current := models.StatusOffDuty
	if last != nil {
		current = last.Status
	}
	machine := hos.NewStatusMachine(current)
	if err := machine.Request(ctx, p.Status, p.Location); err != nil {
		return TransitionResult{}, err
	}

	history, err := s.eventRepo.History(ctx, p.DriverID, ts.Add(-historyLookback), ts)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("load history for driver %s: %w", p.DriverID, err)
	}

	// Pre-transition totals at the last event's instant: anything already
	// breached there must not re-fire on this transition.
	var pre hos.Totals
	if last != nil {
		pre, err = hos.Compute(history, driver.HOSRule, loc, last.OccurredAt)
		if err != nil {
			return TransitionResult{}, err
		}
	}

	event := models.DutyStatusEvent{
		ID:         uuid.NewString(),
		DriverID:   p.DriverID,
		OccurredAt: ts,
		Status:     p.Status,
		Location:   p.Location,
		Remarks:    p.Remarks,
		CreatedAt:  time.Now().UTC(),
	}

	// Look-ahead: evaluate the history as it will be once the event lands.
	lookahead := append(append([]models.DutyStatusEvent{}, history...), event)
	post, err := hos.Compute(lookahead, driver.HOSRule, loc, ts)
	if err != nil {
		return TransitionResult{}, err
	}

	violations, err := hos.Detect(*driver, lookahead, pre, post, event, event.CreatedAt)
	if err != nil {
		return TransitionResult{}, err
	}

	snap := post.Snapshot(driver.ID, driver.HOSRule)
	logDate := ts.In(loc).Format(models.LogDateLayout)
	if err := s.eventRepo.CommitTransition(ctx, event, violations, snap.CycleDutyHours, logDate); err != nil {
		return TransitionResult{}, fmt.Errorf("commit transition for driver %s: %w", p.DriverID, err)
	}

	return TransitionResult{Event: event, Snapshot: snap, Violations: violations}, nil
}

// loadLocation resolves a driver's IANA timezone, defaulting to UTC.
func loadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timezone %q", hos.ErrInconsistentHistory, tz)
	}
	return loc, nil
}
