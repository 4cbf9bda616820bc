package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"eld_tracker/internal/models"
	"eld_tracker/internal/repository"
)

// In-memory fakes for the repository interfaces, shared by the service tests.

type fakeDriverRepo struct {
	drivers map[string]models.Driver
	getErr  error
	created []models.Driver
}

func newFakeDriverRepo(drivers ...models.Driver) *fakeDriverRepo {
	r := &fakeDriverRepo{drivers: make(map[string]models.Driver)}
	for _, d := range drivers {
		r.drivers[d.ID] = d
	}
	return r
}

func (r *fakeDriverRepo) Create(ctx context.Context, d models.Driver) error {
	r.created = append(r.created, d)
	r.drivers[d.ID] = d
	return nil
}

func (r *fakeDriverRepo) GetByID(ctx context.Context, id string) (*models.Driver, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	d, ok := r.drivers[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

type commitCall struct {
	event       models.DutyStatusEvent
	violations  []models.HOSViolation
	cycleHours  float64
	fromLogDate string
}

type amendCall struct {
	event       models.DutyStatusEvent
	fromLogDate string
}

type fakeEventRepo struct {
	events       []models.DutyStatusEvent
	commitErr    error
	commits      []commitCall
	amends       []amendCall
	historyCalls int
}

func (r *fakeEventRepo) History(ctx context.Context, driverID string, from, to time.Time) ([]models.DutyStatusEvent, error) {
	r.historyCalls++
	var out []models.DutyStatusEvent
	for _, e := range r.events {
		if e.DriverID == driverID && !e.OccurredAt.Before(from) && !e.OccurredAt.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (r *fakeEventRepo) Last(ctx context.Context, driverID string) (*models.DutyStatusEvent, error) {
	var last *models.DutyStatusEvent
	for i := range r.events {
		e := &r.events[i]
		if e.DriverID != driverID {
			continue
		}
		if last == nil || e.OccurredAt.After(last.OccurredAt) {
			last = e
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (r *fakeEventRepo) Get(ctx context.Context, driverID, eventID string) (*models.DutyStatusEvent, error) {
	for i := range r.events {
		if r.events[i].DriverID == driverID && r.events[i].ID == eventID {
			cp := r.events[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) CommitTransition(ctx context.Context, e models.DutyStatusEvent, violations []models.HOSViolation, cycleHours float64, fromLogDate string) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	r.commits = append(r.commits, commitCall{event: e, violations: violations, cycleHours: cycleHours, fromLogDate: fromLogDate})
	r.events = append(r.events, e)
	return nil
}

func (r *fakeEventRepo) Amend(ctx context.Context, e models.DutyStatusEvent, fromLogDate string) error {
	for i := range r.events {
		if r.events[i].ID == e.ID && r.events[i].DriverID == e.DriverID {
			r.events[i] = e
			r.amends = append(r.amends, amendCall{event: e, fromLogDate: fromLogDate})
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeViolationRepo struct {
	violations []models.HOSViolation
	resolveErr error
	resolved   []string
}

func (r *fakeViolationRepo) List(ctx context.Context, driverID string, from, to time.Time) ([]models.HOSViolation, error) {
	var out []models.HOSViolation
	for _, v := range r.violations {
		if v.DriverID == driverID && !v.OccurredAt.Before(from) && v.OccurredAt.Before(to) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (r *fakeViolationRepo) Resolve(ctx context.Context, id string, at time.Time) error {
	if r.resolveErr != nil {
		return r.resolveErr
	}
	r.resolved = append(r.resolved, id)
	return nil
}

type fakeDailyLogRepo struct {
	store   map[string]*repository.CachedDailyLog
	upserts []models.DailyLogSummary
}

func newFakeDailyLogRepo() *fakeDailyLogRepo {
	return &fakeDailyLogRepo{store: make(map[string]*repository.CachedDailyLog)}
}

func logKey(driverID, logDate string) string { return driverID + "/" + logDate }

func (r *fakeDailyLogRepo) Get(ctx context.Context, driverID, logDate string) (*repository.CachedDailyLog, error) {
	c, ok := r.store[logKey(driverID, logDate)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeDailyLogRepo) Upsert(ctx context.Context, s models.DailyLogSummary) (bool, error) {
	r.upserts = append(r.upserts, s)
	key := logKey(s.DriverID, s.LogDate)
	_, existed := r.store[key]
	r.store[key] = &repository.CachedDailyLog{Summary: s, Stale: false}
	return !existed, nil
}

// Test fixtures.

var testBase = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func testDriver(id, rule string) models.Driver {
	return models.Driver{
		ID:       id,
		Name:     "Test Driver",
		Timezone: "UTC",
		HOSRule:  rule,
	}
}

func seedEvent(id, driverID string, ts time.Time, status models.DutyStatus) models.DutyStatusEvent {
	e := models.DutyStatusEvent{
		ID:         id,
		DriverID:   driverID,
		OccurredAt: ts,
		Status:     status,
		CreatedAt:  ts,
	}
	if status.Working() {
		e.Location = "Tulsa, OK"
	}
	return e
}

func mustResult(t *testing.T, res TransitionResult, err error) TransitionResult {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}
