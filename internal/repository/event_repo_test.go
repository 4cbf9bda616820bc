package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eld_tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var eventColumns = []string{"id", "driver_id", "occurred_at", "status", "location", "remarks", "created_at", "amended_at"}

func TestHistory_ScansOrderedEvents(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	t1 := from.Add(6 * time.Hour)
	t2 := from.Add(10 * time.Hour)

	rows := sqlmock.NewRows(eventColumns).
		AddRow("e1", "d1", t1, "driving", "Tulsa, OK", "pretrip done", t1, nil).
		AddRow("e2", "d1", t2, "off_duty", nil, nil, t2, t2.Add(time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM duty_status_events").
		WithArgs("d1", fmtTime(from), fmtTime(to)).
		WillReturnRows(rows)

	got, err := repo.History(ctx(t), "d1", from, to)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 events, got %d", len(got))
	}
	if got[0].Status != models.StatusDriving || got[0].Location != "Tulsa, OK" {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	// NULL location/remarks scan to empty strings.
	if got[1].Location != "" || got[1].Remarks != "" {
		t.Fatalf("expected empty nullable fields, got %+v", got[1])
	}
	if got[1].AmendedAt == nil {
		t.Fatalf("expected amended_at populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestLast_NoRowsMeansNil(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	mock.ExpectQuery("SELECT (.+) FROM duty_status_events").
		WithArgs("d1").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Last(ctx(t), "d1")
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty history, got %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCommitTransition_WritesEverythingInOneTx(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	event := models.DutyStatusEvent{
		ID:         "e9",
		DriverID:   "d1",
		OccurredAt: now,
		Status:     models.StatusOffDuty,
		CreatedAt:  now,
	}
	violation := models.HOSViolation{
		ID:          "v1",
		DriverID:    "d1",
		Rule:        models.RuleMissingRestBreak,
		EventID:     "e9",
		OccurredAt:  now.Add(-time.Hour),
		DetectedAt:  now,
		WindowStart: now.Add(-9 * time.Hour),
		WindowEnd:   now,
		Description: "x",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO duty_status_events").
		WithArgs("e9", "d1", fmtTime(now), "off_duty", "", "", fmtTime(now)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO hos_violations").
		WithArgs("v1", "d1", models.RuleMissingRestBreak, "e9",
			fmtTime(violation.OccurredAt), fmtTime(violation.DetectedAt),
			fmtTime(violation.WindowStart), fmtTime(violation.WindowEnd), "x").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE drivers SET current_cycle_hours").
		WithArgs(9.0, sqlmock.AnyArg(), "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE daily_logs SET stale = 1").
		WithArgs("d1", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.CommitTransition(ctx(t), event, []models.HOSViolation{violation}, 9.0, "2025-03-10")
	if err != nil {
		t.Fatalf("CommitTransition: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCommitTransition_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	event := models.DutyStatusEvent{ID: "e9", DriverID: "d1", OccurredAt: now, Status: models.StatusOffDuty, CreatedAt: now}
	violation := models.HOSViolation{ID: "v1", DriverID: "d1", Rule: models.RuleMissingRestBreak, EventID: "e9",
		OccurredAt: now, DetectedAt: now, WindowStart: now, WindowEnd: now}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO duty_status_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO hos_violations").
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.CommitTransition(ctx(t), event, []models.HOSViolation{violation}, 9.0, "2025-03-10")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAmend_ZeroRowsReportsNoRows(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	event := models.DutyStatusEvent{ID: "missing", DriverID: "d1", Status: models.StatusOffDuty}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE duty_status_events SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Amend(ctx(t), event, "2025-03-10")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAmend_UpdatesAndMarksStale(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	event := models.DutyStatusEvent{
		ID:       "e1",
		DriverID: "d1",
		Status:   models.StatusOnDutyNotDriving,
		Location: "Wichita, KS",
		Remarks:  "corrected",
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE duty_status_events SET status").
		WithArgs("on_duty_not_driving", "Wichita, KS", "corrected", sqlmock.AnyArg(), "e1", "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE daily_logs SET stale = 1").
		WithArgs("d1", "2025-03-09").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	if err := repo.Amend(ctx(t), event, "2025-03-09"); err != nil {
		t.Fatalf("Amend: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
