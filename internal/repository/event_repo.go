package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eld_tracker/internal/models"
)

// sqliteTimeLayout is the TIMESTAMP text format the schema stores.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func fmtTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const (
	selectEventColumns = `id, driver_id, occurred_at, status, location, remarks, created_at, amended_at`

	insertEventSQL = `
		INSERT INTO duty_status_events (id, driver_id, occurred_at, status, location, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	insertViolationSQL = `
		INSERT INTO hos_violations (id, driver_id, rule, event_id, occurred_at, detected_at, window_start, window_end, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateCycleHoursSQL = `UPDATE drivers SET current_cycle_hours = ?, updated_at = ? WHERE id = ?`

	markLogsStaleSQL = `UPDATE daily_logs SET stale = 1 WHERE driver_id = ? AND log_date >= ?`

	amendEventSQL = `
		UPDATE duty_status_events SET status = ?, location = ?, remarks = ?, amended_at = ?
		WHERE id = ? AND driver_id = ?
	`
)

// History returns the driver's events within [from, to], ordered ascending.
func (r *EventSQLite) History(ctx context.Context, driverID string, from, to time.Time) ([]models.DutyStatusEvent, error) {
	q := `SELECT ` + selectEventColumns + `
		FROM duty_status_events
		WHERE driver_id = ? AND occurred_at >= ? AND occurred_at <= ?
		ORDER BY occurred_at ASC`

	rows, err := r.db.QueryContext(ctx, q, driverID, fmtTime(from), fmtTime(to))
	if err != nil {
		return nil, fmt.Errorf("select history for driver %q: %w", driverID, err)
	}
	defer rows.Close()

	out := make([]models.DutyStatusEvent, 0, 64)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Last returns the driver's most recent event, or nil when none exist.
func (r *EventSQLite) Last(ctx context.Context, driverID string) (*models.DutyStatusEvent, error) {
	q := `SELECT ` + selectEventColumns + `
		FROM duty_status_events
		WHERE driver_id = ?
		ORDER BY occurred_at DESC LIMIT 1`

	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select last event for driver %q: %w", driverID, err)
	}
	return &ev, nil
}

// Get fetches one event by id, scoped to the driver. Returns (nil, nil) when
// not found.
func (r *EventSQLite) Get(ctx context.Context, driverID, eventID string) (*models.DutyStatusEvent, error) {
	q := `SELECT ` + selectEventColumns + `
		FROM duty_status_events
		WHERE id = ? AND driver_id = ?`

	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, eventID, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select event %q: %w", eventID, err)
	}
	return &ev, nil
}

// CommitTransition writes the event, its violations, the cycle-hours cache
// and the stale marks atomically. A failure on any statement rolls back all
// of them, leaving the store untouched.
func (r *EventSQLite) CommitTransition(ctx context.Context, e models.DutyStatusEvent, violations []models.HOSViolation, cycleHours float64, fromLogDate string) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, insertEventSQL,
		e.ID, e.DriverID, fmtTime(e.OccurredAt), string(e.Status), e.Location, e.Remarks, fmtTime(e.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert event %q: %w", e.ID, err)
	}

	for _, v := range violations {
		if _, err := tx.ExecContext(ctx, insertViolationSQL,
			v.ID, v.DriverID, v.Rule, v.EventID,
			fmtTime(v.OccurredAt), fmtTime(v.DetectedAt), fmtTime(v.WindowStart), fmtTime(v.WindowEnd),
			v.Description,
		); err != nil {
			return fmt.Errorf("insert violation %q: %w", v.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, updateCycleHoursSQL, cycleHours, fmtTime(time.Now()), e.DriverID); err != nil {
		return fmt.Errorf("refresh cycle hours for driver %q: %w", e.DriverID, err)
	}

	if _, err := tx.ExecContext(ctx, markLogsStaleSQL, e.DriverID, fromLogDate); err != nil {
		return fmt.Errorf("mark daily logs stale for driver %q: %w", e.DriverID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition tx: %w", err)
	}
	return nil
}

// Amend rewrites the mutable fields of one event and invalidates summaries
// from fromLogDate onward, atomically.
func (r *EventSQLite) Amend(ctx context.Context, e models.DutyStatusEvent, fromLogDate string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin amend tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	amendedAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx, amendEventSQL,
		string(e.Status), e.Location, e.Remarks, fmtTime(amendedAt), e.ID, e.DriverID,
	)
	if err != nil {
		return fmt.Errorf("amend event %q: %w", e.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, markLogsStaleSQL, e.DriverID, fromLogDate); err != nil {
		return fmt.Errorf("mark daily logs stale for driver %q: %w", e.DriverID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit amend tx: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.DutyStatusEvent, error) {
	var (
		ev        models.DutyStatusEvent
		status    string
		location  sql.NullString
		remarks   sql.NullString
		amendedAt sql.NullTime
	)
	if err := row.Scan(&ev.ID, &ev.DriverID, &ev.OccurredAt, &status, &location, &remarks, &ev.CreatedAt, &amendedAt); err != nil {
		return models.DutyStatusEvent{}, err
	}
	ev.OccurredAt = ev.OccurredAt.UTC()
	ev.CreatedAt = ev.CreatedAt.UTC()
	ev.Status = models.DutyStatus(status)
	ev.Location = location.String
	ev.Remarks = remarks.String
	if amendedAt.Valid {
		t := amendedAt.Time.UTC()
		ev.AmendedAt = &t
	}
	return ev, nil
}
