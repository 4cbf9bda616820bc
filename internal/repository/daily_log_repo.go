package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eld_tracker/internal/models"
)

type DailyLogSQLite struct {
	db *sql.DB
}

func NewDailyLogSQLite(db *sql.DB) *DailyLogSQLite { return &DailyLogSQLite{db: db} }

var _ DailyLogRepo = (*DailyLogSQLite)(nil)

const (
	selectDailyLogSQL = `
		SELECT payload, stale FROM daily_logs
		WHERE driver_id = ? AND log_date = ?
	`

	countDailyLogSQL = `SELECT COUNT(1) FROM daily_logs WHERE driver_id = ? AND log_date = ?`

	upsertDailyLogSQL = `
		INSERT INTO daily_logs (driver_id, log_date, payload, stale, generated_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(driver_id, log_date) DO UPDATE SET
			payload=excluded.payload,
			stale=0,
			generated_at=excluded.generated_at
	`
)

// Get fetches the cached summary for (driver, date). Returns (nil, nil) when
// no summary has been generated yet.
func (r *DailyLogSQLite) Get(ctx context.Context, driverID, logDate string) (*CachedDailyLog, error) {
	var payload string
	var stale bool
	err := r.db.QueryRowContext(ctx, selectDailyLogSQL, driverID, logDate).Scan(&payload, &stale)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select daily log %s/%s: %w", driverID, logDate, err)
	}

	var summary models.DailyLogSummary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		return nil, fmt.Errorf("decode daily log %s/%s: %w", driverID, logDate, err)
	}
	return &CachedDailyLog{Summary: summary, Stale: stale}, nil
}

// Upsert stores a freshly regenerated summary and clears the stale flag.
func (r *DailyLogSQLite) Upsert(ctx context.Context, s models.DailyLogSummary) (bool, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("encode daily log %s/%s: %w", s.DriverID, s.LogDate, err)
	}

	var existing int
	if err := r.db.QueryRowContext(ctx, countDailyLogSQL, s.DriverID, s.LogDate).Scan(&existing); err != nil {
		return false, fmt.Errorf("count daily log %s/%s: %w", s.DriverID, s.LogDate, err)
	}

	generatedAt := s.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, upsertDailyLogSQL, s.DriverID, s.LogDate, string(payload), fmtTime(generatedAt)); err != nil {
		return false, fmt.Errorf("upsert daily log %s/%s: %w", s.DriverID, s.LogDate, err)
	}
	return existing == 0, nil
}
