package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eld_tracker/internal/models"
)

type ViolationSQLite struct {
	db *sql.DB
}

func NewViolationSQLite(db *sql.DB) *ViolationSQLite { return &ViolationSQLite{db: db} }

var _ ViolationRepo = (*ViolationSQLite)(nil)

const (
	selectViolationsSQL = `
		SELECT id, driver_id, rule, event_id, occurred_at, detected_at, window_start, window_end,
			description, is_resolved, resolved_at
		FROM hos_violations
		WHERE driver_id = ? AND occurred_at >= ? AND occurred_at <= ?
		ORDER BY occurred_at ASC
	`

	resolveViolationSQL = `
		UPDATE hos_violations SET is_resolved = 1, resolved_at = ?
		WHERE id = ? AND is_resolved = 0
	`
)

// List returns the driver's violations with occurred_at in [from, to],
// ordered ascending. Resolution state is included; records are never removed.
func (r *ViolationSQLite) List(ctx context.Context, driverID string, from, to time.Time) ([]models.HOSViolation, error) {
	rows, err := r.db.QueryContext(ctx, selectViolationsSQL, driverID, fmtTime(from), fmtTime(to))
	if err != nil {
		return nil, fmt.Errorf("select violations for driver %q: %w", driverID, err)
	}
	defer rows.Close()

	out := make([]models.HOSViolation, 0, 16)
	for rows.Next() {
		var v models.HOSViolation
		var resolvedAt sql.NullTime
		if err := rows.Scan(&v.ID, &v.DriverID, &v.Rule, &v.EventID,
			&v.OccurredAt, &v.DetectedAt, &v.WindowStart, &v.WindowEnd,
			&v.Description, &v.IsResolved, &resolvedAt,
		); err != nil {
			return nil, err
		}
		v.OccurredAt = v.OccurredAt.UTC()
		v.DetectedAt = v.DetectedAt.UTC()
		v.WindowStart = v.WindowStart.UTC()
		v.WindowEnd = v.WindowEnd.UTC()
		if resolvedAt.Valid {
			t := resolvedAt.Time.UTC()
			v.ResolvedAt = &t
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve marks a violation resolved. The original record persists; resolving
// an already-resolved or unknown id reports sql.ErrNoRows.
func (r *ViolationSQLite) Resolve(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, resolveViolationSQL, fmtTime(at), id)
	if err != nil {
		return fmt.Errorf("resolve violation %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
