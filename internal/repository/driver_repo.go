package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eld_tracker/internal/models"
)

type DriverSQLite struct {
	db *sql.DB
}

func NewDriverSQLite(db *sql.DB) *DriverSQLite { return &DriverSQLite{db: db} }

var _ DriverRepo = (*DriverSQLite)(nil)

const (
	insertDriverSQL = `
		INSERT INTO drivers (id, name, license_number, license_state, carrier_name, home_terminal_address,
			timezone, hos_rule_type, current_cycle_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectDriverSQL = `
		SELECT id, name, license_number, license_state, carrier_name, home_terminal_address,
			timezone, hos_rule_type, current_cycle_hours, created_at, updated_at
		FROM drivers WHERE id = ?
	`
)

func (r *DriverSQLite) Create(ctx context.Context, d models.Driver) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx, insertDriverSQL,
		d.ID, d.Name, d.LicenseNumber, d.LicenseState, d.CarrierName, d.HomeTerminalAddress,
		d.Timezone, d.HOSRule, d.CurrentCycleHours, fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert driver %q: %w", d.ID, err)
	}
	return nil
}

// GetByID fetches a driver. Returns (nil, nil) when not found.
func (r *DriverSQLite) GetByID(ctx context.Context, id string) (*models.Driver, error) {
	var d models.Driver
	var license, state, carrier, terminal sql.NullString
	err := r.db.QueryRowContext(ctx, selectDriverSQL, id).Scan(
		&d.ID, &d.Name, &license, &state, &carrier, &terminal,
		&d.Timezone, &d.HOSRule, &d.CurrentCycleHours, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select driver %q: %w", id, err)
	}
	d.LicenseNumber = license.String
	d.LicenseState = state.String
	d.CarrierName = carrier.String
	d.HomeTerminalAddress = terminal.String
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}
