package repository

import (
	"testing"
	"time"

	"eld_tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDriverCreate_InsertsAllColumns(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewDriverSQLite(db)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d := models.Driver{
		ID:                  "d1",
		Name:                "Jordan Ellis",
		LicenseNumber:       "TX1234567",
		LicenseState:        "TX",
		CarrierName:         "Red River Freight",
		HomeTerminalAddress: "4200 Port Rd, Dallas, TX",
		Timezone:            "America/Chicago",
		HOSRule:             models.Rule70Hours8Days,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	mock.ExpectExec("INSERT INTO drivers").
		WithArgs("d1", "Jordan Ellis", "TX1234567", "TX", "Red River Freight", "4200 Port Rd, Dallas, TX",
			"America/Chicago", "70_8", 0.0, fmtTime(now), fmtTime(now)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(ctx(t), d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestDriverGetByID_NotFoundMeansNil(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewDriverSQLite(db)

	mock.ExpectQuery("SELECT (.+) FROM drivers").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.GetByID(ctx(t), "ghost")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown driver, got %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestDriverGetByID_ScansNullableFields(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewDriverSQLite(db)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "name", "license_number", "license_state", "carrier_name", "home_terminal_address",
		"timezone", "hos_rule_type", "current_cycle_hours", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM drivers").
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("d1", "Riley Mercer", nil, nil, nil, nil, "UTC", "60_7", 12.5, now, now))

	got, err := repo.GetByID(ctx(t), "d1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LicenseNumber != "" || got.CarrierName != "" {
		t.Fatalf("expected NULLs scanned to empty strings, got %+v", got)
	}
	if got.HOSRule != models.Rule60Hours7Days || got.CurrentCycleHours != 12.5 {
		t.Fatalf("unexpected driver: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
