package service

import (
	"context"
	"fmt"
	"time"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/models"
	"eld_tracker/internal/repository"
)

// StatusService computes read-only rolling snapshots. Reads take no driver
// lock: the snapshot is derived from whatever history is committed at call
// time and the computation itself is pure.
type StatusService struct {
	driverRepo repository.DriverRepo
	eventRepo  repository.EventRepo
}

func NewStatusService(driverRepo repository.DriverRepo, eventRepo repository.EventRepo) *StatusService {
	return &StatusService{driverRepo: driverRepo, eventRepo: eventRepo}
}

// GetRollingStatus evaluates all rolling windows for a driver at asOf. A zero
// asOf means "now". Repeated calls with the same asOf over unchanged history
// return identical snapshots.
func (s *StatusService) GetRollingStatus(ctx context.Context, driverID string, asOf time.Time) (models.RollingSnapshot, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return models.RollingSnapshot{}, fmt.Errorf("load driver %s: %w", driverID, err)
	}
	if driver == nil {
		return models.RollingSnapshot{}, hos.ErrUnknownDriver
	}
	loc, err := loadLocation(driver.Timezone)
	if err != nil {
		return models.RollingSnapshot{}, err
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.UTC()

	history, err := s.eventRepo.History(ctx, driverID, asOf.Add(-historyLookback), asOf)
	if err != nil {
		return models.RollingSnapshot{}, fmt.Errorf("load history for driver %s: %w", driverID, err)
	}

	totals, err := hos.Compute(history, driver.HOSRule, loc, asOf)
	if err != nil {
		return models.RollingSnapshot{}, err
	}
	return totals.Snapshot(driver.ID, driver.HOSRule), nil
}
