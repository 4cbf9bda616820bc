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

var ErrViolationNotFound = errors.New("violation not found or already resolved")

// ViolationService reads and resolves recorded violations. Records themselves
// are append-only; resolution only annotates them.
type ViolationService struct {
	driverRepo    repository.DriverRepo
	violationRepo repository.ViolationRepo
}

func NewViolationService(driverRepo repository.DriverRepo, violationRepo repository.ViolationRepo) *ViolationService {
	return &ViolationService{driverRepo: driverRepo, violationRepo: violationRepo}
}

// List returns a driver's violations ordered by occurrence time.
func (s *ViolationService) List(ctx context.Context, f ViolationFilter) ([]models.HOSViolation, error) {
	driver, err := s.driverRepo.GetByID(ctx, f.DriverID)
	if err != nil {
		return nil, fmt.Errorf("load driver %s: %w", f.DriverID, err)
	}
	if driver == nil {
		return nil, hos.ErrUnknownDriver
	}

	from, to := f.From, f.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	out, err := s.violationRepo.List(ctx, f.DriverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list violations for driver %s: %w", f.DriverID, err)
	}
	return out, nil
}

// Resolve marks an open violation as reviewed.
func (s *ViolationService) Resolve(ctx context.Context, id string) error {
	err := s.violationRepo.Resolve(ctx, id, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrViolationNotFound
	}
	if err != nil {
		return fmt.Errorf("resolve violation %s: %w", id, err)
	}
	return nil
}
