package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/models"
	"eld_tracker/internal/repository"
)

var (
	ErrDriverNameRequired = errors.New("driver name is required")
	ErrBadTimezone        = errors.New("unknown IANA timezone")
	ErrBadRuleVariant     = errors.New("hos rule must be 70_8 or 60_7")
)

// DriverService handles onboarding and lookup. The rule variant and timezone
// are fixed at creation; changing them mid-history would silently rewrite
// every past cycle total.
type DriverService struct {
	driverRepo repository.DriverRepo
}

func NewDriverService(driverRepo repository.DriverRepo) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

// Create validates and stores a new driver profile.
func (s *DriverService) Create(ctx context.Context, p CreateDriverParams) (models.Driver, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Driver{}, ErrDriverNameRequired
	}

	tz := p.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return models.Driver{}, fmt.Errorf("%w: %q", ErrBadTimezone, p.Timezone)
	}

	rule := p.HOSRule
	if rule == "" {
		rule = models.Rule70Hours8Days
	}
	if rule != models.Rule70Hours8Days && rule != models.Rule60Hours7Days {
		return models.Driver{}, fmt.Errorf("%w: got %q", ErrBadRuleVariant, p.HOSRule)
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	d := models.Driver{
		ID:                  id,
		Name:                strings.TrimSpace(p.Name),
		LicenseNumber:       p.LicenseNumber,
		LicenseState:        p.LicenseState,
		CarrierName:         p.CarrierName,
		HomeTerminalAddress: p.HomeTerminalAddress,
		Timezone:            tz,
		HOSRule:             rule,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.driverRepo.Create(ctx, d); err != nil {
		return models.Driver{}, fmt.Errorf("create driver %s: %w", id, err)
	}
	return d, nil
}

// Get returns a driver profile by ID.
func (s *DriverService) Get(ctx context.Context, id string) (models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return models.Driver{}, fmt.Errorf("load driver %s: %w", id, err)
	}
	if driver == nil {
		return models.Driver{}, hos.ErrUnknownDriver
	}
	return *driver, nil
}
