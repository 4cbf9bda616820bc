package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/models"
)

func TestViolationService_List_UnknownDriver(t *testing.T) {
	svc := NewViolationService(newFakeDriverRepo(), &fakeViolationRepo{})

	_, err := svc.List(context.Background(), ViolationFilter{DriverID: "ghost"})
	if !errors.Is(err, hos.ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got: %v", err)
	}
}

func TestViolationService_List_FiltersByRange(t *testing.T) {
	vrepo := &fakeViolationRepo{violations: []models.HOSViolation{
		{ID: "v1", DriverID: "d1", Rule: models.RuleMissingRestBreak, OccurredAt: testBase.Add(10 * time.Hour)},
		{ID: "v2", DriverID: "d1", Rule: models.RuleDrivingLimitExceeded, OccurredAt: testBase.Add(40 * time.Hour)},
		{ID: "v3", DriverID: "d2", Rule: models.RuleCycleLimitExceeded, OccurredAt: testBase.Add(12 * time.Hour)},
	}}
	svc := NewViolationService(newFakeDriverRepo(testDriver("d1", models.Rule70Hours8Days)), vrepo)

	got, err := svc.List(context.Background(), ViolationFilter{
		DriverID: "d1",
		From:     testBase,
		To:       testBase.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("expected only v1 in range, got %+v", got)
	}
}

func TestViolationService_Resolve_NotFound(t *testing.T) {
	svc := NewViolationService(newFakeDriverRepo(), &fakeViolationRepo{resolveErr: sql.ErrNoRows})

	err := svc.Resolve(context.Background(), "nope")
	if !errors.Is(err, ErrViolationNotFound) {
		t.Fatalf("expected ErrViolationNotFound, got: %v", err)
	}
}

func TestViolationService_Resolve_Success(t *testing.T) {
	vrepo := &fakeViolationRepo{}
	svc := NewViolationService(newFakeDriverRepo(), vrepo)

	if err := svc.Resolve(context.Background(), "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vrepo.resolved) != 1 || vrepo.resolved[0] != "v1" {
		t.Fatalf("expected v1 resolved, got %+v", vrepo.resolved)
	}
}
