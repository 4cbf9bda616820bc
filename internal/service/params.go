package service

import (
	"time"

	"eld_tracker/internal/models"
)

// TransitionParams is a requested duty-status change for one driver.
type TransitionParams struct {
	DriverID  string
	Status    models.DutyStatus
	Timestamp time.Time // UTC; must be strictly after the driver's last event
	Location  string    // required for driving / on_duty_not_driving
	Remarks   string
}

// TransitionResult is returned on every accepted transition, including ones
// that breached a rule: the caller surfaces the violations as warnings.
type TransitionResult struct {
	Event      models.DutyStatusEvent `json:"event"`
	Snapshot   models.RollingSnapshot `json:"snapshot"`
	Violations []models.HOSViolation  `json:"violations"`
}

// AmendParams corrects a previously recorded event. The timestamp is
// immutable; only status, location and remarks may change.
type AmendParams struct {
	DriverID string
	EventID  string
	Status   models.DutyStatus // empty: keep current
	Location *string           // nil: keep current
	Remarks  *string           // nil: keep current
}

// ViolationFilter selects a driver's violations by occurrence time.
type ViolationFilter struct {
	DriverID string
	From     time.Time // zero: no lower bound
	To       time.Time // zero: no upper bound
}

// CreateDriverParams onboards a driver.
type CreateDriverParams struct {
	ID                  string // optional; generated when empty
	Name                string
	LicenseNumber       string
	LicenseState        string
	CarrierName         string
	HomeTerminalAddress string
	Timezone            string // IANA name; defaults to UTC
	HOSRule             string // "70_8" (default) | "60_7"
}
