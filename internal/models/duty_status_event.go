package models

import "time"

// DutyStatus is one of the four ELD duty statuses.
type DutyStatus string

const (
	StatusOffDuty          DutyStatus = "off_duty"
	StatusSleeperBerth     DutyStatus = "sleeper_berth"
	StatusDriving          DutyStatus = "driving"
	StatusOnDutyNotDriving DutyStatus = "on_duty_not_driving"
)

// AllStatuses lists every duty status in grid order.
var AllStatuses = []DutyStatus{
	StatusOffDuty,
	StatusSleeperBerth,
	StatusDriving,
	StatusOnDutyNotDriving,
}

// Valid reports whether s is a known duty status.
func (s DutyStatus) Valid() bool {
	switch s {
	case StatusOffDuty, StatusSleeperBerth, StatusDriving, StatusOnDutyNotDriving:
		return true
	}
	return false
}

// Working reports whether s counts toward duty time (driving or on-duty).
func (s DutyStatus) Working() bool {
	return s == StatusDriving || s == StatusOnDutyNotDriving
}

// Rest reports whether s counts toward a 10-hour window reset.
func (s DutyStatus) Rest() bool {
	return s == StatusOffDuty || s == StatusSleeperBerth
}

// RequiresLocation reports whether a transition into s must carry a location.
func (s DutyStatus) RequiresLocation() bool {
	return s == StatusDriving || s == StatusOnDutyNotDriving
}

// DutyStatusEvent is an immutable status-change fact. Its duration is
// implicit: it extends until the driver's next event, or "now" for the most
// recent one. Events for one driver are strictly ordered by OccurredAt.
type DutyStatusEvent struct {
	ID         string     `json:"id"`
	DriverID   string     `json:"driver_id"`
	OccurredAt time.Time  `json:"occurred_at"` // UTC
	Status     DutyStatus `json:"status"`
	Location   string     `json:"location,omitempty"`
	Remarks    string     `json:"remarks,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	AmendedAt  *time.Time `json:"amended_at,omitempty"`
}
