package models

import "time"

// RollingSnapshot is the rolling-total view returned by GetRollingStatus and
// by every accepted transition. Hours carry two-decimal precision.
type RollingSnapshot struct {
	DriverID      string     `json:"driver_id"`
	AsOf          time.Time  `json:"as_of"`
	CurrentStatus DutyStatus `json:"current_status"`
	WindowStart   *time.Time `json:"window_start,omitempty"` // nil: no open 14-hour window

	ContinuousDrivingHours float64 `json:"continuous_driving_hours"` // since last 30-minute break
	WindowDrivingHours     float64 `json:"window_driving_hours"`
	WindowDutyHours        float64 `json:"window_duty_hours"`
	CycleDutyHours         float64 `json:"cycle_duty_hours"`

	DrivingHoursRemaining    float64 `json:"driving_hours_remaining"`
	DutyWindowHoursRemaining float64 `json:"duty_window_hours_remaining"`
	CycleHoursRemaining      float64 `json:"cycle_hours_remaining"`

	RestBreakRequired bool `json:"rest_break_required"`
	CanDrive          bool `json:"can_drive"`
}
