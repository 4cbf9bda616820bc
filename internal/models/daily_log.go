package models

import "time"

// LogDateLayout is the canonical format of a daily log's calendar date.
const LogDateLayout = "2006-01-02"

// StatusInterval is one row of the 24-hour grid: a half-open span [Start, End)
// spent in a single status. Intervals for one summary partition the day.
type StatusInterval struct {
	Status DutyStatus `json:"status"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
}

// DailyLogSummary is the canonical per-(driver, calendar day) report consumed
// by rendering. It is regenerated deterministically from history and never
// hand-edited; interval minutes always sum to exactly 1440.
type DailyLogSummary struct {
	DriverID string `json:"driver_id"`
	LogDate  string `json:"log_date"` // "2006-01-02" in the driver's time zone

	OffDutyHours          float64 `json:"off_duty_hours"`
	SleeperBerthHours     float64 `json:"sleeper_berth_hours"`
	DrivingHours          float64 `json:"driving_hours"`
	OnDutyNotDrivingHours float64 `json:"on_duty_not_driving_hours"`

	Intervals []StatusInterval `json:"intervals"`

	DrivingHoursRemaining    float64 `json:"driving_hours_remaining"`
	DutyWindowHoursRemaining float64 `json:"duty_window_hours_remaining"`
	CycleHoursRemaining      float64 `json:"cycle_hours_remaining"`

	Violations []HOSViolation `json:"violations"`

	GeneratedAt time.Time `json:"generated_at"`
}
