package hos

import (
	"fmt"
	"time"

	"eld_tracker/internal/models"
)

const logDateLayout = "2006-01-02"

// BuildDailyLog derives the 24-hour summary for one (driver, calendar day).
// The day runs midnight to midnight in the driver's zone; an event spanning
// midnight is split at the boundary, and the day's most recent status is
// projected to the end of the day so the grid always covers it completely.
//
// The function is deterministic: unchanged history yields a byte-identical
// summary. GeneratedAt is left zero; the caller stamps it on persistence.
func BuildDailyLog(driverID, rule string, loc *time.Location, day time.Time, events []models.DutyStatusEvent, violations []models.HOSViolation) (models.DailyLogSummary, error) {
	if loc == nil {
		loc = time.UTC
	}
	dayStart := startOfDay(day, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	segs, err := buildSegments(events, dayEnd)
	if err != nil {
		return models.DailyLogSummary{}, err
	}

	intervals := dayIntervals(segs, dayStart, dayEnd)

	summary := models.DailyLogSummary{
		DriverID:  driverID,
		LogDate:   dayStart.Format(logDateLayout),
		Intervals: intervals,
	}

	var covered time.Duration
	for _, iv := range intervals {
		d := iv.End.Sub(iv.Start)
		covered += d
		switch iv.Status {
		case models.StatusOffDuty:
			summary.OffDutyHours += d.Minutes()
		case models.StatusSleeperBerth:
			summary.SleeperBerthHours += d.Minutes()
		case models.StatusDriving:
			summary.DrivingHours += d.Minutes()
		case models.StatusOnDutyNotDriving:
			summary.OnDutyNotDrivingHours += d.Minutes()
		}
	}
	// Self-consistency guarantee for the rendering hand-off: the intervals
	// must partition the calendar day exactly.
	if covered != dayEnd.Sub(dayStart) {
		return models.DailyLogSummary{}, fmt.Errorf("%w: day %s covers %s of %s",
			ErrInconsistentHistory, summary.LogDate, covered, dayEnd.Sub(dayStart))
	}
	summary.OffDutyHours = minutesToHours(summary.OffDutyHours)
	summary.SleeperBerthHours = minutesToHours(summary.SleeperBerthHours)
	summary.DrivingHours = minutesToHours(summary.DrivingHours)
	summary.OnDutyNotDrivingHours = minutesToHours(summary.OnDutyNotDrivingHours)

	totals, err := Compute(events, rule, loc, dayEnd)
	if err != nil {
		return models.DailyLogSummary{}, err
	}
	summary.DrivingHoursRemaining = remainingHours(MaxDrivingPerWindow, totals.WindowDriving)
	summary.DutyWindowHoursRemaining = remainingHours(MaxDutyPerWindow, totals.WindowDuty)
	summary.CycleHoursRemaining = remainingHours(CycleCap(rule), totals.CycleDuty)

	summary.Violations = make([]models.HOSViolation, 0)
	for _, v := range violations {
		if !v.OccurredAt.Before(dayStart) && v.OccurredAt.Before(dayEnd) {
			summary.Violations = append(summary.Violations, v)
		}
	}

	return summary, nil
}

// dayIntervals clips segments to the day, fills the gap before recorded
// history with off-duty and merges adjacent same-status spans.
func dayIntervals(segs []segment, dayStart, dayEnd time.Time) []models.StatusInterval {
	out := make([]models.StatusInterval, 0, len(segs)+1)
	cursor := dayStart
	for _, s := range segs {
		start, end := s.start, s.end
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		if !end.After(start) {
			continue
		}
		if start.After(cursor) {
			out = appendInterval(out, models.StatusOffDuty, cursor, start)
		}
		out = appendInterval(out, s.status, start, end)
		cursor = end
	}
	if cursor.Before(dayEnd) {
		out = appendInterval(out, models.StatusOffDuty, cursor, dayEnd)
	}
	return out
}

func appendInterval(intervals []models.StatusInterval, status models.DutyStatus, start, end time.Time) []models.StatusInterval {
	if n := len(intervals); n > 0 && intervals[n-1].Status == status && intervals[n-1].End.Equal(start) {
		intervals[n-1].End = end
		return intervals
	}
	return append(intervals, models.StatusInterval{Status: status, Start: start, End: end})
}

func minutesToHours(minutes float64) float64 {
	return roundHours(time.Duration(minutes * float64(time.Minute)))
}
