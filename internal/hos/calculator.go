// Package hos implements the HOS compliance engine core: rolling-window
// accounting, the duty-status state machine, violation detection and the
// daily log aggregator. Everything here is pure computation over an ordered,
// immutable event history; persistence lives in internal/repository and
// orchestration in internal/service.
package hos

import (
	"fmt"
	"math"
	"time"

	"eld_tracker/internal/models"
)

// FMCSA thresholds for property-carrying drivers.
const (
	MaxDrivingPerWindow   = 11 * time.Hour
	MaxDutyPerWindow      = 14 * time.Hour
	RestBreakAfterDriving = 8 * time.Hour
	MinRestBreak          = 30 * time.Minute
	MinOffDutyReset       = 10 * time.Hour

	CycleCap70Hours = 70 * time.Hour
	CycleCap60Hours = 60 * time.Hour
	CycleDays70Rule = 8
	CycleDays60Rule = 7
)

// CycleCap returns the duty-hour cap for a rule variant.
func CycleCap(rule string) time.Duration {
	if rule == models.Rule60Hours7Days {
		return CycleCap60Hours
	}
	return CycleCap70Hours
}

// CycleDays returns the trailing calendar-day count for a rule variant.
func CycleDays(rule string) int {
	if rule == models.Rule60Hours7Days {
		return CycleDays60Rule
	}
	return CycleDays70Rule
}

// Totals holds exact rolling durations as of a reference instant. Thresholds
// are compared on these raw values; rounding to two-decimal hours happens
// only when converting to a models.RollingSnapshot.
type Totals struct {
	AsOf   time.Time
	Status models.DutyStatus

	// WindowStart is the first driving/on-duty activity after the most
	// recent qualifying 10-hour rest. Zero when no duty window is open.
	WindowStart   time.Time
	WindowDriving time.Duration
	WindowDuty    time.Duration

	// ContinuousDriving accumulates driving since DrivingSince, the end of
	// the last qualifying 30-minute break.
	ContinuousDriving time.Duration
	DrivingSince      time.Time

	CycleStart time.Time
	CycleDuty  time.Duration
}

// Compute derives rolling totals from an ordered event history at asOf. It is
// pure and deterministic: identical inputs always yield identical totals.
// Histories that start mid-cycle are handled by treating the gap before the
// first event as off-duty.
func Compute(events []models.DutyStatusEvent, rule string, loc *time.Location, asOf time.Time) (Totals, error) {
	if loc == nil {
		loc = time.UTC
	}
	segs, err := buildSegments(events, asOf)
	if err != nil {
		return Totals{}, err
	}

	t := Totals{
		AsOf:   asOf,
		Status: currentStatus(segs),
	}

	t.WindowStart = windowStart(segs)
	if !t.WindowStart.IsZero() {
		t.WindowDriving = sumIn(segs, t.WindowStart, asOf, isDriving)
		t.WindowDuty = sumIn(segs, t.WindowStart, asOf, isWorking)
	}

	t.ContinuousDriving, t.DrivingSince = continuousDriving(segs)

	t.CycleStart = startOfDay(asOf, loc).AddDate(0, 0, -(CycleDays(rule) - 1))
	t.CycleDuty = sumIn(segs, t.CycleStart, asOf, isWorking)

	return t, nil
}

// Snapshot converts exact totals into the rounded, caller-facing view.
func (t Totals) Snapshot(driverID, rule string) models.RollingSnapshot {
	snap := models.RollingSnapshot{
		DriverID:      driverID,
		AsOf:          t.AsOf,
		CurrentStatus: t.Status,

		ContinuousDrivingHours: roundHours(t.ContinuousDriving),
		WindowDrivingHours:     roundHours(t.WindowDriving),
		WindowDutyHours:        roundHours(t.WindowDuty),
		CycleDutyHours:         roundHours(t.CycleDuty),

		DrivingHoursRemaining:    remainingHours(MaxDrivingPerWindow, t.WindowDriving),
		DutyWindowHoursRemaining: remainingHours(MaxDutyPerWindow, t.WindowDuty),
		CycleHoursRemaining:      remainingHours(CycleCap(rule), t.CycleDuty),

		RestBreakRequired: t.ContinuousDriving >= RestBreakAfterDriving,
	}
	if !t.WindowStart.IsZero() {
		ws := t.WindowStart
		snap.WindowStart = &ws
	}
	snap.CanDrive = snap.DrivingHoursRemaining > 0 &&
		snap.DutyWindowHoursRemaining > 0 &&
		snap.CycleHoursRemaining > 0 &&
		!snap.RestBreakRequired
	return snap
}

// segment is a half-open span [start, end) spent in one status. The last
// segment of a history extends to the reference instant.
type segment struct {
	status models.DutyStatus
	start  time.Time
	end    time.Time
}

// buildSegments converts point-in-time events into contiguous segments up to
// asOf, validating the per-driver total order.
func buildSegments(events []models.DutyStatusEvent, asOf time.Time) ([]segment, error) {
	segs := make([]segment, 0, len(events))
	var prev *models.DutyStatusEvent
	for i := range events {
		e := &events[i]
		if !e.Status.Valid() {
			return nil, fmt.Errorf("%w: event %s has status %q", ErrInconsistentHistory, e.ID, e.Status)
		}
		if prev != nil && !e.OccurredAt.After(prev.OccurredAt) {
			return nil, fmt.Errorf("%w: event %s at %s is not after %s",
				ErrInconsistentHistory, e.ID, e.OccurredAt.Format(time.RFC3339), prev.OccurredAt.Format(time.RFC3339))
		}
		if e.OccurredAt.After(asOf) {
			// Events after the reference instant have not happened yet; the
			// segment open at asOf still belongs to the last event before it.
			break
		}
		if prev != nil {
			segs = append(segs, segment{status: prev.Status, start: prev.OccurredAt, end: e.OccurredAt})
		}
		prev = e
	}
	if prev != nil {
		segs = append(segs, segment{status: prev.Status, start: prev.OccurredAt, end: asOf})
	}
	return segs, nil
}

func currentStatus(segs []segment) models.DutyStatus {
	if len(segs) == 0 {
		return models.StatusOffDuty
	}
	return segs[len(segs)-1].status
}

// windowStart locates the first working activity after the most recent rest
// period of MinOffDutyReset or longer. The gap before recorded history counts
// as off-duty, so it extends a leading rest run indefinitely. A zero return
// means no duty window is open.
func windowStart(segs []segment) time.Time {
	var (
		runDur       time.Duration
		runEnd       time.Time
		qualifiedEnd time.Time
	)
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s.status.Rest() {
			if runEnd.IsZero() {
				runEnd = s.end
			}
			runDur += s.end.Sub(s.start)
			if runDur >= MinOffDutyReset {
				qualifiedEnd = runEnd
				break
			}
			continue
		}
		runDur = 0
		runEnd = time.Time{}
	}
	if qualifiedEnd.IsZero() && len(segs) > 0 {
		// Walked past history start without finding a qualifying rest: the
		// pre-history gap qualifies, merged with any leading rest run.
		if !runEnd.IsZero() {
			qualifiedEnd = runEnd
		} else {
			qualifiedEnd = segs[0].start
		}
	}
	for _, s := range segs {
		if s.status.Working() && !s.start.Before(qualifiedEnd) {
			return s.start
		}
	}
	return time.Time{}
}

// continuousDriving accumulates driving time backward from the reference
// instant until a qualifying break: MinRestBreak or more of consecutive
// non-driving time. It returns the accumulated driving and the instant
// accumulation starts from (end of that break, or history start).
func continuousDriving(segs []segment) (time.Duration, time.Time) {
	var (
		driving  time.Duration
		breakRun time.Duration
		breakEnd time.Time
	)
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s.status == models.StatusDriving {
			breakRun = 0
			breakEnd = time.Time{}
			driving += s.end.Sub(s.start)
			continue
		}
		if breakEnd.IsZero() {
			breakEnd = s.end
		}
		breakRun += s.end.Sub(s.start)
		if breakRun >= MinRestBreak {
			return driving, breakEnd
		}
	}
	// Reached history start: the off-duty gap before it is the break.
	if len(segs) == 0 {
		return 0, time.Time{}
	}
	if !breakEnd.IsZero() {
		return driving, breakEnd
	}
	return driving, segs[0].start
}

// sumIn totals time spent in matching statuses, pro-rated by wall-clock
// overlap with [from, to].
func sumIn(segs []segment, from, to time.Time, match func(models.DutyStatus) bool) time.Duration {
	var total time.Duration
	for _, s := range segs {
		if !match(s.status) {
			continue
		}
		start, end := s.start, s.end
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return total
}

// crossingInstant returns the instant at which time accumulated in matching
// statuses from `from` onward reaches threshold, if it does.
func crossingInstant(segs []segment, from time.Time, match func(models.DutyStatus) bool, threshold time.Duration) (time.Time, bool) {
	var cum time.Duration
	for _, s := range segs {
		if !match(s.status) {
			continue
		}
		start, end := s.start, s.end
		if start.Before(from) {
			start = from
		}
		if !end.After(start) {
			continue
		}
		d := end.Sub(start)
		if cum+d >= threshold {
			return start.Add(threshold - cum), true
		}
		cum += d
	}
	return time.Time{}, false
}

func isDriving(s models.DutyStatus) bool { return s == models.StatusDriving }
func isWorking(s models.DutyStatus) bool { return s.Working() }

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// roundHours reports a duration in hours with two-decimal precision.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Minutes()/60*100) / 100
}

func remainingHours(limit, used time.Duration) float64 {
	if used >= limit {
		return 0
	}
	return roundHours(limit - used)
}
