package hos

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"eld_tracker/internal/models"
)

// Detect compares pre- and post-transition totals and returns one violation
// per rule whose threshold is newly breached. Rules evaluate in a fixed
// order and are independently triggerable; a rule that was already breached
// at the previous event does not re-fire (edge-triggered), so status
// oscillation cannot flood the violation log.
//
// Each violation is stamped with the instant the threshold was crossed,
// which generally precedes the triggering event.
func Detect(driver models.Driver, events []models.DutyStatusEvent, pre, post Totals, trigger models.DutyStatusEvent, detectedAt time.Time) ([]models.HOSViolation, error) {
	segs, err := buildSegments(events, post.AsOf)
	if err != nil {
		return nil, err
	}

	cycleCap := CycleCap(driver.HOSRule)

	checks := []struct {
		rule        string
		breached    func(Totals) bool
		crossFrom   time.Time
		crossMatch  func(models.DutyStatus) bool
		threshold   time.Duration
		windowStart time.Time
		description string
	}{
		{
			rule:        models.RuleMissingRestBreak,
			breached:    func(t Totals) bool { return t.ContinuousDriving > RestBreakAfterDriving },
			crossFrom:   post.DrivingSince,
			crossMatch:  isDriving,
			threshold:   RestBreakAfterDriving,
			windowStart: post.DrivingSince,
			description: "more than 8 cumulative driving hours without a qualifying 30-minute rest break",
		},
		{
			rule:        models.RuleDrivingLimitExceeded,
			breached:    func(t Totals) bool { return t.WindowDriving > MaxDrivingPerWindow },
			crossFrom:   post.WindowStart,
			crossMatch:  isDriving,
			threshold:   MaxDrivingPerWindow,
			windowStart: post.WindowStart,
			description: "more than 11 driving hours within the 14-hour duty window",
		},
		{
			rule:        models.RuleDutyWindowExceeded,
			breached:    func(t Totals) bool { return t.WindowDuty > MaxDutyPerWindow },
			crossFrom:   post.WindowStart,
			crossMatch:  isWorking,
			threshold:   MaxDutyPerWindow,
			windowStart: post.WindowStart,
			description: "more than 14 duty hours within the 14-hour duty window",
		},
		{
			rule:        models.RuleCycleLimitExceeded,
			breached:    func(t Totals) bool { return t.CycleDuty > cycleCap },
			crossFrom:   post.CycleStart,
			crossMatch:  isWorking,
			threshold:   cycleCap,
			windowStart: post.CycleStart,
			description: fmt.Sprintf("more than %d duty hours within the trailing %d-day cycle", int(cycleCap.Hours()), CycleDays(driver.HOSRule)),
		},
	}

	var out []models.HOSViolation
	for _, c := range checks {
		if !c.breached(post) || c.breached(pre) {
			continue
		}
		occurred := post.AsOf
		if at, ok := crossingInstant(segs, c.crossFrom, c.crossMatch, c.threshold); ok {
			occurred = at
		}
		out = append(out, models.HOSViolation{
			ID:          uuid.NewString(),
			DriverID:    driver.ID,
			Rule:        c.rule,
			EventID:     trigger.ID,
			OccurredAt:  occurred,
			DetectedAt:  detectedAt,
			WindowStart: c.windowStart,
			WindowEnd:   post.AsOf,
			Description: c.description,
		})
	}
	return out, nil
}
