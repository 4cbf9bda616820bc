package models

import "time"

// HOS rule identifiers, in the order the detector evaluates them.
const (
	RuleMissingRestBreak     = "missing_rest_break"
	RuleDrivingLimitExceeded = "driving_limit_exceeded"
	RuleDutyWindowExceeded   = "duty_window_exceeded"
	RuleCycleLimitExceeded   = "cycle_limit_exceeded"
)

// HOSViolation is an append-only breach record. It is immutable once created;
// resolution only sets IsResolved/ResolvedAt, the original record persists.
type HOSViolation struct {
	ID          string     `json:"id"`
	DriverID    string     `json:"driver_id"`
	Rule        string     `json:"rule"`
	EventID     string     `json:"event_id"`    // transition that surfaced the breach
	OccurredAt  time.Time  `json:"occurred_at"` // instant the threshold was crossed
	DetectedAt  time.Time  `json:"detected_at"`
	WindowStart time.Time  `json:"window_start"` // span the breach was measured over
	WindowEnd   time.Time  `json:"window_end"`
	Description string     `json:"description"`
	IsResolved  bool       `json:"is_resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
