package hos

import "errors"

// Engine error taxonomy. Rule violations are not errors: they are recorded
// outcomes returned alongside a successful transition result.
var (
	// ErrOutOfOrderEvent rejects a transition whose timestamp is not strictly
	// after the driver's last recorded event. Never retried automatically.
	ErrOutOfOrderEvent = errors.New("event timestamp is not after the driver's last event")

	// ErrInvalidLocation rejects driving/on-duty transitions without a location.
	ErrInvalidLocation = errors.New("location is required for this duty status")

	// ErrInvalidStatus rejects a transition to an unknown duty status.
	ErrInvalidStatus = errors.New("unknown duty status")

	// ErrUnknownDriver rejects operations on drivers that were never onboarded.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrInconsistentHistory reports a history the calculator cannot
	// interpret (unordered or duplicate timestamps, unknown statuses). Fatal
	// to the single request; the store is never left half-written.
	ErrInconsistentHistory = errors.New("inconsistent duty status history")
)
