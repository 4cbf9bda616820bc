package hos

import (
	"context"
	"errors"
	"strings"

	"github.com/looplab/fsm"

	"eld_tracker/internal/models"
)

// Transition events, one per destination status. Any status may move to any
// other; legality is a rule concern handled by the detector, not a structural
// one, so every event lists all four statuses as sources.
const (
	eventGoOffDuty      = "go_off_duty"
	eventGoSleeperBerth = "go_sleeper_berth"
	eventGoDriving      = "go_driving"
	eventGoOnDuty       = "go_on_duty_not_driving"
)

var transitionEvents = map[models.DutyStatus]string{
	models.StatusOffDuty:          eventGoOffDuty,
	models.StatusSleeperBerth:     eventGoSleeperBerth,
	models.StatusDriving:          eventGoDriving,
	models.StatusOnDutyNotDriving: eventGoOnDuty,
}

// StatusMachine validates a requested duty-status transition for one driver.
// A fresh machine is built per request from the driver's current status; it
// carries no state between requests.
type StatusMachine struct {
	*fsm.FSM
}

// NewStatusMachine builds the machine positioned at the driver's current
// status. New drivers start off-duty.
func NewStatusMachine(current models.DutyStatus) *StatusMachine {
	if !current.Valid() {
		current = models.StatusOffDuty
	}

	sources := make([]string, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		sources = append(sources, string(s))
	}

	events := make(fsm.Events, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		events = append(events, fsm.EventDesc{Name: transitionEvents[s], Src: sources, Dst: string(s)})
	}

	// Guards: cancel the transition when a required field is missing.
	callbacks := fsm.Callbacks{
		"before_" + eventGoDriving: guardLocation,
		"before_" + eventGoOnDuty:  guardLocation,
	}

	return &StatusMachine{FSM: fsm.NewFSM(string(current), events, callbacks)}
}

// guardLocation cancels driving/on-duty transitions without a location.
func guardLocation(_ context.Context, e *fsm.Event) {
	location, _ := e.Args[0].(string)
	if strings.TrimSpace(location) == "" {
		e.Cancel(ErrInvalidLocation)
	}
}

// Request applies a transition to the target status, running guards. A
// same-status event (a position or remark re-log) is not an error.
func (m *StatusMachine) Request(ctx context.Context, target models.DutyStatus, location string) error {
	name, ok := transitionEvents[target]
	if !ok {
		return ErrInvalidStatus
	}
	err := m.Event(ctx, name, location)
	if err == nil {
		return nil
	}

	var canceled fsm.CanceledError
	if errors.As(err, &canceled) {
		if canceled.Err != nil {
			return canceled.Err
		}
		return err
	}

	var same fsm.NoTransitionError
	if errors.As(err, &same) {
		return nil
	}
	return err
}
