package sim

import (
	"errors"
	"fmt"
)

// ErrStop is returned by an event action to end the run cleanly.
// Run treats it as a control signal, never as a failure.
var ErrStop = errors.New("simulation stopped")

// Action is the callback carried by an Event. The returned string is the
// diagnostic result reported in the event log.
type Action func() (string, error)

// Event is a scheduled callback. Events are immutable once scheduled.
// Ordering: Due → Priority → insertion sequence.
type Event struct {
	Name     string // diagnostic label
	Due      int64  // virtual time at which the action runs (in ticks)
	Priority int    // lower values run first among events with the same Due
	Created  int64  // virtual time at which the event was scheduled

	seq    uint64
	action Action
}

// Seq returns the insertion sequence number of the event.
func (e *Event) Seq() uint64 {
	return e.seq
}

func (e *Event) String() string {
	return fmt.Sprintf("from_vt=%d [%s]", e.Created, e.Name)
}

// execute runs the action.
func (e *Event) execute() (string, error) {
	if e.action == nil {
		return "", nil
	}
	return e.action()
}
