// sim/simulator.go
package sim

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

const (
	// TicksPerSecond converts configuration seconds into virtual ticks (1 tick = 1ms).
	TicksPerSecond = 1000

	// DefaultEventPriority is used by pod arrivals, node updates and pod deletions.
	DefaultEventPriority = 10
	// ManagementEventPriority is used by start/stop; it runs before any
	// ordinary event sharing the same virtual time.
	ManagementEventPriority = 0
)

// SecondsToTicks converts a duration in seconds to ticks, rounding to the nearest tick.
func SecondsToTicks(seconds float64) int64 {
	return int64(math.Round(seconds * TicksPerSecond))
}

// Simulator is the core object that holds simulation time, the event queue and
// the random stream of a single run. All state is owned by the run; nothing is
// package-global.
type Simulator struct {
	// Clock is the virtual time (in ticks). It only moves forward, and only
	// when Run dispatches an event.
	Clock int64
	// EventQueue has all pending events
	EventQueue EventQueue
	RNG        *rand.Rand
	Key        SimulationKey

	nextSeq  uint64
	executed int
	stopped  bool
}

// NewSimulator creates a simulator at virtual time 0 seeded from key.
func NewSimulator(key SimulationKey) *Simulator {
	return &Simulator{
		Clock:      0,
		EventQueue: make(EventQueue, 0),
		RNG:        NewRNG(key),
		Key:        key,
	}
}

// Now returns the current virtual time.
func (sim *Simulator) Now() int64 {
	return sim.Clock
}

// advance moves the clock forward to t.
func (sim *Simulator) advance(t int64) {
	if t < sim.Clock {
		panic(fmt.Sprintf("clock went backwards: %d < %d", t, sim.Clock))
	}
	sim.Clock = t
}

// Schedule enqueues action to run delay ticks from now.
func (sim *Simulator) Schedule(name string, delay int64, priority int, action Action) *Event {
	if delay < 0 {
		panic(fmt.Sprintf("negative delay %d for event %q", delay, name))
	}
	return sim.ScheduleAt(name, sim.Clock+delay, priority, action)
}

// ScheduleAt enqueues action to run at the absolute virtual time due.
func (sim *Simulator) ScheduleAt(name string, due int64, priority int, action Action) *Event {
	if due < sim.Clock {
		panic(fmt.Sprintf("event %q scheduled in the past: %d < %d", name, due, sim.Clock))
	}
	sim.nextSeq++
	ev := &Event{
		Name:     name,
		Due:      due,
		Priority: priority,
		Created:  sim.Clock,
		seq:      sim.nextSeq,
		action:   action,
	}
	heap.Push(&sim.EventQueue, ev)
	return ev
}

// Start schedules the management start event at time 0.
func (sim *Simulator) Start() {
	sim.Schedule("start", 0, ManagementEventPriority, func() (string, error) {
		return fmt.Sprintf("seed=%d", sim.Key), nil
	})
}

// StopAt schedules the terminal management event at the absolute time due.
func (sim *Simulator) StopAt(due int64) {
	sim.ScheduleAt("stop", due, ManagementEventPriority, func() (string, error) {
		return "", ErrStop
	})
}

// Run dispatches events in (Due, Priority, seq) order until the queue is
// empty or an action returns ErrStop. Any other action error aborts the run.
func (sim *Simulator) Run() error {
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		ev := heap.Pop(&sim.EventQueue).(*Event)
		// advance the clock
		sim.advance(ev.Due)
		// process the event
		res, err := ev.execute()
		sim.executed++
		if errors.Is(err, ErrStop) {
			sim.stopped = true
			break
		}
		if err != nil {
			return fmt.Errorf("event %q at vt=%d: %w", ev.Name, sim.Clock, err)
		}
		logrus.Debugf("vt=%d %s -> [%s]", sim.Clock, ev, res)
	}
	logrus.Infof("[tick %07d] Simulation ended (events=%d, pending=%d)", sim.Clock, sim.executed, len(sim.EventQueue))
	return nil
}

// Executed returns the number of events dispatched so far, including the stop event.
func (sim *Simulator) Executed() int {
	return sim.executed
}

// Stopped reports whether the run ended on the stop event rather than an empty queue.
func (sim *Simulator) Stopped() bool {
	return sim.stopped
}
