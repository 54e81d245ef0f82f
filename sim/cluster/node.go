// Package cluster models the nodes a stateless admission scheduler places
// pods onto, and the staleness of the capacity those nodes report.
//
// A node is dirty from the moment its capacity changes until an update event
// acknowledges the change. The scheduler never places pods on dirty nodes.
package cluster

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/evalsched/sim"
)

// ImmediateUpdateDelay is the propagation delay (in ticks) of the one-shot
// update fired after each mutation when a node has no update period.
const ImmediateUpdateDelay = 1

// Node is one schedulable resource.
//
// Two staleness regimes exist:
//   - updatePeriod > 0: a self-sustaining timer chain cleans the node every
//     updatePeriod ticks, independent of admissions.
//   - updatePeriod == 0: every Admit/Delete schedules a single update
//     ImmediateUpdateDelay ticks later.
//
// Thread-safety: NOT thread-safe. Only mutated from event actions.
type Node struct {
	name            string
	capacity        int
	initialCapacity int
	clean           bool
	updatePeriod    int64
	updates         int

	sim *sim.Simulator
}

// NewNode creates a clean node. In periodic mode no update chain is running
// until the first call to Update.
func NewNode(s *sim.Simulator, name string, capacity int, updatePeriod int64) *Node {
	return &Node{
		name:            name,
		capacity:        capacity,
		initialCapacity: capacity,
		clean:           true,
		updatePeriod:    updatePeriod,
		sim:             s,
	}
}

func (n *Node) Name() string        { return n.name }
func (n *Node) Capacity() int       { return n.capacity }
func (n *Node) Clean() bool         { return n.clean }
func (n *Node) Dirty() bool         { return !n.clean }
func (n *Node) UpdatePeriod() int64 { return n.updatePeriod }
func (n *Node) UpdateCount() int    { return n.updates }
func (n *Node) periodic() bool      { return n.updatePeriod > 0 }

func (n *Node) String() string {
	return fmt.Sprintf("node %s clean=%t cap=%d update_period=%d", n.name, n.clean, n.capacity, n.updatePeriod)
}

// Admit takes one slot. Callers must check Capacity() > 0 first.
func (n *Node) Admit() {
	if n.capacity <= 0 {
		panic(fmt.Sprintf("admit on node %s with capacity %d", n.name, n.capacity))
	}
	n.capacity--
	n.markDirty("admit_update")
}

// Delete releases one slot. Capacity is not clamped: deleting more pods than
// were admitted pushes capacity above the configured value.
func (n *Node) Delete() {
	n.capacity++
	if n.capacity > n.initialCapacity {
		logrus.Warnf("node %s capacity %d exceeds configured capacity %d", n.name, n.capacity, n.initialCapacity)
	}
	n.markDirty("delete_update")
}

func (n *Node) markDirty(label string) {
	n.clean = false
	if !n.periodic() {
		n.sim.Schedule(label+"="+n.name, ImmediateUpdateDelay, sim.DefaultEventPriority, n.updateAction(0))
	}
}

// Update acknowledges all pending mutations. In periodic mode the next update
// is scheduled delay ticks from now, continuing the chain for the lifetime of
// the run; otherwise delay is ignored.
func (n *Node) Update(delay int64) {
	n.clean = true
	n.updates++
	// A timer past the end of the virtual clock can never fire.
	if n.periodic() && delay <= math.MaxInt64-n.sim.Now() {
		n.sim.Schedule("timer_update="+n.name, delay, sim.DefaultEventPriority, n.updateAction(n.updatePeriod))
	}
}

func (n *Node) updateAction(delay int64) sim.Action {
	return func() (string, error) {
		n.Update(delay)
		return n.String(), nil
	}
}
