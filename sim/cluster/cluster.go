package cluster

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/evalsched/sim"
	"github.com/inference-sim/evalsched/sim/trace"
)

// Config describes the node set of a cluster. Times are in ticks.
type Config struct {
	Nodes        int
	Capacity     int
	UpdatePeriod int64 // 0 = update immediately after each mutation
}

// Validate rejects configurations that cannot describe a node set.
func (c Config) Validate() error {
	if c.Nodes < 0 {
		return fmt.Errorf("node number must be >= 0, got %d", c.Nodes)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("node capacity must be >= 0, got %d", c.Capacity)
	}
	if c.UpdatePeriod < 0 {
		return fmt.Errorf("node update period must be >= 0, got %d", c.UpdatePeriod)
	}
	return nil
}

// PodSpec describes one pod arrival.
type PodSpec struct {
	Name    string
	Arrival int64 // absolute virtual time (ticks)
	// Lifetime is how long an admitted pod stays on its node before it is
	// deleted. 0 means the pod never leaves.
	Lifetime int64
}

// Cluster owns the nodes and the admission scheduler of one run and tallies
// admission outcomes.
type Cluster struct {
	sim       *sim.Simulator
	nodes     []*Node
	scheduler *AdmissionScheduler
	trace     *trace.SimulationTrace

	pods     int
	outcomes [numOutcomes]int
}

// New creates the node set. In periodic mode each node starts its update chain
// at a random offset in [0, UpdatePeriod) so that nodes are not in phase.
func New(s *sim.Simulator, cfg Config) (*Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cluster{
		sim:       s,
		nodes:     make([]*Node, 0, cfg.Nodes),
		scheduler: NewAdmissionScheduler(s.RNG),
	}
	for i := 0; i < cfg.Nodes; i++ {
		node := NewNode(s, fmt.Sprintf("node%02d", i), cfg.Capacity, cfg.UpdatePeriod)
		if cfg.UpdatePeriod > 0 {
			node.Update(s.RNG.Int63n(cfg.UpdatePeriod))
		}
		c.nodes = append(c.nodes, node)
	}
	return c, nil
}

// SetTrace attaches a decision trace. A nil trace disables recording.
func (c *Cluster) SetTrace(st *trace.SimulationTrace) {
	c.trace = st
}

// Nodes returns the node set in creation order.
func (c *Cluster) Nodes() []*Node {
	return c.nodes
}

func (c *Cluster) String() string {
	lines := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		lines[i] = "  " + n.String()
	}
	return fmt.Sprintf("Cluster(\n%s\n)", strings.Join(lines, "\n"))
}

// CreatePod schedules the arrival of a pod at its absolute arrival time.
func (c *Cluster) CreatePod(pod PodSpec) {
	c.sim.ScheduleAt("request_pod="+pod.Name, pod.Arrival, sim.DefaultEventPriority, func() (string, error) {
		return c.handlePodArrival(pod), nil
	})
}

func (c *Cluster) handlePodArrival(pod PodSpec) string {
	d := c.scheduler.decide(c.nodes)
	c.pods++
	c.outcomes[d.Outcome]++

	rec := trace.AdmissionRecord{
		Pod:        pod.Name,
		Clock:      c.sim.Now(),
		Outcome:    d.Outcome.String(),
		CleanNodes: d.Clean,
		FreeNodes:  d.Free,
	}
	if d.Outcome != Success {
		c.trace.RecordAdmission(rec)
		return d.Outcome.String()
	}

	rec.Node = d.Node.Name()
	c.trace.RecordAdmission(rec)
	if pod.Lifetime > 0 {
		node := d.Node
		c.sim.Schedule("delete_pod="+pod.Name, pod.Lifetime, sim.DefaultEventPriority, func() (string, error) {
			node.Delete()
			return node.String(), nil
		})
	}
	return d.Node.String()
}

// Results returns the statistics accumulated so far.
func (c *Cluster) Results() Results {
	updates := 0
	for _, n := range c.nodes {
		updates += n.UpdateCount()
	}
	r := Results{
		Pods:        c.pods,
		NodeUpdates: updates,
		PodAdmissions: Admissions{
			Success:        c.outcomes[Success],
			FailedDirty:    c.outcomes[FailedDirty],
			FailedCapacity: c.outcomes[FailedCapacity],
		},
	}
	logrus.Debugf("cluster results: %+v", r)
	return r
}
