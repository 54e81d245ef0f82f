package cluster

import "math/rand"

// Decision is the full result of one scheduling pass.
type Decision struct {
	Outcome Outcome
	Node    *Node // nil unless Outcome == Success
	// Clean and Free count the candidates after each filter.
	Clean int
	Free  int
}

// AdmissionScheduler places pods using only what nodes currently report.
// It holds no state of its own besides the run's random stream.
type AdmissionScheduler struct {
	rng *rand.Rand
}

// NewAdmissionScheduler creates a scheduler drawing from rng.
func NewAdmissionScheduler(rng *rand.Rand) *AdmissionScheduler {
	return &AdmissionScheduler{rng: rng}
}

// Decide filters nodes to clean ones, then to those with capacity, and admits
// on a uniformly chosen candidate. There is no retry: a failure is final.
func (s *AdmissionScheduler) Decide(nodes []*Node) (Outcome, *Node) {
	d := s.decide(nodes)
	return d.Outcome, d.Node
}

func (s *AdmissionScheduler) decide(nodes []*Node) Decision {
	clean := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Clean() {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		return Decision{Outcome: FailedDirty}
	}

	candidates := make([]*Node, 0, len(clean))
	for _, n := range clean {
		if n.Capacity() > 0 {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return Decision{Outcome: FailedCapacity, Clean: len(clean)}
	}

	node := candidates[s.rng.Intn(len(candidates))]
	node.Admit()
	return Decision{Outcome: Success, Node: node, Clean: len(clean), Free: len(candidates)}
}
