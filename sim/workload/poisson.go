package workload

import (
	"fmt"
	"math/rand"

	"github.com/inference-sim/evalsched/sim/cluster"
)

// Poisson emits Count pods whose inter-arrival gaps are exponentially
// distributed with mean Mean ticks, starting at Start.
type Poisson struct {
	Count    int64
	Mean     int64 // mean inter-arrival time (ticks)
	Start    int64
	Lifetime int64
}

// NewPoisson returns a poisson distribution with the default parameters.
func NewPoisson() *Poisson {
	return &Poisson{Count: 10, Mean: 100}
}

func newPoisson(params map[string]int64) (Distribution, error) {
	p := NewPoisson()
	err := takeParams("poisson", params, map[string]*int64{
		"count":    &p.Count,
		"mean":     &p.Mean,
		"start":    &p.Start,
		"lifetime": &p.Lifetime,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Poisson) Name() string { return "poisson" }

func (p *Poisson) String() string {
	return fmt.Sprintf("poisson,count=%d,mean=%d,start=%d,lifetime=%d", p.Count, p.Mean, p.Start, p.Lifetime)
}

func (p *Poisson) Validate() error {
	switch {
	case p.Count < 0, p.Start < 0, p.Lifetime < 0:
		return fmt.Errorf("%w: %s: parameters must be >= 0", ErrInvalidDistribution, p)
	case p.Mean < 1:
		return fmt.Errorf("%w: %s: mean must be >= 1", ErrInvalidDistribution, p)
	}
	// every gap is at least one tick
	earliest, ok := addTicks(p.Start, p.Count)
	if ok {
		_, ok = addTicks(earliest, p.Lifetime)
	}
	if !ok {
		return fmt.Errorf("%w: %s: arrivals exceed the virtual clock range", ErrInvalidDistribution, p)
	}
	return nil
}

// Apply draws Count gaps from rng. The first pod arrives one gap after Start.
// All arrivals are drawn before any pod is emitted, so an arrival past the end
// of the virtual clock leaves sink untouched.
func (p *Poisson) Apply(sink PodSink, rng *rand.Rand) error {
	if err := p.Validate(); err != nil {
		return err
	}
	sampler := &PoissonSampler{rate: 1 / float64(p.Mean)}
	var arrivals []int64
	t := p.Start
	for num := int64(0); num < p.Count; num++ {
		var ok bool
		if t, ok = addTicks(t, sampler.SampleIAT(rng)); ok {
			_, ok = addTicks(t, p.Lifetime)
		}
		if !ok {
			return fmt.Errorf("%w: %s: arrival of pod %d exceeds the virtual clock range", ErrInvalidDistribution, p, num)
		}
		arrivals = append(arrivals, t)
	}
	for num, at := range arrivals {
		sink.CreatePod(cluster.PodSpec{
			Name:     fmt.Sprintf("pod-p-%05d", num),
			Arrival:  at,
			Lifetime: p.Lifetime,
		})
	}
	return nil
}
