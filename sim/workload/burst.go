package workload

import (
	"fmt"
	"math/rand"

	"github.com/inference-sim/evalsched/sim/cluster"
)

// Burst emits Duration pods spaced Delay ticks apart, Count times, with bursts
// starting Period ticks apart.
type Burst struct {
	Count    int64 // how many bursts
	Duration int64 // how many pods per burst
	Delay    int64 // ticks between pods in a single burst
	Period   int64 // ticks between burst starts
	Lifetime int64 // ticks an admitted pod stays on its node (0 = forever)
}

// NewBurst returns a burst with the default parameters.
func NewBurst() *Burst {
	return &Burst{Count: 1, Duration: 10, Delay: 1, Period: 0}
}

func newBurst(params map[string]int64) (Distribution, error) {
	b := NewBurst()
	err := takeParams("burst", params, map[string]*int64{
		"count":    &b.Count,
		"duration": &b.Duration,
		"delay":    &b.Delay,
		"period":   &b.Period,
		"lifetime": &b.Lifetime,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Burst) Name() string { return "burst" }

func (b *Burst) String() string {
	return fmt.Sprintf("burst,count=%d,duration=%d,delay=%d,period=%d,lifetime=%d",
		b.Count, b.Duration, b.Delay, b.Period, b.Lifetime)
}

func (b *Burst) Validate() error {
	switch {
	case b.Count < 1:
		return fmt.Errorf("%w: %s: count must be >= 1", ErrInvalidDistribution, b)
	case b.Duration < 0, b.Delay < 0, b.Period < 0, b.Lifetime < 0:
		return fmt.Errorf("%w: %s: parameters must be >= 0", ErrInvalidDistribution, b)
	case b.Count > 1 && b.Period == 0:
		return fmt.Errorf("%w: %s: need valid period if count is greater than one", ErrInvalidDistribution, b)
	}
	if _, ok := b.horizon(); !ok {
		return fmt.Errorf("%w: %s: last arrival exceeds the virtual clock range", ErrInvalidDistribution, b)
	}
	return nil
}

// horizon is the time the last pod leaves its node: the last arrival
// (Count-1)*Period + (Duration-1)*Delay plus Lifetime.
func (b *Burst) horizon() (int64, bool) {
	if b.Duration == 0 {
		return 0, true
	}
	last, ok := mulTicks(b.Count-1, b.Period)
	if !ok {
		return 0, false
	}
	span, ok := mulTicks(b.Duration-1, b.Delay)
	if !ok {
		return 0, false
	}
	if last, ok = addTicks(last, span); !ok {
		return 0, false
	}
	return addTicks(last, b.Lifetime)
}

// Apply creates pod b*Period + p*Delay for every burst b and pod index p.
func (b *Burst) Apply(sink PodSink, _ *rand.Rand) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for cnt := int64(0); cnt < b.Count; cnt++ {
		for num := int64(0); num < b.Duration; num++ {
			sink.CreatePod(cluster.PodSpec{
				Name:     fmt.Sprintf("pod-%03d-%03d", cnt, num),
				Arrival:  cnt*b.Period + num*b.Delay,
				Lifetime: b.Lifetime,
			})
		}
	}
	return nil
}
