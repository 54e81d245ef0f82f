package workload

import (
	"math"
	"math/rand"
)

// ArrivalSampler generates inter-arrival times.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in ticks.
	// Always returns a positive value (>= 1).
	SampleIAT(rng *rand.Rand) int64
}

// PoissonSampler generates exponentially-distributed inter-arrival times (CV=1).
type PoissonSampler struct {
	rate float64 // pods per tick
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) int64 {
	f := rng.ExpFloat64() / s.rate
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	iat := int64(f)
	if iat < 1 {
		return 1
	}
	return iat
}
