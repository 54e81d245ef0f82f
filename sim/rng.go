package sim

import "math/rand"

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// NewRNG returns the random stream for a run.
//
// A run has exactly one stream: node phase offsets, admission choices and
// sampled workloads all draw from it in event order, so the sequence of draws
// is itself part of the determinism contract.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
func NewRNG(key SimulationKey) *rand.Rand {
	return rand.New(rand.NewSource(int64(key)))
}
