// Package sim provides the discrete-event engine used by evalsched.
//
// # Reading Guide
//
//   - event.go: Event, Action and the ErrStop termination signal
//   - queue.go: the (Due, Priority, seq) min-heap
//   - simulator.go: virtual clock, scheduling and the dispatch loop
//   - rng.go: the single seeded random stream of a run
//
// # Architecture
//
// Domain types live in sub-packages:
//   - sim/cluster/: nodes with stale capacity, the admission scheduler, outcome accounting
//   - sim/workload/: pod arrival distributions parsed from "name,key=value" tokens
//   - sim/trace/: optional admission decision records
//
// Execution is single-threaded. "Waiting" is modeled by scheduling a future
// event; the clock never follows wall time.
package sim
