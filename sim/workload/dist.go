// Package workload turns "name,key=value,..." tokens into pod arrivals.
package workload

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/inference-sim/evalsched/sim/cluster"
)

// ErrInvalidDistribution wraps every parse and validation failure. These are
// configuration errors: they are reported before the engine runs.
var ErrInvalidDistribution = errors.New("invalid distribution")

// PodSink receives generated pod arrivals. *cluster.Cluster implements it.
type PodSink interface {
	CreatePod(pod cluster.PodSpec)
}

// Distribution generates a deterministic set of pod arrivals.
type Distribution interface {
	Name() string
	String() string
	// Validate reports parameter combinations that cannot be applied.
	Validate() error
	// Apply emits every arrival into sink. Randomized distributions draw from rng.
	Apply(sink PodSink, rng *rand.Rand) error
}

type constructor func(params map[string]int64) (Distribution, error)

// registry maps distribution names to their constructors.
var registry = map[string]constructor{
	"burst":   newBurst,
	"poisson": newPoisson,
}

// Names returns the registered distribution names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse builds a Distribution from a token such as
// "burst,count=2,duration=3,delay=1,period=10". Parameters are validated.
func Parse(token string) (Distribution, error) {
	tokens := strings.Split(token, ",")
	name := strings.ToLower(strings.TrimSpace(tokens[0]))
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown distribution %q (valid: %s)", ErrInvalidDistribution, name, strings.Join(Names(), ", "))
	}

	params := make(map[string]int64, len(tokens)-1)
	for _, tok := range tokens[1:] {
		key, value, found := strings.Cut(tok, "=")
		if !found {
			return nil, fmt.Errorf("%w: %s: malformed parameter %q, want key=value", ErrInvalidDistribution, name, tok)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: parameter %q: %v", ErrInvalidDistribution, name, key, err)
		}
		if _, dup := params[key]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate parameter %q", ErrInvalidDistribution, name, key)
		}
		params[key] = v
	}

	dist, err := ctor(params)
	if err != nil {
		return nil, err
	}
	if err := dist.Validate(); err != nil {
		return nil, err
	}
	return dist, nil
}

// ParseAll parses every token, failing on the first invalid one. Nothing is
// applied, so an error leaves the run untouched.
func ParseAll(tokens []string) ([]Distribution, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no distribution given", ErrInvalidDistribution)
	}
	dists := make([]Distribution, 0, len(tokens))
	for _, tok := range tokens {
		d, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		dists = append(dists, d)
	}
	return dists, nil
}

// takeParams copies recognized keys from params into the targets and rejects
// anything left over.
func takeParams(name string, params map[string]int64, targets map[string]*int64) error {
	for key, v := range params {
		dst, ok := targets[key]
		if !ok {
			return fmt.Errorf("%w: %s: unknown parameter %q", ErrInvalidDistribution, name, key)
		}
		*dst = v
	}
	return nil
}

// addTicks returns a+b for non-negative a and b, or false when the sum
// does not fit the virtual clock.
func addTicks(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// mulTicks returns n*d for non-negative n and d, or false on overflow.
func mulTicks(n, d int64) (int64, bool) {
	if d != 0 && n > math.MaxInt64/d {
		return 0, false
	}
	return n * d, true
}
