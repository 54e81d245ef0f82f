package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/evalsched/sim/cluster"
	"github.com/inference-sim/evalsched/sim/trace"
	"github.com/inference-sim/evalsched/sim/workload"
)

// executeRun runs `evalsched run args...` with flags reset to their defaults
// and returns what was printed on stdout.
func executeRun(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	runCmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"run"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func testConfig(durationSeconds float64, nodes, capacity int, periodSeconds float64) *Config {
	cfg := DefaultConfig()
	cfg.DurationSeconds = floatPtr(durationSeconds)
	cfg.Nodes = NodesConfig{Number: nodes, Capacity: capacity, UpdatePeriodSeconds: periodSeconds}
	return cfg
}

func TestRunCmd_PrintsResultJSON(t *testing.T) {
	// GIVEN a single node with capacity 2 and a 3-pod burst with no spacing
	stdin := `{"nodes": {"number": 1, "capacity": 2, "update_period_seconds": 0}}`

	// WHEN run for one second
	out, err := executeRun(t, stdin, "-c", "-", "-D", "1", "burst,count=1,duration=3,delay=0")

	// THEN one line of JSON with the documented shape is printed
	require.NoError(t, err)
	assert.Equal(t,
		`{"pods":3,"node_updates":1,"pod_admissions":{"success":1,"failed_dirty":2,"failed_capacity":0}}`+"\n",
		out)
}

func TestRunCmd_SameSeedByteIdenticalOutput(t *testing.T) {
	stdin := `{"random_seed": 5, "nodes": {"number": 4, "capacity": 30, "update_period_seconds": 0.05}}`
	args := []string{"-c", "-", "-D", "10", "burst,count=20,duration=15,delay=3,period=400", "poisson,count=200,mean=40"}

	first, err := executeRun(t, stdin, args...)
	require.NoError(t, err)
	second, err := executeRun(t, stdin, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestRunCmd_SeedFlagOverridesConfig(t *testing.T) {
	stdin := `{"random_seed": 5, "nodes": {"number": 4, "capacity": 30, "update_period_seconds": 0.05}}`
	dist := "burst,count=20,duration=15,delay=3,period=400"

	out, err := executeRun(t, stdin, "-c", "-", "-D", "10", "-S", "5", dist)
	require.NoError(t, err)
	fromConfig, err := executeRun(t, stdin, "-c", "-", "-D", "10", dist)
	require.NoError(t, err)

	assert.Equal(t, fromConfig, out)
}

func TestRunCmd_MissingDuration(t *testing.T) {
	out, err := executeRun(t, `{}`, "-c", "-", "burst")
	assert.ErrorContains(t, err, "missing simulation duration time value")
	assert.Empty(t, out)
}

func TestRunCmd_DurationFromConfig(t *testing.T) {
	out, err := executeRun(t, `{"duration_seconds": 1}`, "-c", "-", "burst,duration=2")
	require.NoError(t, err)
	var r cluster.Results
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 2, r.Pods)
}

func TestRunCmd_RequiresDistribution(t *testing.T) {
	_, err := executeRun(t, `{}`, "-c", "-", "-D", "1")
	assert.Error(t, err)
}

func TestRunCmd_InvalidDistributionPrintsNothing(t *testing.T) {
	out, err := executeRun(t, `{}`, "-c", "-", "-D", "1", "burst,count=2,period=0")
	assert.ErrorIs(t, err, workload.ErrInvalidDistribution)
	assert.Empty(t, out)
}

func TestRunCmd_TraceOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.yaml")
	_, err := executeRun(t, `{"nodes": {"number": 1, "capacity": 1}}`, "-c", "-", "-D", "1",
		"--trace-output", path, "burst,duration=3,delay=2")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var summary trace.TraceSummary
	require.NoError(t, yaml.Unmarshal(data, &summary))
	assert.Equal(t, 3, summary.TotalDecisions)
	assert.Equal(t, 1, summary.Outcomes["success"].Count)
	assert.Equal(t, 2, summary.Outcomes["failed_capacity"].Count)
}

func TestSimulate_BurstRejectedBeforeAnyEvent(t *testing.T) {
	// GIVEN a burst repeated without a period
	cfg := testConfig(10, 1, 10, 0)

	// WHEN simulated
	r, err := Simulate(cfg, []string{"burst,count=2,period=0"}, nil)

	// THEN it fails as a configuration error with zero admissions recorded
	require.ErrorIs(t, err, workload.ErrInvalidDistribution)
	assert.Equal(t, cluster.Results{}, r)
}

func TestSimulate_UnknownDistribution(t *testing.T) {
	_, err := Simulate(testConfig(10, 1, 10, 0), []string{"zipf,count=3"}, nil)
	assert.ErrorContains(t, err, "unknown distribution")
}

func TestRunCmd_NonFiniteDurationFlag(t *testing.T) {
	out, err := executeRun(t, `{}`, "-c", "-", "-D", "NaN", "burst")
	assert.ErrorContains(t, err, "must be a finite number")
	assert.Empty(t, out)
}

func TestSimulate_DurationBeyondClockRangeIsConfigError(t *testing.T) {
	var (
		r   cluster.Results
		err error
	)
	require.NotPanics(t, func() {
		r, err = Simulate(testConfig(1e300, 1, 10, 0), []string{"burst,count=1,duration=1"}, nil)
	})
	assert.ErrorContains(t, err, "exceeds the virtual clock range")
	assert.Equal(t, cluster.Results{}, r)
}

func TestSimulate_ArrivalOverflowIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		dist string
	}{
		{"burst period", "burst,count=3,duration=1,period=9000000000000000000"},
		{"poisson accumulated gaps", "poisson,count=5,mean=1000,start=9223372036854775800"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var (
				r   cluster.Results
				err error
			)
			require.NotPanics(t, func() {
				r, err = Simulate(testConfig(10, 1, 10, 0), []string{tc.dist}, nil)
			})
			assert.ErrorIs(t, err, workload.ErrInvalidDistribution)
			assert.Equal(t, cluster.Results{}, r)
		})
	}
}

func TestSimulate_BurstArrivalsInsideDuration(t *testing.T) {
	// GIVEN ample capacity and immediate reconciliation, pods 10 ticks apart
	cfg := testConfig(1, 1, 100, 0)

	// WHEN two bursts of three pods run
	r, err := Simulate(cfg, []string{"burst,count=2,duration=3,delay=10,period=100"}, nil)

	// THEN every pod lands after the previous reconciliation and succeeds
	require.NoError(t, err)
	assert.Equal(t, cluster.Results{
		Pods:          6,
		NodeUpdates:   6,
		PodAdmissions: cluster.Admissions{Success: 6},
	}, r)
}

func TestSimulate_PodsAfterDurationAreIgnored(t *testing.T) {
	// GIVEN a 1 second run and bursts every 600 ticks
	cfg := testConfig(1, 1, 100, 0)

	r, err := Simulate(cfg, []string{"burst,count=3,duration=1,period=600"}, nil)

	// THEN only the bursts at 0 and 600 run
	require.NoError(t, err)
	assert.Equal(t, 2, r.Pods)
	assert.Equal(t, r.Pods, r.PodAdmissions.Total())
}

func TestSimulate_PeriodicModeCountsTimerUpdates(t *testing.T) {
	// GIVEN two nodes reconciling every 100 ticks for one second, and no pods
	cfg := testConfig(1, 2, 1, 0.1)

	r, err := Simulate(cfg, []string{"burst,duration=0"}, nil)

	// THEN each node counts its initial update plus ten timer updates
	// (timer updates fall at phase, phase+100, ..., all before the stop at 1000)
	require.NoError(t, err)
	assert.Equal(t, 22, r.NodeUpdates)
	assert.Equal(t, 0, r.Pods)
}
