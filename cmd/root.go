package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/evalsched/sim"
	"github.com/inference-sim/evalsched/sim/cluster"
	"github.com/inference-sim/evalsched/sim/trace"
	"github.com/inference-sim/evalsched/sim/workload"
)

var (
	// CLI flags
	configPath  string  // Cluster definition file ("-" for stdin)
	seed        int64   // Overrides random_seed when set
	duration    float64 // Overrides duration_seconds when set
	dumpEvents  bool    // Log every executed event
	logLevel    string  // Log verbosity level
	traceOutput string  // Path for the YAML admission summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "evalsched",
	Short: "Discrete-event simulator for admission scheduling on stale node state",
}

// runCmd executes the simulation using the configuration file, CLI flags and
// the distribution arguments.
var runCmd = &cobra.Command{
	Use:   "run [flags] DIST...",
	Short: "Run the scheduling simulation",
	Long: `Run the scheduling simulation and print aggregate statistics as JSON.

Each DIST is a pod arrival distribution written as name,key=value,...
Supported distributions:
  burst,count=1,duration=10,delay=1,period=0,lifetime=0
  poisson,count=10,mean=100,start=0,lifetime=0
Delays, periods and lifetimes are in ticks (milliseconds).`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %s", logLevel)
		}
		if dumpEvents {
			level = logrus.DebugLevel
		}
		logrus.SetLevel(level)
		logrus.SetOutput(cmd.ErrOrStderr())

		cfg, err := LoadConfig(configPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.RandomSeed = seed
		}
		if cmd.Flags().Changed("duration") {
			cfg.DurationSeconds = &duration
		}

		var st *trace.SimulationTrace
		if traceOutput != "" {
			st = trace.NewSimulationTrace(trace.TraceLevelDecisions)
		}

		results, err := Simulate(cfg, args, st)
		if err != nil {
			return err
		}
		if err := writeResults(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if st != nil {
			if err := writeTraceSummary(traceOutput, st); err != nil {
				return err
			}
		}
		logrus.Info("Simulation complete.")
		return nil
	},
}

// Simulate runs one simulation. Configuration and distribution errors are
// returned before any event executes. st may be nil.
func Simulate(cfg *Config, distArgs []string, st *trace.SimulationTrace) (cluster.Results, error) {
	if err := cfg.Validate(); err != nil {
		return cluster.Results{}, err
	}
	dists, err := workload.ParseAll(distArgs)
	if err != nil {
		return cluster.Results{}, err
	}

	s := sim.NewSimulator(sim.NewSimulationKey(cfg.RandomSeed))
	c, err := cluster.New(s, cfg.ClusterConfig())
	if err != nil {
		return cluster.Results{}, err
	}
	c.SetTrace(st)
	logrus.Info(c)

	s.Start()
	s.StopAt(cfg.DurationTicks())

	for _, d := range dists {
		logrus.Infof("applying distribution: %s", d)
		if err := d.Apply(c, s.RNG); err != nil {
			return cluster.Results{}, fmt.Errorf("failed applying dist %s: %w", d, err)
		}
	}

	logrus.Infof("Starting simulation with %d nodes, capacity=%d, update_period=%dticks, duration=%dticks, seed=%d",
		cfg.Nodes.Number, cfg.Nodes.Capacity, cfg.ClusterConfig().UpdatePeriod, cfg.DurationTicks(), cfg.RandomSeed)
	if err := s.Run(); err != nil {
		return cluster.Results{}, fmt.Errorf("simulation failed: %w", err)
	}
	return c.Results(), nil
}

func writeResults(w io.Writer, r cluster.Results) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTraceSummary(path string, st *trace.SimulationTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace output: %w", err)
	}
	if err := trace.Summarize(st).WriteYAML(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing trace output: %w", err)
	}
	return f.Close()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Cluster definition file path (- for stdin)")
	runCmd.Flags().Int64VarP(&seed, "seed", "S", DefaultRandomSeed, "Set random seed (overrides random_seed)")
	runCmd.Flags().Float64VarP(&duration, "duration", "D", 0, "Set simulation duration in seconds (overrides duration_seconds)")
	runCmd.Flags().BoolVarP(&dumpEvents, "events", "E", false, "Dump simulation event log to stderr")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceOutput, "trace-output", "", "Write a YAML summary of admission decisions to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
