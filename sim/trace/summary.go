package trace

import (
	"io"

	"gopkg.in/yaml.v3"
)

// OutcomeWindow is the virtual-time span over which an outcome was observed.
type OutcomeWindow struct {
	Count int   `yaml:"count"`
	First int64 `yaml:"first"`
	Last  int64 `yaml:"last"`
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions    int                      `yaml:"total_decisions"`
	Outcomes          map[string]OutcomeWindow `yaml:"outcomes"`
	NodeDistribution  map[string]int           `yaml:"node_distribution"` // node name → admitted pods
	UniqueTargets     int                      `yaml:"unique_targets"`
	MeanCleanNodes    float64                  `yaml:"mean_clean_nodes"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Outcomes:         make(map[string]OutcomeWindow),
		NodeDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Admissions)
	totalClean := 0
	for _, a := range st.Admissions {
		w, seen := summary.Outcomes[a.Outcome]
		if !seen {
			w.First = a.Clock
		}
		w.Count++
		w.Last = a.Clock
		summary.Outcomes[a.Outcome] = w

		if a.Node != "" {
			summary.NodeDistribution[a.Node]++
		}
		totalClean += a.CleanNodes
	}
	if summary.TotalDecisions > 0 {
		summary.MeanCleanNodes = float64(totalClean) / float64(summary.TotalDecisions)
	}
	summary.UniqueTargets = len(summary.NodeDistribution)

	return summary
}

// WriteYAML encodes the summary as YAML. Map keys are emitted sorted, so the
// output is stable for a given trace.
func (s *TraceSummary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
