// Package trace provides admission-decision recording for offline inspection.
// This package has no dependencies on sim/ or sim/cluster/ — it stores pure data types.
package trace

// AdmissionRecord captures a single admission decision.
type AdmissionRecord struct {
	Pod     string `yaml:"pod"`
	Clock   int64  `yaml:"clock"`
	Outcome string `yaml:"outcome"`
	Node    string `yaml:"node,omitempty"` // empty unless the pod was admitted
	// CleanNodes and FreeNodes count the candidates seen by the scheduler.
	CleanNodes int `yaml:"clean_nodes"`
	FreeNodes  int `yaml:"free_nodes"`
}
