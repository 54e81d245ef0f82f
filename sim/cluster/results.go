package cluster

// Admissions counts admission attempts by outcome.
type Admissions struct {
	Success        int `json:"success"`
	FailedDirty    int `json:"failed_dirty"`
	FailedCapacity int `json:"failed_capacity"`
}

// Total returns the number of admission attempts.
func (a Admissions) Total() int {
	return a.Success + a.FailedDirty + a.FailedCapacity
}

// Results is the aggregate output of a run. Field order fixes the JSON key order.
type Results struct {
	Pods          int        `json:"pods"`
	NodeUpdates   int        `json:"node_updates"`
	PodAdmissions Admissions `json:"pod_admissions"`
}
