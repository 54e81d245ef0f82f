package workload

import "github.com/inference-sim/evalsched/sim/cluster"

// recordingSink captures generated pods in emission order.
type recordingSink struct {
	pods []cluster.PodSpec
}

func (r *recordingSink) CreatePod(pod cluster.PodSpec) {
	r.pods = append(r.pods, pod)
}

func (r *recordingSink) arrivals() []int64 {
	out := make([]int64, len(r.pods))
	for i, p := range r.pods {
		out[i] = p.Arrival
	}
	return out
}
