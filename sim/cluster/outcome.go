package cluster

// Outcome is the result of one admission attempt.
type Outcome int

const (
	// Success: the pod was placed on a clean node with free capacity.
	Success Outcome = iota
	// FailedDirty: no clean node existed.
	FailedDirty
	// FailedCapacity: clean nodes existed but none had free capacity.
	FailedCapacity

	numOutcomes
)

var outcomeNames = [numOutcomes]string{
	Success:        "success",
	FailedDirty:    "failed_dirty",
	FailedCapacity: "failed_capacity",
}

func (o Outcome) String() string {
	if o < 0 || o >= numOutcomes {
		return "unknown"
	}
	return outcomeNames[o]
}

// Outcomes lists every outcome in declaration order.
func Outcomes() []Outcome {
	return []Outcome{Success, FailedDirty, FailedCapacity}
}
