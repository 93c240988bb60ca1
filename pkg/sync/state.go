package sync

// State is a step of a sync run.
type State string

// States, in the order a run visits them. Failed is reachable from any step
// and ends the run.
const (
	StateFetching  State = "fetching"
	StateMapping   State = "mapping"
	StateLookingUp State = "looking up"
	StateCreating  State = "creating"
	StateUpdating  State = "updating"
	StateDone      State = "done"
	StateFailed    State = "failed"
)
