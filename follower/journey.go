package follower

import "time"

// Journey is the record of one pass through execution and reporting.
type Journey struct {
	Cycle       int
	Start       time.Time
	End         time.Time
	GoalsIssued int
	// Preempted is set when a reset stopped the journey before every waypoint was visited.
	Preempted bool
}

// Elapsed is the time between the start of execution and the report.
func (j Journey) Elapsed() time.Duration {
	return j.End.Sub(j.Start)
}
