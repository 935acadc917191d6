package follower

import "fmt"

// State is a phase of the control loop.
type State uint8

// The control loop cycles StateAcquire, StateExecute, StateReport and starts over. There is
// no terminal state.
const (
	StateAcquire State = iota
	StateExecute
	StateReport
)

func (s State) String() string {
	switch s {
	case StateAcquire:
		return "acquire"
	case StateExecute:
		return "execute"
	case StateReport:
		return "report"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Next returns the state that follows s. Every state has exactly one outgoing edge. An unknown
// state maps to itself.
func Next(s State) State {
	switch s {
	case StateAcquire:
		return StateExecute
	case StateExecute:
		return StateReport
	case StateReport:
		return StateAcquire
	default:
		return s
	}
}
