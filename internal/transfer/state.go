package transfer

import "fmt"

// State is the session lifecycle of the transfer flow. Errors are an overlay
// (the error slot), not a state of their own.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Submitting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// allowedTransitions enumerates the legal moves. Anything else is a
// programming error and is rejected rather than silently applied.
var allowedTransitions = map[State][]State{
	Disconnected: {Connecting},
	Connecting:   {Connected, Disconnected},
	Connected:    {Submitting, Disconnected},
	Submitting:   {Connected, Disconnected},
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
