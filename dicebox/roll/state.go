package roll

// State is where a session is in a throw.
type State int

const (
	// StateIdle holds a published result, or no result before the first roll.
	StateIdle State = iota
	// StateInFlight is set while at least one die is moving.
	StateInFlight
	// StateSettling runs the debounce timer.
	StateSettling
	// StateCheck reads the faces. The session only passes through it within a
	// single Tick.
	StateCheck
)

// String ...
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateSettling:
		return "settling"
	case StateCheck:
		return "check"
	default:
		return "unknown"
	}
}
