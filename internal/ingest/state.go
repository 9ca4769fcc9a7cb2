package ingest

// State is the coordinator's connection state.
type State uint8

const (
	Idle State = iota
	Connecting
	Live
	Reconnecting
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Live:
		return "live"
	case Reconnecting:
		return "reconnecting"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Running reports whether the loop goroutine owns the state.
func (s State) Running() bool {
	return s == Connecting || s == Live || s == Reconnecting
}
