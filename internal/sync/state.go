package sync

// State is the terminal state of one project pass.
type State string

const (
	// StateDone means the shared file was fully written.
	StateDone State = "done"

	// StateSkipped means the local file could not be opened. The shared file
	// exists and is empty.
	StateSkipped State = "skipped"

	// StateFailed means the shared file could not be created or written.
	StateFailed State = "failed"

	// StatePlanned means the project was only inspected (dry run).
	StatePlanned State = "planned"

	// StateCanceled means the run was canceled before the project started.
	StateCanceled State = "canceled"
)

// AllStates returns all project states.
func AllStates() []State {
	return []State{StateDone, StateSkipped, StateFailed, StatePlanned, StateCanceled}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Description returns a human-readable description of the state.
func (s State) Description() string {
	switch s {
	case StateDone:
		return "Bookmarks written to the shared repository"
	case StateSkipped:
		return "No local bookmarks, shared file left empty"
	case StateFailed:
		return "Shared bookmark file could not be written"
	case StatePlanned:
		return "Would be synced (dry run)"
	case StateCanceled:
		return "Not attempted, run was canceled"
	default:
		return "Unknown state"
	}
}
