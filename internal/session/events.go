package session

import "github.com/coreway/termwatch/internal/model"

// EventKind tags the closed set of events a driver emits.
type EventKind string

const (
	EventData            EventKind = "data"
	EventStateChange     EventKind = "state_change"
	EventConfirmRequired EventKind = "confirm_required"
	EventOutput          EventKind = "output"
	EventExit            EventKind = "exit"
)

// Event is the payload every driver publishes on its Bus. Only the
// field matching Kind is populated.
type Event struct {
	Kind EventKind

	Data []byte

	FromState model.SessionState
	ToState   model.SessionState

	ConfirmInfo *model.ConfirmInfo

	Output *model.SemanticOutput

	ExitErr error
}
