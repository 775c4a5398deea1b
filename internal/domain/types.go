package domain

// Status is the externally reported lifecycle of the dictation service.
type Status string

const (
	StatusStarting     Status = "starting"
	StatusReady        Status = "ready"
	StatusRecording    Status = "recording"
	StatusTranscribing Status = "transcribing"
	StatusStopping     Status = "stopping"
	StatusStopped      Status = "stopped"
)

// State is the internal per-utterance state machine position.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateStopped      State = "stopped"
)

// EventKind identifies which of the three observer channels an Event belongs to.
type EventKind string

const (
	EventStatus EventKind = "status"
	EventText   EventKind = "text"
	EventError  EventKind = "error"
)

// Event is one ordered message emitted by the service.
type Event struct {
	Kind   EventKind
	Status Status
	Text   string
	Err    error
}

// KeyEvent is a raw input event as read from an evdev device.
type KeyEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

const (
	EventTypeSync uint16 = 0x00
	EventTypeKey  uint16 = 0x01

	KeyReleased int32 = 0
	KeyPressed  int32 = 1
	KeyRepeated int32 = 2
)
