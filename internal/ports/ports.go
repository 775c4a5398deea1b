package ports

import (
	"context"
	"time"

	"github.com/fmueller/voxhold/internal/domain"
)

// InputDevice is an open keyboard-class device.
type InputDevice interface {
	Path() string
	Name() string
	// Wait blocks up to timeout for the descriptor to become readable.
	Wait(timeout time.Duration) (bool, error)
	ReadEvents() ([]domain.KeyEvent, error)
	Close() error
}

// Recording is a live capture session writing to a temporary file.
type Recording interface {
	ID() string
	Path() string
	Stop() error
}

// Recorder starts capture sessions. Start must not block on the capture itself.
type Recorder interface {
	Start(ctx context.Context) (Recording, error)
}

// Transcriber turns a finished audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Paster injects text into the focused application.
type Paster interface {
	Paste(ctx context.Context, text string) error
}

// EventSink receives status, text and error events in emission order.
type EventSink interface {
	StatusChanged(status domain.Status)
	Transcript(text string)
	Error(err error)
}
