package cli

import (
	"fmt"
	"io"

	"github.com/fmueller/voxhold/internal/domain"
)

var statusLabels = map[domain.Status]string{
	domain.StatusStarting:     "starting",
	domain.StatusReady:        "ready, hold the key to dictate",
	domain.StatusRecording:    "recording",
	domain.StatusTranscribing: "transcribing",
	domain.StatusStopping:     "stopping",
	domain.StatusStopped:      "stopped",
}

func statusLabel(status domain.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// runMonitor renders service events until the channel is closed.
func runMonitor(events <-chan domain.Event, out io.Writer, spinner *statusSpinner) {
	defer spinner.Stop()

	for ev := range events {
		switch ev.Kind {
		case domain.EventStatus:
			spinner.Describe(statusLabel(ev.Status))
			fmt.Fprintf(out, "status: %s\n", ev.Status)
		case domain.EventText:
			fmt.Fprintf(out, "text: %s\n", ev.Text)
		case domain.EventError:
			fmt.Fprintf(out, "error: %v\n", ev.Err)
		}
	}
}
