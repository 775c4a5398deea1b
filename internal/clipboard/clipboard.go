package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fmueller/voxhold/internal/process"
)

var ErrUnavailable = errors.New("no clipboard command available")

const copyTimeout = 4 * time.Second

// Helper is a clipboard tool that reads the new contents from stdin.
type Helper struct {
	Name  string
	Args  []string
	forks bool
}

var (
	WLCopy = Helper{Name: "wl-copy"}
	XClip  = Helper{Name: "xclip", Args: []string{"-selection", "clipboard", "-in"}, forks: true}
)

// Detect returns the first clipboard helper found on PATH.
func Detect(finder process.Finder) (Helper, error) {
	for _, helper := range []Helper{WLCopy, XClip} {
		if finder.Available(helper.Name) {
			return helper, nil
		}
	}
	return Helper{}, ErrUnavailable
}

func (h Helper) Command(text string) process.Command {
	return process.Command{
		Binary: h.Name,
		Args:   append([]string(nil), h.Args...),
		Stdin:  strings.NewReader(text),
		Forks:  h.forks,
	}
}

// Copy replaces the clipboard contents with text.
func (h Helper) Copy(ctx context.Context, runner process.Runner, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if h.Name == "" {
		return ErrUnavailable
	}

	copyCtx, cancel := context.WithTimeout(ctx, copyTimeout)
	defer cancel()

	if err := runner.Run(copyCtx, h.Command(text)); err != nil {
		if errors.Is(copyCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("copy to clipboard timed out: %w", copyCtx.Err())
		}
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
