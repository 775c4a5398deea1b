package paste

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fmueller/voxhold/internal/clipboard"
	"github.com/fmueller/voxhold/internal/process"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Clipboard-assisted paste policies.
const (
	ClipboardAuto = "auto"
	ClipboardOn   = "on"
	ClipboardOff  = "off"
)

type Options struct {
	Hotkey         string
	ClipboardPaste string
	KeyDelayMS     int
	ClipboardDelay time.Duration
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Dispatcher delivers text with a fixed method, trying that method's fallbacks in order.
type Dispatcher struct {
	method Method
	opts   Options
	hotkey Hotkey
	runner process.Runner
	finder process.Finder
	logger *zap.Logger

	getenv func(string) string
	exists func(string) bool
	uid    func() int
	sleep  func(context.Context, time.Duration) error
}

func NewDispatcher(method Method, opts Options, runner process.Runner, finder process.Finder, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		method: method,
		opts:   opts,
		hotkey: ResolveHotkey(opts.Hotkey),
		runner: runner,
		finder: finder,
		logger: logger,
		getenv: os.Getenv,
		exists: pathExists,
		uid:    unix.Getuid,
		sleep:  sleepContext,
	}
}

func (d *Dispatcher) Method() Method {
	return d.method
}

// Paste types or pastes text into the focused window. Empty text is a no-op.
func (d *Dispatcher) Paste(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	var errs []error
	for _, s := range d.steps(text) {
		err := s.run(ctx)
		if err == nil {
			d.logger.Debug("text delivered", zap.String("method", d.method.String()), zap.String("step", s.name), zap.Int("chars", len(text)))
			return nil
		}
		d.logger.Debug("paste step failed", zap.String("method", d.method.String()), zap.String("step", s.name), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w via %s: %w", ErrPasteFailed, d.method, errors.Join(errs...))
}

func (d *Dispatcher) steps(text string) []step {
	switch d.method {
	case Xdotool:
		return []step{
			{name: "xdotool type", run: d.command(process.Command{Binary: "xdotool", Args: []string{"type", "--clearmodifiers", "--delay", "1", "--", text}})},
		}
	case Wtype:
		return []step{
			{name: "wtype", run: d.command(process.Command{Binary: "wtype", Args: []string{"-d", "1", "--", text}})},
			{name: "wtype stdin", run: d.command(process.Command{Binary: "wtype", Args: []string{"-"}, Stdin: strings.NewReader(text)})},
			{name: "wtype clipboard", run: d.wtypeClipboard(text)},
		}
	case Ydotool:
		var steps []step
		if d.opts.ClipboardPaste != ClipboardOff {
			if helper, err := clipboard.Detect(d.finder); err == nil {
				steps = append(steps, step{name: "ydotool clipboard", run: d.ydotoolClipboard(helper, text)})
			} else if d.opts.ClipboardPaste == ClipboardOn {
				d.logger.Warn("clipboard_paste is on but no clipboard helper is installed")
			}
		}
		return append(steps, step{name: "ydotool type", run: d.ydotoolType(text)})
	case WLCopy:
		return []step{
			{name: "wl-copy", run: func(ctx context.Context) error { return clipboard.WLCopy.Copy(ctx, d.runner, text) }},
		}
	default:
		return []step{{name: string(d.method), run: func(context.Context) error {
			return fmt.Errorf("%w: %q", ErrUnknownMethod, d.method)
		}}}
	}
}

func (d *Dispatcher) command(cmd process.Command) func(context.Context) error {
	return func(ctx context.Context) error {
		return d.runner.Run(ctx, cmd)
	}
}

func (d *Dispatcher) wtypeClipboard(text string) func(context.Context) error {
	return func(ctx context.Context) error {
		helper, err := clipboard.Detect(d.finder)
		if err != nil {
			return err
		}
		if err := helper.Copy(ctx, d.runner, text); err != nil {
			return err
		}
		return d.runner.Run(ctx, process.Command{Binary: "wtype", Args: wtypePasteArgs(d.hotkey)})
	}
}

func (d *Dispatcher) ydotoolClipboard(helper clipboard.Helper, text string) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := helper.Copy(ctx, d.runner, text); err != nil {
			return err
		}
		if err := d.sleep(ctx, d.opts.ClipboardDelay); err != nil {
			return err
		}
		return d.runner.Run(ctx, process.Command{
			Binary: "ydotool",
			Args:   ydotoolKeyArgs(d.hotkey, d.opts.KeyDelayMS),
			Env:    d.ydotoolEnv(),
		})
	}
}

func (d *Dispatcher) ydotoolType(text string) func(context.Context) error {
	return func(ctx context.Context) error {
		return d.runner.Run(ctx, process.Command{
			Binary: "ydotool",
			Args:   []string{"type", "-d", strconv.Itoa(d.opts.KeyDelayMS), "--file", "-"},
			Env:    d.ydotoolEnv(),
			Stdin:  strings.NewReader(text),
		})
	}
}

func (d *Dispatcher) ydotoolEnv() []string {
	socket := resolveYdotoolSocket(d.getenv, d.exists, d.uid())
	if socket == "" {
		return nil
	}
	return []string{socketEnvVar + "=" + socket}
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
