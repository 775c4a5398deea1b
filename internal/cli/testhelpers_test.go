package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fmueller/voxhold/internal/bootstrap"
	"github.com/fmueller/voxhold/internal/config"
	"github.com/fmueller/voxhold/internal/domain"
	"github.com/fmueller/voxhold/internal/input"
	"github.com/fmueller/voxhold/internal/ports"
	"github.com/fmueller/voxhold/internal/process"
	"github.com/fmueller/voxhold/internal/record"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()
	return runAppCommand(t, context.Background(), newTestApp(nil), args)
}

func runAppCommand(t *testing.T, ctx context.Context, app *appState, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd(app)
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(ctx)
	return outBuf.String(), errBuf.String(), err
}

// writeTestConfig writes a config.toml whose model_dir stays inside the test's temp dir.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[dictate]\nmodel_dir = \"" + filepath.Join(dir, "models") + "\"\nlog_level = \"error\"\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newTestApp(lister *fakeLister) *appState {
	if lister == nil {
		lister = &fakeLister{}
	}
	return &appState{
		settings: config.Defaults(),
		depsFn: func(config.Settings, *zap.Logger) bootstrap.Deps {
			return bootstrap.Deps{
				Lister: lister,
				Finder: process.FinderFunc(func(name string) bool { return name == "wtype" || name == "wl-copy" }),
				Runner: process.NewExecRunner(nil),
				Getenv: func(name string) string {
					if name == "WAYLAND_DISPLAY" {
						return "wayland-1"
					}
					return ""
				},
				Backends:    []record.Backend{fakeBackend{name: "arecord", available: true}},
				Transcriber: fakeTranscriber{},
			}
		},
		buildFn:  bootstrap.Build,
		engineFn: func() (string, error) { return "/opt/whisper/whisper-cli", nil },
	}
}

type fakeDevice struct {
	path    string
	batches [][]domain.KeyEvent
	closed  bool
}

func (d *fakeDevice) Path() string { return d.path }
func (d *fakeDevice) Name() string { return "Fake Keyboard" }

func (d *fakeDevice) Wait(timeout time.Duration) (bool, error) {
	if len(d.batches) > 0 {
		return true, nil
	}
	time.Sleep(5 * time.Millisecond)
	return false, nil
}

func (d *fakeDevice) ReadEvents() ([]domain.KeyEvent, error) {
	if len(d.batches) == 0 {
		return nil, nil
	}
	batch := d.batches[0]
	d.batches = d.batches[1:]
	return batch, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

type fakeLister struct {
	infos   []input.Info
	noKey   bool
	batches [][]domain.KeyEvent
	opened  []*fakeDevice
	openErr error
}

func (l *fakeLister) List() ([]input.Info, error) { return l.infos, nil }

func (l *fakeLister) HasKey(string, uint16) bool { return !l.noKey }

func (l *fakeLister) Open(path string) (ports.InputDevice, error) {
	if l.openErr != nil {
		return nil, l.openErr
	}
	device := &fakeDevice{path: path, batches: l.batches}
	l.opened = append(l.opened, device)
	return device, nil
}

type fakeBackend struct {
	name      string
	available bool
}

func (b fakeBackend) Name() string    { return b.name }
func (b fakeBackend) Available() bool { return b.available }

func (b fakeBackend) Command(outputPath string) process.Command {
	return process.Command{Binary: b.name, Args: []string{outputPath}}
}

func (b fakeBackend) ListDevices(context.Context) (string, error) {
	return "card 0: PCH [HDA Intel PCH]", nil
}

type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(context.Context, string, string) (string, error) {
	return "hello world", nil
}

func keyboardLister() *fakeLister {
	return &fakeLister{infos: []input.Info{
		{Path: "/dev/input/event2", Name: "Logitech USB Receiver Mouse"},
		{Path: "/dev/input/event3", Name: "AT Translated Set 2 keyboard"},
	}}
}
