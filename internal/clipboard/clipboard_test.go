package clipboard

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fmueller/voxhold/internal/process"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	commands []process.Command
	stdin    []string
	err      error
}

func (r *recordingRunner) Run(_ context.Context, cmd process.Command) error {
	r.commands = append(r.commands, cmd)
	if cmd.Stdin != nil {
		raw, _ := io.ReadAll(cmd.Stdin)
		r.stdin = append(r.stdin, string(raw))
	}
	return r.err
}

func available(names ...string) process.Finder {
	return process.FinderFunc(func(name string) bool {
		for _, candidate := range names {
			if candidate == name {
				return true
			}
		}
		return false
	})
}

func TestDetectPrefersWLCopy(t *testing.T) {
	t.Parallel()

	helper, err := Detect(available("xclip", "wl-copy"))
	require.NoError(t, err)
	require.Equal(t, "wl-copy", helper.Name)

	helper, err = Detect(available("xclip"))
	require.NoError(t, err)
	require.Equal(t, "xclip", helper.Name)
	require.Equal(t, []string{"-selection", "clipboard", "-in"}, helper.Args)

	_, err = Detect(available())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCopyFeedsTextOnStdin(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	require.NoError(t, XClip.Copy(context.Background(), runner, "hello"))
	require.Len(t, runner.commands, 1)
	require.Equal(t, "xclip", runner.commands[0].Binary)
	require.True(t, runner.commands[0].Forks)
	require.Equal(t, []string{"hello"}, runner.stdin)
}

func TestCopyWrapsRunnerError(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{err: errors.New("exit status 1")}
	err := WLCopy.Copy(context.Background(), runner, "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "copy to clipboard")

	require.ErrorIs(t, Helper{}.Copy(context.Background(), runner, "x"), ErrUnavailable)
}
