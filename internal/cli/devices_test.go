package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDevicesCommandListsAudioBackends(t *testing.T) {
	t.Parallel()

	path := writeTestConfig(t, "")
	stdout, _, err := runAppCommand(t, context.Background(), newTestApp(keyboardLister()), []string{"--config", path, "devices", "--audio"})
	require.NoError(t, err)
	require.Contains(t, stdout, "/dev/input/event3 - AT Translated Set 2 keyboard\n")
	require.Contains(t, stdout, "== arecord ==\ncard 0: PCH [HDA Intel PCH]\n")
}

func TestPrintInputDevicesWithoutDevices(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	require.NoError(t, printInputDevices(out, &fakeLister{}))
	require.Contains(t, out.String(), "input group")
}
