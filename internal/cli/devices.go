package cli

import (
	"fmt"
	"io"

	"github.com/fmueller/voxhold/internal/input"
	"github.com/fmueller/voxhold/internal/record"
	"github.com/spf13/cobra"
)

func newDevicesCmd(app *appState) *cobra.Command {
	var audio bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List input devices that can be monitored for the dictation key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps := app.deps()
			if err := printInputDevices(cmd.OutOrStdout(), deps.Lister); err != nil {
				return err
			}
			if !audio {
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			for _, backend := range deps.Backends {
				printBackendDevices(cmd, out, backend)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&audio, "audio", audio, "Also list capture devices of every recorder backend")
	return cmd
}

func printInputDevices(out io.Writer, lister input.Lister) error {
	infos, err := input.List(lister)
	if err != nil {
		return fmt.Errorf("list input devices: %w", err)
	}
	if len(infos) == 0 {
		fmt.Fprintln(out, "no readable input devices (is your user in the input group?)")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintln(out, info.String())
	}
	return nil
}

func printBackendDevices(cmd *cobra.Command, out io.Writer, backend record.Backend) {
	fmt.Fprintf(out, "== %s ==\n", backend.Name())
	if !backend.Available() {
		fmt.Fprintln(out, "not available on PATH")
		fmt.Fprintln(out)
		return
	}

	listing, err := backend.ListDevices(cmd.Context())
	switch {
	case err != nil:
		fmt.Fprintf(out, "failed to list devices: %v\n", err)
	case listing == "":
		fmt.Fprintln(out, "no output")
	default:
		fmt.Fprintln(out, listing)
	}
	fmt.Fprintln(out)
}
