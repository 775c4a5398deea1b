package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fmueller/voxhold/internal/domain"
	"github.com/fmueller/voxhold/internal/input"
	"github.com/fmueller/voxhold/internal/ports"
	"github.com/fmueller/voxhold/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newKeyTestCmd(app *appState) *cobra.Command {
	var (
		all     bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "key-test",
		Short: "Print press and release events of the dictation key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keyCode, err := input.ParseKey(app.settings.Key)
			if err != nil {
				return err
			}

			device, err := input.Resolve(app.settings.KeyboardDevice, keyCode, app.deps().Lister, app.log())
			if err != nil {
				return err
			}
			defer func() {
				if err := device.Close(); err != nil {
					app.log().Debug("close input device", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Listening on %s (%s) for %s; press Ctrl+C to stop\n", device.Path(), device.Name(), input.KeyName(keyCode))

			stopCountdown := startCountdown(app.progressEnabled(), "listening", timeout)
			defer stopCountdown()

			return watchKeys(ctx, device, keyCode, all, out)
		},
	}

	cmd.Flags().BoolVar(&all, "all", all, "Print every key, not only the dictation key")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "Stop listening after this long, e.g. 30s; 0 means until interrupted")
	return cmd
}

// watchKeys prints key transitions until ctx is done.
func watchKeys(ctx context.Context, device ports.InputDevice, keyCode uint16, all bool, out io.Writer) error {
	for ctx.Err() == nil {
		readable, err := device.Wait(service.DefaultPollTimeout)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", service.ErrDeviceLost, device.Path(), err)
		}
		if !readable {
			continue
		}

		events, err := device.ReadEvents()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", service.ErrDeviceLost, device.Path(), err)
		}
		for _, ev := range events {
			if ev.Type != domain.EventTypeKey {
				continue
			}
			if !all && ev.Code != keyCode {
				continue
			}
			fmt.Fprintf(out, "%s %s\n", input.KeyName(ev.Code), transition(ev.Value))
		}
	}
	return nil
}

func transition(value int32) string {
	switch value {
	case domain.KeyPressed:
		return "down"
	case domain.KeyReleased:
		return "up"
	case domain.KeyRepeated:
		return "repeat"
	default:
		return fmt.Sprintf("value=%d", value)
	}
}
