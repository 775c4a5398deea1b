package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fmueller/voxhold/internal/bootstrap"
	"github.com/fmueller/voxhold/internal/config"
	"github.com/fmueller/voxhold/internal/logging"
	"github.com/fmueller/voxhold/internal/platform"
	"github.com/fmueller/voxhold/internal/ports"
	"github.com/fmueller/voxhold/internal/transcribe"
	"github.com/fmueller/voxhold/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const defaultLogFileSelector = "default"

type appState struct {
	configPath  string
	verbose     bool
	jsonLogs    bool
	noProgress  bool
	listDevices bool
	gui         bool

	settings config.Settings
	logger   *zap.Logger

	depsFn   func(settings config.Settings, logger *zap.Logger) bootstrap.Deps
	buildFn  func(ctx context.Context, settings config.Settings, deps bootstrap.Deps, sink ports.EventSink, logger *zap.Logger) (bootstrap.Services, error)
	engineFn func() (string, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&appState{
		settings: config.Defaults(),
		depsFn:   bootstrap.DefaultDeps,
		buildFn:  bootstrap.Build,
		engineFn: transcribe.LocateEngine,
	})
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "voxhold",
		Short:         "Hold a key, speak, release: the transcript is typed into the focused window",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd == cmd.Root() && !app.listDevices)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runDaemon(cmd)
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&app.configPath, "config", app.configPath, "Path to config.toml (default $XDG_CONFIG_HOME/voxhold/config.toml)")
	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
	cmd.Flags().BoolVar(&app.listDevices, "list-devices", app.listDevices, "List input devices and exit")
	cmd.Flags().BoolVar(&app.gui, "gui", app.gui, "Show the live troubleshooting monitor while dictating")

	cmd.AddCommand(newDevicesCmd(app))
	cmd.AddCommand(newKeyTestCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// prepare loads settings and builds the logger. Only the daemon writes a default config file.
func (a *appState) prepare(writeDefault bool) error {
	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}

	created := false
	if writeDefault {
		if created, err = config.EnsureDefault(path); err != nil {
			return err
		}
	}

	settings, err := config.Load(path)
	if err != nil {
		return err
	}

	logFile, err := resolveLogFile(settings.LogFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:   settings.LogLevel,
		Verbose: a.verbose,
		JSON:    a.jsonLogs,
		File:    logFile,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	a.configPath = path
	a.settings = settings
	a.logger = logger
	if created {
		logger.Info("wrote default config", zap.String("path", path))
	}
	return nil
}

func (a *appState) resolveConfigPath() (string, error) {
	if strings.TrimSpace(a.configPath) != "" {
		return a.configPath, nil
	}
	return config.DefaultPath()
}

func resolveLogFile(value string) (string, error) {
	if !strings.EqualFold(value, defaultLogFileSelector) {
		return value, nil
	}
	dirs, err := platform.CurrentDirs()
	if err != nil {
		return "", err
	}
	return dirs.LogFile(), nil
}

func (a *appState) deps() bootstrap.Deps {
	deps := a.depsFn(a.settings, a.log())
	deps.NoProgress = !a.progressEnabled()
	return deps
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

