package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner executes commands where success is decided by exit status alone.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

type ExecRunner struct {
	Logger *zap.Logger
}

func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{Logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if cmd.Binary == "" {
		return errors.New("process: binary is required")
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // tool invocations are the purpose of this package
	c.Env = mergeEnv(cmd.Env)
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	var stderr bytes.Buffer
	if !cmd.Forks {
		c.Stderr = &stderr
	}

	err := c.Run()
	r.logger().Debug("tool invocation finished", zap.String("binary", cmd.Binary), zap.Int("exit_code", exitCode(c)), zap.Error(err))
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", cmd.Binary, ctx.Err())
	}

	detail := strings.TrimSpace(stderr.String())
	if detail != "" {
		return fmt.Errorf("%s: %w (%s)", cmd.Binary, err, detail)
	}
	return fmt.Errorf("%s: %w", cmd.Binary, err)
}

func (r *ExecRunner) logger() *zap.Logger {
	if r == nil || r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// LookPath looks up tools on PATH.
type LookPath struct{}

func (LookPath) Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func exitCode(c *exec.Cmd) int {
	if c.ProcessState == nil {
		return -1
	}
	return c.ProcessState.ExitCode()
}

func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}
