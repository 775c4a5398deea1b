package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fmueller/voxhold/internal/platform"
	"github.com/fmueller/voxhold/internal/process"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	engineBinaryName = "whisper-cli"
	enginePathEnv    = "VOXHOLD_WHISPER_PATH"
	blankAudioToken  = "[BLANK_AUDIO]"
)

var ErrEngineNotFound = errors.New("whisper engine not found")

// Engine runs whisper-cli against one model per process lifetime.
type Engine struct {
	Executable string
	ModelPath  string
	Runner     process.Runner
	Logger     *zap.Logger
}

// NewEngine locates whisper-cli: VOXHOLD_WHISPER_PATH, then next to the voxhold binary, then PATH.
func NewEngine(modelPath string, runner process.Runner, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = process.NewExecRunner(logger)
	}

	executable, err := LocateEngine()
	if err != nil {
		return nil, err
	}
	logger.Debug("whisper engine located", zap.String("path", executable), zap.String("model", modelPath))
	return &Engine{Executable: executable, ModelPath: modelPath, Runner: runner, Logger: logger}, nil
}

// LocateEngine returns the whisper-cli path NewEngine would use.
func LocateEngine() (string, error) {
	if override := strings.TrimSpace(os.Getenv(enginePathEnv)); override != "" {
		if err := ensureExecutable(override); err != nil {
			return "", fmt.Errorf("%s is not executable: %w", enginePathEnv, err)
		}
		return override, nil
	}

	if self, err := os.Executable(); err == nil {
		for _, candidate := range EnginePathCandidates(self) {
			if ensureExecutable(candidate) == nil {
				return candidate, nil
			}
		}
	}

	if path, err := exec.LookPath(engineBinaryName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: install whisper.cpp's %s or set %s", ErrEngineNotFound, engineBinaryName, enginePathEnv)
}

func EnginePathCandidates(executable string) []string {
	binDir := filepath.Dir(executable)
	hostTarget := fmt.Sprintf("%s_%s", runtime.GOOS, platform.NormalizeArch(runtime.GOARCH))

	return []string{
		filepath.Join(binDir, "..", "libexec", "whisper", engineBinaryName),
		filepath.Join(binDir, "libexec", "whisper", engineBinaryName),
		filepath.Join(binDir, "packaging", "whisper", hostTarget, engineBinaryName),
		filepath.Join(binDir, engineBinaryName),
	}
}

// Transcribe returns the recognised text with whitespace collapsed; blank audio yields "".
func (e *Engine) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", errors.New("audio path is required")
	}
	if strings.TrimSpace(e.ModelPath) == "" {
		return "", errors.New("model path is required")
	}

	outBase := filepath.Join(os.TempDir(), "voxhold-whisper-"+uuid.NewString())
	txtOut := outBase + ".txt"
	defer os.Remove(txtOut)

	args := []string{"-m", e.ModelPath, "-f", audioPath, "-nt", "-np", "-otxt", "-of", outBase}
	if lang := strings.TrimSpace(language); lang != "" && lang != "auto" {
		args = append(args, "-l", lang)
	}

	e.logger().Debug("running whisper engine", zap.String("engine", e.Executable), zap.Strings("args", args))
	if err := e.Runner.Run(ctx, process.Command{Binary: e.Executable, Args: args}); err != nil {
		return "", classifyEngineError(e.Executable, err)
	}

	content, err := os.ReadFile(txtOut)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	text := NormalizeTranscript(string(content))
	if strings.EqualFold(text, blankAudioToken) {
		return "", nil
	}
	return text, nil
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// NormalizeTranscript joins whisper's line-broken output into a single line.
func NormalizeTranscript(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func classifyEngineError(executable string, err error) error {
	detail := err.Error()
	if isMissingSharedLibraryError(detail) {
		return fmt.Errorf("whisper engine at %s is missing required shared libraries; rebuild whisper-cli with BUILD_SHARED_LIBS=OFF: %w", executable, err)
	}
	if isIllegalInstructionError(detail) {
		return fmt.Errorf("whisper engine crashed with an illegal CPU instruction; set %s to a whisper-cli built for this CPU: %w", enginePathEnv, err)
	}
	return fmt.Errorf("whisper transcribe failed: %w", err)
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func isMissingSharedLibraryError(stderr string) bool {
	value := strings.ToLower(stderr)
	for _, pattern := range []string{"error while loading shared libraries", "cannot open shared object file"} {
		if strings.Contains(value, pattern) {
			return true
		}
	}
	return false
}

func isIllegalInstructionError(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "illegal instruction")
}
