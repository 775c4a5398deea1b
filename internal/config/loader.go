package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmueller/voxhold/internal/platform"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix   = "VOXHOLD"
	table       = "dictate"
	envFileName = "voxhold.env"
)

type fileLayout struct {
	Dictate Settings `mapstructure:"dictate"`
}

// DefaultPath is $XDG_CONFIG_HOME/voxhold/config.toml.
func DefaultPath() (string, error) {
	dirs, err := platform.CurrentDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigFile(), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	d := Defaults()
	set := func(key string, value any) { v.SetDefault(table+"."+key, value) }
	set("key", d.Key)
	set("keyboard_device", d.KeyboardDevice)
	set("model", d.Model)
	set("language", d.Language)
	set("paste_method", d.PasteMethod)
	set("paste_hotkey", d.PasteHotkey)
	set("clipboard_paste", d.ClipboardPaste)
	set("ydotool_key_delay_ms", d.YdotoolKeyDelayMS)
	set("clipboard_paste_delay_ms", d.ClipboardPasteDelayMS)
	set("recorder", d.Recorder)
	set("capture_device", d.CaptureDevice)
	set("model_dir", d.ModelDir)
	set("auto_download", d.AutoDownload)
	set("silence_gate", d.SilenceGate)
	set("silence_threshold_dbfs", d.SilenceThresholdDBFS)
	set("log_file", d.LogFile)
	set("log_level", d.LogLevel)
	return v
}

// Load reads path (missing means defaults), applies VOXHOLD_DICTATE_* overrides, including
// those from an optional voxhold.env next to the file, and validates the result.
func Load(path string) (Settings, error) {
	if path != "" {
		if err := loadEnvFile(filepath.Join(filepath.Dir(path), envFileName)); err != nil {
			return Settings{}, err
		}
	}

	v := newViper()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Settings{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var layout fileLayout
	if err := v.Unmarshal(&layout); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}

	settings := layout.Dictate
	settings.normalize()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// EnsureDefault writes a config file holding the defaults when none exists yet.
func EnsureDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	if err := newViper().SafeWriteConfigAs(path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return false, nil
		}
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
