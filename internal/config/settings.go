package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the [dictate] table of config.toml. It is read once at startup.
type Settings struct {
	Key                   string  `mapstructure:"key" validate:"required"`
	KeyboardDevice        string  `mapstructure:"keyboard_device" validate:"required"`
	Model                 string  `mapstructure:"model" validate:"required"`
	Language              string  `mapstructure:"language"`
	PasteMethod           string  `mapstructure:"paste_method"`
	PasteHotkey           string  `mapstructure:"paste_hotkey"`
	ClipboardPaste        string  `mapstructure:"clipboard_paste" validate:"oneof=auto on off"`
	YdotoolKeyDelayMS     int     `mapstructure:"ydotool_key_delay_ms" validate:"gte=0,lte=5000"`
	ClipboardPasteDelayMS int     `mapstructure:"clipboard_paste_delay_ms" validate:"gte=0,lte=5000"`
	Recorder              string  `mapstructure:"recorder" validate:"oneof=auto arecord pw-record ffmpeg"`
	CaptureDevice         string  `mapstructure:"capture_device"`
	ModelDir              string  `mapstructure:"model_dir"`
	AutoDownload          bool    `mapstructure:"auto_download"`
	SilenceGate           bool    `mapstructure:"silence_gate"`
	SilenceThresholdDBFS  float64 `mapstructure:"silence_threshold_dbfs" validate:"lte=0"`
	LogFile               string  `mapstructure:"log_file"`
	LogLevel              string  `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
}

func Defaults() Settings {
	return Settings{
		Key:                   "KEY_FN",
		KeyboardDevice:        "auto",
		Model:                 "base.en",
		Language:              "en",
		PasteMethod:           "auto",
		PasteHotkey:           "auto",
		ClipboardPaste:        "auto",
		YdotoolKeyDelayMS:     1,
		ClipboardPasteDelayMS: 75,
		Recorder:              "auto",
		AutoDownload:          true,
		SilenceGate:           true,
		SilenceThresholdDBFS:  -65,
		LogLevel:              "info",
	}
}

func (s Settings) ClipboardPasteDelay() time.Duration {
	return time.Duration(s.ClipboardPasteDelayMS) * time.Millisecond
}

func (s *Settings) normalize() {
	s.Key = strings.TrimSpace(s.Key)
	s.KeyboardDevice = strings.TrimSpace(s.KeyboardDevice)
	s.Model = strings.TrimSpace(s.Model)
	s.Language = strings.TrimSpace(s.Language)
	s.PasteMethod = strings.ToLower(strings.TrimSpace(s.PasteMethod))
	s.ClipboardPaste = strings.ToLower(strings.TrimSpace(s.ClipboardPaste))
	s.Recorder = strings.ToLower(strings.TrimSpace(s.Recorder))
	s.CaptureDevice = strings.TrimSpace(s.CaptureDevice)
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.ModelDir = strings.TrimSpace(s.ModelDir)
	s.LogFile = strings.TrimSpace(s.LogFile)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("mapstructure")
		})
	})
	return validate
}

// Validate reports every invalid field using its config.toml key.
func (s Settings) Validate() error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Field()+": "+describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
