package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fmueller/voxhold/internal/ports"
	"go.uber.org/zap"
)

var ErrNoDeviceFound = errors.New("no input device found")

// AutoSelector asks Resolve to pick a device on its own.
const AutoSelector = "auto"

var pointingDeviceMarkers = []string{"mouse", "touchpad"}

type Info struct {
	Path string
	Name string
}

func (i Info) String() string {
	return fmt.Sprintf("%s - %s", i.Path, i.Name)
}

// Lister abstracts the input subsystem so resolution can be tested without /dev/input.
type Lister interface {
	List() ([]Info, error)
	HasKey(path string, code uint16) bool
	Open(path string) (ports.InputDevice, error)
}

// Resolve opens the device named by selector, or auto-detects one that can emit keyCode.
func Resolve(selector string, keyCode uint16, lister Lister, logger *zap.Logger) (ports.InputDevice, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	selector = strings.TrimSpace(selector)
	if selector != "" && !strings.EqualFold(selector, AutoSelector) {
		if _, err := os.Stat(selector); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoDeviceFound, selector, err)
		}
		device, err := lister.Open(selector)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoDeviceFound, err)
		}
		logger.Info("using configured input device", zap.String("path", device.Path()), zap.String("name", device.Name()))
		return device, nil
	}

	infos, err := lister.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDeviceFound, err)
	}

	candidates := make([]Info, 0, len(infos))
	for _, info := range infos {
		if isPointingDevice(info.Name) {
			continue
		}
		candidates = append(candidates, info)
	}
	if len(candidates) == 0 {
		return nil, ErrNoDeviceFound
	}

	chosen := candidates[0]
	matched := false
	for _, info := range candidates {
		if lister.HasKey(info.Path, keyCode) {
			chosen = info
			matched = true
			break
		}
	}
	if !matched {
		logger.Warn("no input device reports the configured key; monitoring the first keyboard-like device instead, set keyboard_device if this is the wrong one",
			zap.String("path", chosen.Path),
			zap.String("name", chosen.Name),
			zap.String("key", KeyName(keyCode)),
		)
	}

	device, err := lister.Open(chosen.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDeviceFound, err)
	}
	logger.Info("using input device", zap.String("path", chosen.Path), zap.String("name", chosen.Name))
	return device, nil
}

// List returns every readable input device.
func List(lister Lister) ([]Info, error) {
	return lister.List()
}

func isPointingDevice(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range pointingDeviceMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func eventIndex(path string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(path), "event"))
	if err != nil {
		return -1
	}
	return n
}
