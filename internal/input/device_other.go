//go:build !linux

package input

import (
	"errors"

	"github.com/fmueller/voxhold/internal/ports"
)

var errUnsupported = errors.New("evdev input is only available on linux")

type SystemLister struct{}

func (SystemLister) List() ([]Info, error) { return nil, errUnsupported }

func (SystemLister) HasKey(string, uint16) bool { return false }

func (SystemLister) Open(string) (ports.InputDevice, error) { return nil, errUnsupported }
