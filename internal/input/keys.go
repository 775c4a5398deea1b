package input

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
)

var ErrUnknownKey = errors.New("unknown key name")

const keyPrefix = "KEY_"

const (
	KeyLeftCtrl  = uint16(evdev.KEY_LEFTCTRL)
	KeyLeftShift = uint16(evdev.KEY_LEFTSHIFT)
	KeyV         = uint16(evdev.KEY_V)
	KeyRightCtrl = uint16(evdev.KEY_RIGHTCTRL)
	KeyCapsLock  = uint16(evdev.KEY_CAPSLOCK)
	KeyFn        = uint16(evdev.KEY_FN)
	maxKeyCode   = uint16(evdev.KEY_MAX)
)

// ParseKey maps any kernel KEY_* name, with or without the prefix and in any case, to its
// evdev code. The numeric form KEY_<code> that KeyName falls back to is accepted as well.
func ParseKey(name string) (uint16, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	if !strings.HasPrefix(normalized, keyPrefix) {
		normalized = keyPrefix + normalized
	}

	if code, ok := evdev.KEYFromString[normalized]; ok {
		return uint16(code), nil
	}
	if n, err := strconv.ParseUint(strings.TrimPrefix(normalized, keyPrefix), 10, 16); err == nil && uint16(n) <= maxKeyCode {
		return uint16(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// KeyName returns the kernel name for code, or a numeric placeholder.
func KeyName(code uint16) string {
	if name, ok := evdev.KEYToString[evdev.EvCode(code)]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", code)
}

// KnownKeys lists every accepted key name.
func KnownKeys() []string {
	names := make([]string, 0, len(evdev.KEYFromString))
	for name := range evdev.KEYFromString {
		if strings.HasPrefix(name, keyPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
