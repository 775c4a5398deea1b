package paste

import (
	"strconv"
	"strings"

	"github.com/fmueller/voxhold/internal/input"
)

type Hotkey int

const (
	HotkeyCtrlV Hotkey = iota
	HotkeyCtrlShiftV
)

func (h Hotkey) String() string {
	if h == HotkeyCtrlShiftV {
		return "ctrl+shift+v"
	}
	return "ctrl+v"
}

// ResolveHotkey recognises "ctrl+shift+v" ignoring case and whitespace; anything else is ctrl+v.
func ResolveHotkey(value string) Hotkey {
	normalized := strings.ToLower(strings.Join(strings.Fields(value), ""))
	if normalized == "ctrl+shift+v" {
		return HotkeyCtrlShiftV
	}
	return HotkeyCtrlV
}

func ydotoolKeyArgs(h Hotkey, keyDelayMS int) []string {
	press := func(code uint16, down bool) string {
		state := "0"
		if down {
			state = "1"
		}
		return strconv.Itoa(int(code)) + ":" + state
	}

	args := []string{"key", "-d", strconv.Itoa(keyDelayMS), press(input.KeyLeftCtrl, true)}
	if h == HotkeyCtrlShiftV {
		args = append(args, press(input.KeyLeftShift, true))
	}
	args = append(args, press(input.KeyV, true), press(input.KeyV, false))
	if h == HotkeyCtrlShiftV {
		args = append(args, press(input.KeyLeftShift, false))
	}
	return append(args, press(input.KeyLeftCtrl, false))
}

func wtypePasteArgs(h Hotkey) []string {
	if h == HotkeyCtrlShiftV {
		return []string{"-M", "ctrl", "-M", "shift", "-k", "v", "-m", "shift", "-m", "ctrl"}
	}
	return []string{"-M", "ctrl", "-k", "v", "-m", "ctrl"}
}
