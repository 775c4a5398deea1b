package paste

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fmueller/voxhold/internal/process"
)

var (
	ErrNoPasteTool   = errors.New("no paste tool available (install ydotool, wtype, xdotool or wl-clipboard)")
	ErrUnknownMethod = errors.New("unknown paste method")
	ErrPasteFailed   = errors.New("paste failed")
)

// Method is the automation tool family used to deliver text.
type Method string

const (
	Xdotool Method = "xdotool"
	Wtype   Method = "wtype"
	Ydotool Method = "ydotool"
	WLCopy  Method = "wl-copy"
)

const (
	autoSelector  = "auto"
	waylandMarker = "WAYLAND_DISPLAY"
	x11Marker     = "DISPLAY"
)

var knownMethods = []Method{Xdotool, Wtype, Ydotool, WLCopy}

func (m Method) String() string {
	return string(m)
}

// ResolveMethod turns the configured selector into a concrete method, probing the session
// and PATH when the selector is "auto" or empty.
func ResolveMethod(selector string, getenv func(string) string, finder process.Finder) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(selector))
	for _, method := range knownMethods {
		if normalized == string(method) {
			return method, nil
		}
	}
	if normalized != "" && normalized != autoSelector {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, selector)
	}

	wayland := getenv(waylandMarker) != ""
	x11 := getenv(x11Marker) != ""

	var order []Method
	if wayland {
		order = append(order, Ydotool, Wtype)
	}
	if x11 {
		order = append(order, Xdotool)
	}
	order = append(order, Ydotool, Wtype, Xdotool)
	if wayland {
		order = append(order, WLCopy)
	}

	for _, method := range order {
		if finder.Available(string(method)) {
			return method, nil
		}
	}
	return "", ErrNoPasteTool
}
