//go:build linux

package input

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fmueller/voxhold/internal/domain"
	"github.com/fmueller/voxhold/internal/ports"
	"github.com/holoplot/go-evdev"
)

const eventQueueSize = 64

var errDeviceClosed = errors.New("input device closed")

type readResult struct {
	event domain.KeyEvent
	err   error
}

// Device is an open evdev node. A reader goroutine feeds decoded events into a queue so that
// Wait can bound how long the caller blocks.
type Device struct {
	dev  *evdev.InputDevice
	path string
	name string

	results chan readResult
	done    chan struct{}
	once    sync.Once
	pending *readResult
}

// Open opens path and starts reading events from it.
func Open(path string) (*Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	name, _ := dev.Name()

	d := &Device{
		dev:     dev,
		path:    path,
		name:    name,
		results: make(chan readResult, eventQueueSize),
		done:    make(chan struct{}),
	}
	go d.pump()
	return d, nil
}

func (d *Device) pump() {
	for {
		ev, err := d.dev.ReadOne()
		result := readResult{err: err}
		if err == nil {
			result.event = domain.KeyEvent{Type: uint16(ev.Type), Code: uint16(ev.Code), Value: ev.Value}
		}

		select {
		case d.results <- result:
		case <-d.done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (d *Device) Path() string { return d.path }

func (d *Device) Name() string { return d.name }

// HasKey reports whether the device advertises code among its EV_KEY capabilities.
func (d *Device) HasKey(code uint16) bool {
	return hasKey(d.dev, code)
}

func hasKey(dev *evdev.InputDevice, code uint16) bool {
	for _, capable := range dev.CapableEvents(evdev.EV_KEY) {
		if uint16(capable) == code {
			return true
		}
	}
	return false
}

// Wait blocks until an event or a read failure is queued, or timeout expires.
func (d *Device) Wait(timeout time.Duration) (bool, error) {
	if d.pending != nil {
		return true, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-d.results:
		d.pending = &result
		return true, nil
	case <-timer.C:
		return false, nil
	case <-d.done:
		return false, fmt.Errorf("poll %s: %w", d.path, errDeviceClosed)
	}
}

// ReadEvents drains whatever events are queued without blocking. A read failure is returned
// once the events read before it have been delivered.
func (d *Device) ReadEvents() ([]domain.KeyEvent, error) {
	var events []domain.KeyEvent
	next := d.pending
	d.pending = nil

	for {
		if next == nil {
			select {
			case result := <-d.results:
				next = &result
			default:
				return events, nil
			}
		}
		if next.err != nil {
			if len(events) > 0 {
				d.pending = next
				return events, nil
			}
			return nil, fmt.Errorf("read %s: %w", d.path, next.err)
		}
		events = append(events, next.event)
		next = nil
	}
}

func (d *Device) Close() error {
	var err error
	d.once.Do(func() {
		close(d.done)
		err = d.dev.Close()
	})
	return err
}

// SystemLister enumerates /dev/input/event* nodes.
type SystemLister struct{}

func (SystemLister) List() ([]Info, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(paths))
	for _, p := range paths {
		infos = append(infos, Info{Path: p.Path, Name: p.Name})
	}
	sort.Slice(infos, func(i, j int) bool { return eventIndex(infos[i].Path) < eventIndex(infos[j].Path) })
	return infos, nil
}

func (SystemLister) HasKey(path string, code uint16) bool {
	dev, err := evdev.Open(path)
	if err != nil {
		return false
	}
	defer dev.Close()
	return hasKey(dev, code)
}

func (SystemLister) Open(path string) (ports.InputDevice, error) {
	return Open(path)
}
