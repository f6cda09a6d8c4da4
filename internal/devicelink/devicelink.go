// Package devicelink holds the process-wide device link switch.
package devicelink

import "sync"

// DeviceLink is an observable enabled flag with a single change callback.
// It is written by the settings layer and observed by the remote controller.
type DeviceLink struct {
	mu       sync.Mutex
	enabled  bool
	onChange func()
}

// New creates a device link with the given initial state.
func New(enabled bool) *DeviceLink {
	return &DeviceLink{enabled: enabled}
}

// Enabled reports whether remote control synchronization is on.
func (d *DeviceLink) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// SetEnabled stores the flag and runs the change callback if the value changed.
// The callback runs on the caller's goroutine, outside the lock.
func (d *DeviceLink) SetEnabled(enabled bool) {
	d.mu.Lock()
	if d.enabled == enabled {
		d.mu.Unlock()
		return
	}
	d.enabled = enabled
	fn := d.onChange
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// SetOnChange replaces the registered callback. nil deregisters.
func (d *DeviceLink) SetOnChange(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}
