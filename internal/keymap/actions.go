// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit Action = "quit"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionOpen        Action = "open"
	ActionRelease     Action = "release"
	ActionCycleRepeat Action = "cycle_repeat"

	// Preference toggles
	ActionToggleSegmentSkip Action = "toggle_segment_skip"
	ActionToggleDeviceLink  Action = "toggle_device_link"
)
