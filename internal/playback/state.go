package playback

import "strings"

// State is what the engine reports to position observers.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

var stateNames = [...]string{"stopped", "playing", "paused"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// RepeatMode decides what the engine does when a video ends.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
	// RepeatPause holds the last frame and reports paused.
	RepeatPause
)

// repeatNames are also the accepted config values, in cycle order.
var repeatNames = [...]string{"off", "all", "one", "pause"}

func (m RepeatMode) String() string {
	if m < 0 || int(m) >= len(repeatNames) {
		return "unknown"
	}
	return repeatNames[m]
}

// Next returns the mode the repeat key cycles to.
func (m RepeatMode) Next() RepeatMode {
	return RepeatMode((int(m) + 1) % len(repeatNames))
}

// ParseRepeatMode reads a config value, ignoring case. Anything
// unrecognised is RepeatOff.
func ParseRepeatMode(s string) RepeatMode {
	for i, name := range repeatNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return RepeatMode(i)
		}
	}
	return RepeatOff
}
