package keymap

import "strings"

// Binding maps keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string // short label for the help line
}

// All contains the key bindings of the host, in help order.
var All = []Binding{
	{ActionPlayPause, []string{" "}, "play/pause"},
	{ActionSeekBack, []string{"left"}, "seek -10s"},
	{ActionSeekForward, []string{"right"}, "seek +10s"},
	{ActionOpen, []string{"o"}, "open"},
	{ActionRelease, []string{"x"}, "release"},
	{ActionToggleSegmentSkip, []string{"s"}, "skip"},
	{ActionToggleDeviceLink, []string{"l"}, "link"},
	{ActionCycleRepeat, []string{"r"}, "repeat"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit"},
}

// keyLabels renders keys that have no printable form.
var keyLabels = map[string]string{
	" ":     "space",
	"left":  "←",
	"right": "→",
}

// HelpLine renders the first key and description of every binding.
func HelpLine(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		key := b.Keys[0]
		if label, ok := keyLabels[key]; ok {
			key = label
		}
		parts = append(parts, key+" "+b.Description)
	}
	return strings.Join(parts, " · ")
}
