package skip

import (
	"context"
	"time"
)

// Segment is a time range of a video to jump over.
type Segment struct {
	Start    time.Duration
	End      time.Duration
	Category string // e.g. "sponsor", "selfpromo"; may be empty
	UUID     string
}

// Contains reports whether pos falls in [Start, End).
func (s Segment) Contains(pos time.Duration) bool {
	return pos >= s.Start && pos < s.End
}

// Source fetches the segment list of a video.
// An empty slice means the video has no segments. Errors end that fetch.
type Source interface {
	FetchSegments(ctx context.Context, videoID string) ([]Segment, error)
}

// Messenger shows a short message to the user.
type Messenger interface {
	ShowMessage(msg string)
}

// Phase is the watcher state for the current video.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseWatching
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseFetching:
		return "Fetching"
	case PhaseWatching:
		return "Watching"
	default:
		return "Unknown"
	}
}
