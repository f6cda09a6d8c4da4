package remote

import (
	"context"
	"time"

	"github.com/llehouerou/tubesync/internal/playback"
)

// Channel is the transport to the companion device.
//
// Listen blocks, calling handle for every received command, until ctx is
// done or the stream fails. It returns ctx.Err() on cancellation and a
// non-nil error when the stream breaks; a broken stream is not restarted.
//
// Positions and lengths are in milliseconds. PostStartPlaying with an empty
// videoID and -1 position and length means nothing is playing.
type Channel interface {
	Listen(ctx context.Context, handle func(Command)) error
	PostStartPlaying(ctx context.Context, videoID string, positionMs, lengthMs int64) error
	PostStateChange(ctx context.Context, positionMs, lengthMs int64, playing bool) error
}

// Settings exposes the player preferences the controller reads.
type Settings interface {
	RepeatMode() playback.RepeatMode
}

// Opener starts playback of a new video.
type Opener interface {
	OpenVideo(v *playback.Video)
}

// SuggestionsLoader refreshes the suggestions shown for a video.
type SuggestionsLoader interface {
	LoadSuggestions(v *playback.Video)
}

// Foreground controls application visibility.
type Foreground interface {
	IsAppInForeground() bool
	BringToForeground()
}

// Messenger shows messages to the user.
type Messenger interface {
	ShowMessage(msg string)
	ShowLongMessage(msg string)
}

// Ms converts a duration to whole milliseconds.
func Ms(d time.Duration) int64 {
	return d.Milliseconds()
}

// FromMs converts milliseconds to a duration.
func FromMs(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
