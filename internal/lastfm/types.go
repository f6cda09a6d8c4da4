package lastfm

import "time"

// Track contains video metadata in Last.fm terms.
type Track struct {
	Artist    string
	Track     string
	Duration  time.Duration
	Timestamp time.Time // When playback started
}

// Poster sends plays to Last.fm.
type Poster interface {
	UpdateNowPlaying(track Track) error
	Scrobble(track Track) error
}

// Verify Client implements Poster at compile time.
var _ Poster = (*Client)(nil)
