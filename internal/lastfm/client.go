package lastfm

import (
	"errors"
	"fmt"

	"github.com/shkh/lastfm-go/lastfm"
)

// ErrNotAuthenticated is returned when no session key was configured.
var ErrNotAuthenticated = errors.New("lastfm: no session key")

// Credentials identify the application and the user session it posts for.
type Credentials struct {
	APIKey     string
	APISecret  string
	SessionKey string
}

// Client posts now-playing updates and scrobbles for one user.
type Client struct {
	api    *lastfm.Api
	authed bool
}

// New creates a client. Without a session key every post fails with
// ErrNotAuthenticated.
func New(c Credentials) *Client {
	api := lastfm.New(c.APIKey, c.APISecret)
	if c.SessionKey != "" {
		api.SetSession(c.SessionKey)
	}
	return &Client{api: api, authed: c.SessionKey != ""}
}

func (c *Client) UpdateNowPlaying(t Track) error {
	if !c.authed {
		return ErrNotAuthenticated
	}
	if _, err := c.api.Track.UpdateNowPlaying(t.params()); err != nil {
		return fmt.Errorf("update now playing %q: %w", t.Track, err)
	}
	return nil
}

func (c *Client) Scrobble(t Track) error {
	if !c.authed {
		return ErrNotAuthenticated
	}
	p := t.params()
	p["timestamp"] = t.Timestamp.Unix()
	if _, err := c.api.Track.Scrobble(p); err != nil {
		return fmt.Errorf("scrobble %q: %w", t.Track, err)
	}
	return nil
}

// params holds the fields both calls share. Videos without a known length
// leave duration out rather than reporting zero.
func (t Track) params() lastfm.P {
	p := lastfm.P{
		"artist": t.Artist,
		"track":  t.Track,
	}
	if secs := int(t.Duration.Seconds()); secs > 0 {
		p["duration"] = secs
	}
	return p
}
