// Package mpris exposes the playback session over MPRIS so that desktop media
// keys and applets act as a remote device.
package mpris

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/tubesync/internal/remote"
)

// DesktopDevice is the device name reported when the desktop raises the player.
const DesktopDevice = "desktop"

const commandBuffer = 16

// session is the last state posted by the controller.
type session struct {
	videoID    string
	position   time.Duration
	length     time.Duration
	playing    bool
	reportedAt time.Time
}

// Channel is a remote.Channel fed by MPRIS method calls. Posted state is
// cached and answered from the MPRIS property getters.
type Channel struct {
	mu       sync.Mutex
	current  session
	commands chan remote.Command
	now      func() time.Time
	server   closer
}

type closer interface {
	Stop() error
}

func newChannel() *Channel {
	return &Channel{
		commands: make(chan remote.Command, commandBuffer),
		now:      time.Now,
	}
}

// Listen hands desktop commands to handle until ctx is cancelled.
func (c *Channel) Listen(ctx context.Context, handle func(remote.Command)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-c.commands:
			handle(cmd)
		}
	}
}

func (c *Channel) PostStartPlaying(_ context.Context, videoID string, positionMs, lengthMs int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = session{
		videoID:    videoID,
		position:   remote.FromMs(max(positionMs, 0)),
		length:     remote.FromMs(max(lengthMs, 0)),
		playing:    videoID != "",
		reportedAt: c.now(),
	}
	return nil
}

func (c *Channel) PostStateChange(_ context.Context, positionMs, lengthMs int64, playing bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.position = remote.FromMs(max(positionMs, 0))
	c.current.length = remote.FromMs(max(lengthMs, 0))
	c.current.playing = playing
	c.current.reportedAt = c.now()
	return nil
}

// Close stops the D-Bus server, if any.
func (c *Channel) Close() error {
	if c.server == nil {
		return nil
	}
	return c.server.Stop()
}

// emit queues cmd for the listener. Commands are dropped while the buffer is
// full, which only happens when nobody listens.
func (c *Channel) emit(cmd remote.Command) {
	select {
	case c.commands <- cmd:
	default:
	}
}

// snapshot returns the cached session with the position advanced by the time
// elapsed since the last report while playing.
func (c *Channel) snapshot() session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.current
	if s.playing && !s.reportedAt.IsZero() {
		s.position += c.now().Sub(s.reportedAt)
		if s.length > 0 && s.position > s.length {
			s.position = s.length
		}
	}
	return s
}

func (c *Channel) play()  { c.emit(remote.Play{}) }
func (c *Channel) pause() { c.emit(remote.Pause{}) }

func (c *Channel) playPause() {
	if c.snapshot().playing {
		c.pause()
		return
	}
	c.play()
}

func (c *Channel) seekBy(offset time.Duration) {
	c.seekTo(c.snapshot().position + offset)
}

func (c *Channel) seekTo(pos time.Duration) {
	s := c.snapshot()
	if s.videoID == "" {
		return
	}
	pos = max(pos, 0)
	if s.length > 0 && pos > s.length {
		pos = s.length
	}
	c.emit(remote.Seek{Position: pos})
}

func (c *Channel) openURI(uri string) bool {
	cmd, ok := ParseVideoURL(uri)
	if !ok {
		return false
	}
	c.emit(cmd)
	return true
}

func (c *Channel) raise() {
	c.emit(remote.Connected{DeviceName: DesktopDevice})
}

// ParseVideoURL extracts an OpenVideo command from a YouTube watch, short or
// youtu.be link.
func ParseVideoURL(raw string) (remote.OpenVideo, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return remote.OpenVideo{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	query := u.Query()

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = query.Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		}
	}
	if id == "" || strings.Contains(id, "/") {
		return remote.OpenVideo{}, false
	}

	return remote.OpenVideo{
		VideoID:       id,
		PlaylistID:    query.Get("list"),
		PlaylistIndex: -1,
	}, true
}

// ThumbnailURL returns the preview image of a video.
func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + url.PathEscape(videoID) + "/hqdefault.jpg"
}

// Verify Channel implements remote.Channel at compile time.
var _ remote.Channel = (*Channel)(nil)
