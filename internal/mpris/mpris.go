//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
)

// New creates a channel and starts serving it on the session bus.
func New() (*Channel, error) {
	c := newChannel()

	srv := server.NewServer("tubesync", &rootAdapter{channel: c}, &playerAdapter{channel: c})
	c.server = srv

	// Start the server in background
	go func() {
		_ = srv.Listen()
	}()

	return c, nil
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct {
	channel *Channel
}

func (r *rootAdapter) Raise() error {
	r.channel.raise()
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return true, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "tubesync", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	channel *Channel
}

func (p *playerAdapter) Next() error {
	return nil // Not supported
}

func (p *playerAdapter) Previous() error {
	return nil // Not supported
}

func (p *playerAdapter) Pause() error {
	p.channel.pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.channel.playPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.channel.pause()
	return nil
}

func (p *playerAdapter) Play() error {
	p.channel.play()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.channel.seekBy(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.channel.seekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	if !p.channel.openURI(uri) {
		return fmt.Errorf("not a video url: %s", uri)
	}
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	s := p.channel.snapshot()
	switch {
	case s.videoID == "":
		return types.PlaybackStatusStopped, nil
	case s.playing:
		return types.PlaybackStatusPlaying, nil
	default:
		return types.PlaybackStatusPaused, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.channel.snapshot()
	if s.videoID == "" {
		return types.Metadata{}, nil
	}

	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.videoID)),
		Length:  types.Microseconds(s.length.Microseconds()),
		Title:   s.videoID,
		ArtUrl:  ThumbnailURL(s.videoID),
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.channel.snapshot().position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.channel.snapshot().videoID != "", nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(videoID string) string {
	h := fnv.New64a()
	h.Write([]byte(videoID))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
