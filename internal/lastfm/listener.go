package lastfm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/task"
)

// minScrobbleLength is the shortest video Last.fm accepts a scrobble for.
const minScrobbleLength = 30 * time.Second

// NowPlaying reports loaded videos to Last.fm and scrobbles the ones that
// play to the end.
type NowPlaying struct {
	playback.BaseListener

	poster      Poster
	controllers playback.ControllerSource
	now         func() time.Time
	logger      zerolog.Logger

	base       context.Context
	nowPlaying *task.Slot
	scrobble   *task.Slot
	current    *Track
}

// NewNowPlaying creates the listener.
func NewNowPlaying(poster Poster, controllers playback.ControllerSource) *NowPlaying {
	return &NowPlaying{
		poster:      poster,
		controllers: controllers,
		now:         time.Now,
		logger:      log.WithComponent("lastfm"),
		base:        context.Background(),
		nowPlaying:  task.NewSlot("lastfm.now-playing"),
		scrobble:    task.NewSlot("lastfm.scrobble"),
	}
}

func (n *NowPlaying) OnVideoLoaded(v *playback.Video) {
	n.current = nil
	if v == nil || v.Title == "" {
		n.nowPlaying.Cancel()
		return
	}

	track := Track{
		Artist:    v.Author,
		Track:     v.Title,
		Timestamp: n.now(),
	}
	if ctrl := n.controllers.Controller(); ctrl != nil {
		track.Duration = ctrl.Duration()
	}
	n.current = &track

	n.nowPlaying.Start(n.base, func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		if err := n.poster.UpdateNowPlaying(track); err != nil {
			n.logger.Warn().Err(err).Str("event", "lastfm.now_playing_failed").Msg("now playing update failed")
		}
	})
}

func (n *NowPlaying) OnPlayEnd() {
	if n.current == nil || n.current.Duration < minScrobbleLength {
		return
	}
	track := *n.current
	n.current = nil

	n.scrobble.Start(n.base, func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		if err := n.poster.Scrobble(track); err != nil {
			n.logger.Warn().Err(err).Str("event", "lastfm.scrobble_failed").Msg("scrobble failed")
		}
	})
}

func (n *NowPlaying) OnEngineReleased() {
	n.current = nil
	n.nowPlaying.Cancel()
	n.scrobble.Cancel()
}

// Wait blocks until in-flight posts have returned.
func (n *NowPlaying) Wait() {
	n.nowPlaying.Wait()
	n.scrobble.Wait()
}

// Verify NowPlaying implements playback.Listener at compile time.
var _ playback.Listener = (*NowPlaying)(nil)
