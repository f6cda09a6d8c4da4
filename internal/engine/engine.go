// Package engine is a wall-clock playback engine. It owns the active session,
// answers playback.Controller calls and drives the lifecycle hooks.
package engine

import (
	"time"

	"github.com/llehouerou/tubesync/internal/playback"
)

// DefaultLength is used when a video is opened without a known length.
const DefaultLength = 10 * time.Minute

// Settings provides the repeat mode applied at the end of a video.
type Settings interface {
	RepeatMode() playback.RepeatMode
}

// Engine implements playback.Controller. Position advances with the clock
// while playing and is clamped to the video length. All methods run on the
// main context.
type Engine struct {
	observer *playback.Observer
	settings Settings
	now      func() time.Time

	video     *playback.Video
	length    time.Duration
	base      time.Duration // position when startedAt was taken
	startedAt time.Time
	playing   bool
	ended     bool
}

// New creates an engine reporting to observer.
func New(observer *playback.Observer, settings Settings) *Engine {
	return NewWithClock(observer, settings, time.Now)
}

// NewWithClock creates an engine reading time from now.
func NewWithClock(observer *playback.Observer, settings Settings, now func() time.Time) *Engine {
	return &Engine{
		observer: observer,
		settings: settings,
		now:      now,
	}
}

// Open starts a new session for v and begins playing from the start.
// A non-positive length selects DefaultLength.
func (e *Engine) Open(v *playback.Video, length time.Duration) {
	if length <= 0 {
		length = DefaultLength
	}
	e.video = v
	e.length = length
	e.base = 0
	e.startedAt = e.now()
	e.playing = true
	e.ended = false

	e.observer.SetController(e)
	e.observer.OnVideoLoaded(v)
	e.observer.OnPlay()
}

// Release ends the session. Calling it without a session still notifies
// listeners so they can drop leftover work.
func (e *Engine) Release() {
	e.video = nil
	e.length = 0
	e.base = 0
	e.playing = false
	e.ended = false
	e.observer.OnEngineReleased()
}

// Active reports whether a session is open.
func (e *Engine) Active() bool {
	return e.video != nil
}

// State returns the playback state.
func (e *Engine) State() playback.State {
	switch {
	case e.video == nil:
		return playback.StateStopped
	case e.playing:
		return playback.StatePlaying
	default:
		return playback.StatePaused
	}
}

func (e *Engine) Video() *playback.Video {
	return e.video
}

func (e *Engine) Duration() time.Duration {
	return e.length
}

func (e *Engine) IsPlaying() bool {
	return e.playing
}

func (e *Engine) Position() time.Duration {
	return e.positionAt(e.now())
}

func (e *Engine) positionAt(now time.Time) time.Duration {
	if e.video == nil {
		return 0
	}
	pos := e.base
	if e.playing {
		pos += now.Sub(e.startedAt)
	}
	return min(max(pos, 0), e.length)
}

// SetPosition moves the play-head. It does not emit hooks.
func (e *Engine) SetPosition(pos time.Duration) {
	if e.video == nil {
		return
	}
	e.base = min(max(pos, 0), e.length)
	e.startedAt = e.now()
	if e.base < e.length {
		e.ended = false
	}
}

// SetPlay starts or pauses playback and emits OnPlay or OnPause when the
// state changes.
func (e *Engine) SetPlay(play bool) {
	if e.video == nil || play == e.playing {
		return
	}

	now := e.now()
	e.base = e.positionAt(now)
	e.startedAt = now

	if play && e.ended {
		e.base = 0
		e.ended = false
	}
	e.playing = play

	if play {
		e.observer.OnPlay()
	} else {
		e.observer.OnPause()
	}
}

// Toggle flips between playing and paused.
func (e *Engine) Toggle() {
	e.SetPlay(!e.playing)
}

// SeekBy moves the play-head by offset.
func (e *Engine) SeekBy(offset time.Duration) {
	e.SetPosition(e.Position() + offset)
}

// Tick checks for the end of the video. OnPlayEnd is emitted once per
// playthrough; RepeatOne rewinds and keeps playing before the hook runs.
func (e *Engine) Tick(now time.Time) {
	if e.video == nil || !e.playing || e.ended {
		return
	}
	if e.positionAt(now) < e.length {
		return
	}

	if e.settings.RepeatMode() == playback.RepeatOne {
		e.base = 0
		e.startedAt = now
	} else {
		e.base = e.length
		e.playing = false
		e.ended = true
	}
	e.observer.OnPlayEnd()
}

// Verify Engine implements playback.Controller at compile time.
var _ playback.Controller = (*Engine)(nil)
