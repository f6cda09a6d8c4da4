package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tubesync/internal/playback"
)

type recorder struct {
	events []string
	videos []*playback.Video
}

func (r *recorder) OnInitDone() { r.events = append(r.events, "init") }
func (r *recorder) OnVideoLoaded(v *playback.Video) {
	r.events = append(r.events, "loaded")
	r.videos = append(r.videos, v)
}
func (r *recorder) OnPlay()           { r.events = append(r.events, "play") }
func (r *recorder) OnPause()          { r.events = append(r.events, "pause") }
func (r *recorder) OnPlayEnd()        { r.events = append(r.events, "end") }
func (r *recorder) OnEngineReleased() { r.events = append(r.events, "released") }
func (r *recorder) OnViewResumed()    { r.events = append(r.events, "resumed") }

type repeat playback.RepeatMode

func (r *repeat) RepeatMode() playback.RepeatMode { return playback.RepeatMode(*r) }

type fixture struct {
	e     *Engine
	obs   *playback.Observer
	rec   *recorder
	mode  *repeat
	clock time.Time
}

func newFixture() *fixture {
	f := &fixture{
		obs:   playback.NewObserver(),
		rec:   &recorder{},
		mode:  new(repeat),
		clock: time.Unix(0, 0),
	}
	f.obs.Add(f.rec)
	f.e = NewWithClock(f.obs, f.mode, func() time.Time { return f.clock })
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func TestEngine_OpenInstallsControllerAndPlays(t *testing.T) {
	f := newFixture()
	v := playback.NewVideo("abc")

	f.e.Open(v, time.Minute)

	assert.Equal(t, []string{"loaded", "play"}, f.rec.events)
	assert.Same(t, v, f.rec.videos[0])
	assert.Equal(t, f.e, f.obs.Controller())
	assert.Equal(t, playback.StatePlaying, f.e.State())
	assert.Equal(t, time.Minute, f.e.Duration())
}

func TestEngine_DefaultLength(t *testing.T) {
	f := newFixture()
	f.e.Open(playback.NewVideo("abc"), 0)
	assert.Equal(t, DefaultLength, f.e.Duration())
}

func TestEngine_PositionFollowsClock(t *testing.T) {
	f := newFixture()
	f.e.Open(playback.NewVideo("abc"), time.Minute)

	f.advance(5 * time.Second)
	assert.Equal(t, 5*time.Second, f.e.Position())

	f.e.SetPlay(false)
	f.advance(10 * time.Second)
	assert.Equal(t, 5*time.Second, f.e.Position())
	assert.Equal(t, playback.StatePaused, f.e.State())

	f.e.SetPlay(true)
	f.advance(2 * time.Second)
	assert.Equal(t, 7*time.Second, f.e.Position())

	f.advance(time.Hour)
	assert.Equal(t, time.Minute, f.e.Position(), "clamped to length")
}

func TestEngine_SetPlayEmitsOnChangeOnly(t *testing.T) {
	f := newFixture()
	f.e.Open(playback.NewVideo("abc"), time.Minute)
	f.rec.events = nil

	f.e.SetPlay(true)
	f.e.SetPlay(false)
	f.e.SetPlay(false)
	f.e.Toggle()

	assert.Equal(t, []string{"pause", "play"}, f.rec.events)
}

func TestEngine_SetPositionClamps(t *testing.T) {
	f := newFixture()
	f.e.Open(playback.NewVideo("abc"), time.Minute)

	f.e.SetPosition(30 * time.Second)
	assert.Equal(t, 30*time.Second, f.e.Position())

	f.e.SeekBy(-time.Hour)
	assert.Equal(t, time.Duration(0), f.e.Position())

	f.e.SetPosition(2 * time.Minute)
	assert.Equal(t, time.Minute, f.e.Position())
}

func TestEngine_TickEmitsPlayEndOnce(t *testing.T) {
	f := newFixture()
	f.e.Open(playback.NewVideo("abc"), time.Minute)
	f.rec.events = nil

	f.advance(30 * time.Second)
	f.e.Tick(f.clock)
	assert.Empty(t, f.rec.events)

	f.advance(30 * time.Second)
	f.e.Tick(f.clock)
	f.advance(time.Second)
	f.e.Tick(f.clock)

	assert.Equal(t, []string{"end"}, f.rec.events)
	assert.False(t, f.e.IsPlaying())
	assert.Equal(t, time.Minute, f.e.Position())

	// Playing again restarts from the beginning.
	f.e.SetPlay(true)
	assert.Equal(t, time.Duration(0), f.e.Position())
}

func TestEngine_RepeatOneRestarts(t *testing.T) {
	f := newFixture()
	*f.mode = repeat(playback.RepeatOne)
	f.e.Open(playback.NewVideo("abc"), time.Minute)
	f.rec.events = nil

	f.advance(time.Minute)
	f.e.Tick(f.clock)

	assert.Equal(t, []string{"end"}, f.rec.events)
	assert.True(t, f.e.IsPlaying())
	assert.Equal(t, time.Duration(0), f.e.Position())

	f.advance(time.Minute)
	f.e.Tick(f.clock)
	assert.Equal(t, []string{"end", "end"}, f.rec.events)
}

func TestEngine_ReleaseClearsSession(t *testing.T) {
	f := newFixture()
	f.e.Open(playback.NewVideo("abc"), time.Minute)
	f.rec.events = nil

	f.e.Release()
	f.e.Release()

	assert.Equal(t, []string{"released", "released"}, f.rec.events)
	assert.Nil(t, f.obs.Controller())
	assert.False(t, f.e.Active())
	assert.Equal(t, playback.StateStopped, f.e.State())

	// Controls are inert without a session.
	f.e.SetPlay(true)
	f.e.SetPosition(time.Second)
	f.e.Tick(f.clock)
	require.Equal(t, []string{"released", "released"}, f.rec.events)
	assert.Equal(t, time.Duration(0), f.e.Position())
}
