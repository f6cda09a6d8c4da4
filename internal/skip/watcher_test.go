package skip

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/task"
)

// fakeSource serves canned segment lists. A video listed in block waits for
// its fetch context to end.
type fakeSource struct {
	mu       sync.Mutex
	segments map[string][]Segment
	err      error
	block    map[string]bool
	calls    []string
}

func (f *fakeSource) FetchSegments(ctx context.Context, videoID string) ([]Segment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, videoID)
	block := f.block[videoID]
	segs, err := f.segments[videoID], f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return segs, err
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type messages struct{ got []string }

func (m *messages) ShowMessage(msg string) { m.got = append(m.got, msg) }

type source struct{ c playback.Controller }

func (s *source) Controller() playback.Controller { return s.c }

// stuckController ignores seeks so that every live poll keeps skipping.
type stuckController struct {
	*playback.Mock
	pos time.Duration
}

func (s *stuckController) Position() time.Duration { return s.pos }

type fixture struct {
	w        *Watcher
	q        *task.Queue
	src      *fakeSource
	ctrl     *playback.Mock
	msgs     *messages
	enabled  bool
	sessions *source
}

func newFixture(segments map[string][]Segment) *fixture {
	f := &fixture{
		q:       &task.Queue{},
		src:     &fakeSource{segments: segments, block: map[string]bool{}},
		ctrl:    playback.NewMock(playback.NewVideo("v1")),
		msgs:    &messages{},
		enabled: true,
	}
	f.sessions = &source{c: f.ctrl}
	f.w = New(Config{
		Source:      f.src,
		Controllers: f.sessions,
		Dispatcher:  f.q,
		Messenger:   f.msgs,
		Enabled:     func() bool { return f.enabled },
	})
	return f
}

// settle lets worker goroutines block, then runs what they delivered.
func (f *fixture) settle() {
	synctest.Wait()
	f.q.Drain()
}

// tick advances one poll interval and runs the delivered tick.
func (f *fixture) tick() {
	time.Sleep(DefaultInterval)
	f.settle()
}

func (f *fixture) shutdown() {
	f.w.OnEngineReleased()
	f.w.Wait()
}

func TestWatcher_SkipsToSegmentEnd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 10 * time.Second, End: 20 * time.Second, Category: "sponsor"}},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()
		require.Equal(t, PhaseWatching, f.w.Phase())

		f.ctrl.SetCurrent(5 * time.Second)
		f.tick()
		assert.Empty(t, f.ctrl.SeekCalls())

		f.ctrl.SetCurrent(12 * time.Second)
		f.tick()
		assert.Equal(t, []time.Duration{20 * time.Second}, f.ctrl.SeekCalls())
		assert.Equal(t, []string{"Skipping sponsor segment"}, f.msgs.got)
	})
}

func TestWatcher_FirstMatchWinsOncePerTick(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {
				{Start: 10 * time.Second, End: 40 * time.Second},
				{Start: 15 * time.Second, End: 20 * time.Second},
			},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()

		f.ctrl.SetCurrent(16 * time.Second)
		f.tick()
		assert.Equal(t, []time.Duration{40 * time.Second}, f.ctrl.SeekCalls())
		assert.Len(t, f.msgs.got, 1)
	})
}

func TestWatcher_SegmentEndIsExclusive(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 10 * time.Second, End: 20 * time.Second}},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()

		f.ctrl.SetCurrent(20 * time.Second)
		f.tick()
		assert.Empty(t, f.ctrl.SeekCalls())

		f.ctrl.SetCurrent(10 * time.Second)
		f.tick()
		assert.Equal(t, []time.Duration{20 * time.Second}, f.ctrl.SeekCalls())
	})
}

func TestWatcher_CascadeResolvesOnNextTick(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {
				{Start: 10 * time.Second, End: 20 * time.Second},
				{Start: 20 * time.Second, End: 30 * time.Second},
			},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()

		f.ctrl.SetCurrent(11 * time.Second)
		f.tick()
		assert.Equal(t, []time.Duration{20 * time.Second}, f.ctrl.SeekCalls())

		f.tick()
		assert.Equal(t, []time.Duration{20 * time.Second, 30 * time.Second}, f.ctrl.SeekCalls())
	})
}

func TestWatcher_ReloadKeepsSingleFetchAndPoll(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v2": {{Start: 0, End: 5 * time.Second}},
		})
		f.src.block["v1"] = true
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		synctest.Wait()
		require.Equal(t, PhaseFetching, f.w.Phase())

		f.w.OnVideoLoaded(playback.NewVideo("v2"))
		f.settle()
		require.Equal(t, PhaseWatching, f.w.Phase())

		// A third load while v2 is polling must replace the poll, not add one.
		f.w.OnVideoLoaded(playback.NewVideo("v2"))
		f.settle()

		stuck := &stuckController{Mock: f.ctrl, pos: time.Second}
		f.sessions.c = stuck
		f.tick()
		assert.Equal(t, []time.Duration{5 * time.Second}, f.ctrl.SeekCalls(), "exactly one poll should be running")
		assert.False(t, f.w.fetch.Active())
		assert.True(t, f.w.poll.Active())
		assert.Equal(t, []string{"v1", "v2", "v2"}, f.src.Calls())
	})
}

func TestWatcher_StaleFetchResultIsDropped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 0, End: 5 * time.Second}},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		synctest.Wait() // result posted but not yet applied

		f.w.OnVideoLoaded(&playback.Video{})
		f.q.Drain()

		assert.Nil(t, f.w.Segments())
		assert.Equal(t, PhaseIdle, f.w.Phase())
	})
}

func TestWatcher_DisabledStopsPollingOnNextLoad(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 0, End: 5 * time.Second}},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()
		require.Equal(t, PhaseWatching, f.w.Phase())

		f.enabled = false
		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()
		assert.Equal(t, PhaseIdle, f.w.Phase())
		assert.Nil(t, f.w.Segments())

		f.ctrl.SetCurrent(time.Second)
		f.tick()
		assert.Empty(t, f.ctrl.SeekCalls())
		assert.Equal(t, []string{"v1"}, f.src.Calls())
	})
}

func TestWatcher_FetchErrorStaysIdle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(nil)
		f.src.err = errors.New("boom")
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()
		assert.Equal(t, PhaseIdle, f.w.Phase())

		f.tick()
		assert.Empty(t, f.ctrl.SeekCalls())
		assert.Len(t, f.src.Calls(), 1, "failed fetch must not be retried")
	})
}

func TestWatcher_NoVideoIDClearsSegments(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 0, End: 5 * time.Second}},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()
		require.NotNil(t, f.w.Segments())

		f.w.OnVideoLoaded(nil)
		assert.Nil(t, f.w.Segments())
		assert.Equal(t, PhaseIdle, f.w.Phase())
	})
}

func TestWatcher_AbsentControllerIsNoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 0, End: 5 * time.Second}},
		})
		defer f.shutdown()

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()

		f.sessions.c = nil
		f.tick()
		assert.Empty(t, f.msgs.got)
	})
}

func TestWatcher_EngineReleasedTwice(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(map[string][]Segment{
			"v1": {{Start: 0, End: 5 * time.Second}},
		})

		f.w.OnEngineReleased() // before anything started

		f.w.OnVideoLoaded(playback.NewVideo("v1"))
		f.settle()

		f.w.OnEngineReleased()
		f.w.OnEngineReleased()
		f.w.Wait()

		assert.Equal(t, PhaseIdle, f.w.Phase())
		assert.False(t, f.w.fetch.Active())
		assert.False(t, f.w.poll.Active())

		f.ctrl.SetCurrent(time.Second)
		time.Sleep(3 * DefaultInterval)
		f.settle()
		assert.Empty(t, f.ctrl.SeekCalls())
	})
}

func TestSegment_Contains(t *testing.T) {
	s := Segment{Start: time.Second, End: 2 * time.Second}
	assert.False(t, s.Contains(999*time.Millisecond))
	assert.True(t, s.Contains(time.Second))
	assert.True(t, s.Contains(1999*time.Millisecond))
	assert.False(t, s.Contains(2*time.Second))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "Idle", PhaseIdle.String())
	assert.Equal(t, "Fetching", PhaseFetching.String())
	assert.Equal(t, "Watching", PhaseWatching.String())
	assert.Equal(t, "Unknown", Phase(42).String())
}
