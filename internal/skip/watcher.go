// Package skip jumps over tagged segments of the playing video.
//
// On every video load the Watcher fetches the video's segment list and, once
// it arrives, polls the play-head once per interval. When the position falls
// inside a segment the watcher seeks to the segment end.
package skip

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/metrics"
	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/task"
)

// DefaultInterval is the position poll period. A skip may overshoot a segment
// start by at most one interval.
const DefaultInterval = time.Second

// Config holds the watcher collaborators.
type Config struct {
	Source      Source
	Controllers playback.ControllerSource
	Dispatcher  task.Dispatcher
	Messenger   Messenger
	// Enabled is read on every video load.
	Enabled  func() bool
	Interval time.Duration
}

// Watcher is a playback.Listener that skips segments.
type Watcher struct {
	playback.BaseListener

	source      Source
	controllers playback.ControllerSource
	dispatcher  task.Dispatcher
	messenger   Messenger
	enabled     func() bool
	interval    time.Duration
	logger      zerolog.Logger

	base     context.Context
	fetch    *task.Slot
	poll     *task.Slot
	phase    Phase
	segments []Segment
}

// New creates a watcher.
func New(cfg Config) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	enabled := cfg.Enabled
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Watcher{
		source:      cfg.Source,
		controllers: cfg.Controllers,
		dispatcher:  cfg.Dispatcher,
		messenger:   cfg.Messenger,
		enabled:     enabled,
		interval:    interval,
		logger:      log.WithComponent("skip"),
		base:        context.Background(),
		fetch:       task.NewSlot("skip.fetch"),
		poll:        task.NewSlot("skip.poll"),
	}
}

// OnVideoLoaded drops everything held for the previous video and starts
// fetching segments for v.
func (w *Watcher) OnVideoLoaded(v *playback.Video) {
	w.stop()

	if !w.enabled() || v == nil || v.ID == "" {
		w.segments = nil
		return
	}

	videoID := v.ID
	w.phase = PhaseFetching
	w.fetch.Start(w.base, func(ctx context.Context) {
		segments, err := w.source.FetchSegments(ctx, videoID)
		task.Deliver(ctx, w.dispatcher, func() {
			if err != nil {
				metrics.SegmentFetchErrorsTotal.Inc()
				w.logger.Error().
					Err(err).
					Str("event", "skip.fetch_failed").
					Str("video_id", videoID).
					Msg("segment fetch failed")
				w.phase = PhaseIdle
				return
			}
			w.logger.Debug().
				Str("event", "skip.segments_loaded").
				Str("video_id", videoID).
				Int("count", len(segments)).
				Msg("segments loaded")
			w.segments = segments
			w.startPolling()
		})
	})
}

// OnEngineReleased cancels the fetch and the poll. Safe to call repeatedly.
func (w *Watcher) OnEngineReleased() {
	w.stop()
}

// Phase returns the watcher state.
func (w *Watcher) Phase() Phase {
	return w.phase
}

// Segments returns the segment list held for the current video, or nil.
func (w *Watcher) Segments() []Segment {
	return w.segments
}

// Wait blocks until the watcher goroutines have returned. Call after
// OnEngineReleased during shutdown.
func (w *Watcher) Wait() {
	w.fetch.Wait()
	w.poll.Wait()
}

func (w *Watcher) stop() {
	w.fetch.Cancel()
	w.poll.Cancel()
	w.phase = PhaseIdle
}

func (w *Watcher) startPolling() {
	w.phase = PhaseWatching
	w.poll.Start(w.base, func(ctx context.Context) {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				task.Deliver(ctx, w.dispatcher, w.tick)
			}
		}
	})
}

// tick applies at most one skip: the first segment, in list order, that
// contains the play-head. A seek that lands inside another segment is
// handled by the next tick.
func (w *Watcher) tick() {
	if w.segments == nil {
		return
	}
	c := w.controllers.Controller()
	if c == nil {
		return
	}

	pos := c.Position()
	for _, s := range w.segments {
		if !s.Contains(pos) {
			continue
		}
		w.messenger.ShowMessage("Skipping " + categoryLabel(s.Category) + " segment")
		c.SetPosition(s.End)
		metrics.SegmentsSkippedTotal.WithLabelValues(categoryMetric(s.Category)).Inc()
		w.logger.Info().
			Str("event", "skip.applied").
			Dur("from", pos).
			Dur("to", s.End).
			Str("category", s.Category).
			Msg("segment skipped")
		break
	}
}

func categoryLabel(category string) string {
	switch category {
	case "":
		return "tagged"
	case "selfpromo":
		return "self-promotion"
	case "interaction":
		return "interaction reminder"
	case "music_offtopic":
		return "non-music"
	default:
		return category
	}
}

func categoryMetric(category string) string {
	if category == "" {
		return "unknown"
	}
	return category
}
