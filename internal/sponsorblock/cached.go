package sponsorblock

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/skip"
)

// DefaultCacheTTL is how long a fetched segment list is trusted.
const DefaultCacheTTL = 24 * time.Hour

// Store persists segment lists per video.
type Store interface {
	GetSegments(videoID string) ([]skip.Segment, time.Time, bool, error)
	SaveSegments(videoID string, segments []skip.Segment) error
}

// Cached is a skip.Source that answers from a Store while the entry is
// younger than the TTL. A failed refresh falls back to a stale entry.
type Cached struct {
	source skip.Source
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewCached wraps source with store. A non-positive ttl selects DefaultCacheTTL.
func NewCached(source skip.Source, store Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		source: source,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: log.WithComponent("sponsorblock"),
	}
}

func (c *Cached) FetchSegments(ctx context.Context, videoID string) ([]skip.Segment, error) {
	cached, fetchedAt, ok, err := c.store.GetSegments(videoID)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("segment cache read failed")
		ok = false
	}
	if ok && c.now().Sub(fetchedAt) < c.ttl {
		return cached, nil
	}

	segments, err := c.source.FetchSegments(ctx, videoID)
	if err != nil {
		if ok && ctx.Err() == nil {
			c.logger.Warn().Err(err).Str("video_id", videoID).Msg("using stale segments")
			return cached, nil
		}
		return nil, err
	}

	if err := c.store.SaveSegments(videoID, segments); err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("segment cache write failed")
	}
	return segments, nil
}

// Verify Cached implements skip.Source at compile time.
var _ skip.Source = (*Cached)(nil)
