package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/llehouerou/tubesync/internal/skip"
)

type cachedSegment struct {
	StartMs  int64  `json:"start_ms"`
	EndMs    int64  `json:"end_ms"`
	Category string `json:"category,omitempty"`
	UUID     string `json:"uuid,omitempty"`
}

// GetSegments returns the cached segment list of videoID and when it was
// fetched. ok is false when nothing is cached; an empty list is a valid entry.
func (m *Manager) GetSegments(videoID string) (segments []skip.Segment, fetchedAt time.Time, ok bool, err error) {
	var data string
	var fetched int64

	err = m.db.QueryRow(`
		SELECT segments, fetched_at FROM segment_cache WHERE video_id = ?
	`, videoID).Scan(&data, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}

	var cached []cachedSegment
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, time.Time{}, false, err
	}

	segments = make([]skip.Segment, 0, len(cached))
	for _, c := range cached {
		segments = append(segments, skip.Segment{
			Start:    time.Duration(c.StartMs) * time.Millisecond,
			End:      time.Duration(c.EndMs) * time.Millisecond,
			Category: c.Category,
			UUID:     c.UUID,
		})
	}
	return segments, time.Unix(fetched, 0), true, nil
}

// SaveSegments replaces the cached segment list of videoID.
func (m *Manager) SaveSegments(videoID string, segments []skip.Segment) error {
	cached := make([]cachedSegment, 0, len(segments))
	for _, s := range segments {
		cached = append(cached, cachedSegment{
			StartMs:  s.Start.Milliseconds(),
			EndMs:    s.End.Milliseconds(),
			Category: s.Category,
			UUID:     s.UUID,
		})
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	_, err = m.db.Exec(`
		INSERT INTO segment_cache (video_id, segments, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			segments = excluded.segments,
			fetched_at = excluded.fetched_at
	`, videoID, string(data), time.Now().Unix())
	return err
}

// DeleteOldSegments removes cache entries fetched before maxAge ago.
func (m *Manager) DeleteOldSegments(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge).Unix()
	_, err := m.db.Exec(`DELETE FROM segment_cache WHERE fetched_at < ?`, cutoff)
	return err
}
