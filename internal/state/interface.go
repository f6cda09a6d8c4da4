package state

import (
	"time"

	"github.com/llehouerou/tubesync/internal/skip"
)

// Interface is the part of Manager the player depends on.
type Interface interface {
	GetPreferences() (Preferences, error)
	SavePreferences(prefs Preferences)
	ScreenID() (string, error)
	GetSegments(videoID string) ([]skip.Segment, time.Time, bool, error)
	SaveSegments(videoID string, segments []skip.Segment) error
	DeleteOldSegments(maxAge time.Duration) error
	Close() error
}

var _ Interface = (*Manager)(nil)
