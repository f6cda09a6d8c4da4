package playback

import "time"

// Video describes the item loaded into a playback session.
type Video struct {
	ID            string
	Title         string
	Author        string
	PlaylistID    string
	PlaylistIndex int // -1 when not part of a playlist
	// Remote is set when the video was opened by a remote command.
	Remote bool
}

// NewVideo creates a video reference outside any playlist.
func NewVideo(id string) *Video {
	return &Video{ID: id, PlaylistIndex: -1}
}

// Controller is the control surface of the active playback session.
//
// It is owned by the host engine and only valid between OnVideoLoaded and
// OnEngineReleased. All methods are called from the main context.
type Controller interface {
	Video() *Video
	Position() time.Duration
	Duration() time.Duration
	IsPlaying() bool
	SetPosition(pos time.Duration)
	SetPlay(play bool)
}

// ControllerSource exposes the currently active control surface, or nil when
// no session is active.
type ControllerSource interface {
	Controller() Controller
}
