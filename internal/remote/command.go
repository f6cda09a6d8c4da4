package remote

import "time"

// Kind identifies a command variant.
type Kind int

const (
	KindOpenVideo Kind = iota
	KindUpdatePlaylist
	KindSeek
	KindPlay
	KindPause
	KindGetState
	KindConnected
	KindDisconnected
)

// Kinds lists every command kind.
var Kinds = []Kind{
	KindOpenVideo, KindUpdatePlaylist, KindSeek, KindPlay,
	KindPause, KindGetState, KindConnected, KindDisconnected,
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOpenVideo:
		return "openVideo"
	case KindUpdatePlaylist:
		return "updatePlaylist"
	case KindSeek:
		return "seek"
	case KindPlay:
		return "play"
	case KindPause:
		return "pause"
	case KindGetState:
		return "getState"
	case KindConnected:
		return "connected"
	case KindDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ParseKind maps a wire name back to its kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Command is an instruction sent by the companion device. The set of
// implementations is closed: only the types below satisfy it.
type Command interface {
	Kind() Kind
	command()
}

// OpenVideo asks the player to open a video, optionally within a playlist.
type OpenVideo struct {
	VideoID       string
	PlaylistID    string
	PlaylistIndex int
}

// UpdatePlaylist attaches a playlist to the playing video.
type UpdatePlaylist struct {
	PlaylistID string
}

// Seek moves the play-head.
type Seek struct {
	Position time.Duration
}

// Play resumes playback.
type Play struct{}

// Pause pauses playback.
type Pause struct{}

// GetState asks for a full state report.
type GetState struct{}

// Connected reports that a companion device joined.
type Connected struct {
	DeviceName string
}

// Disconnected reports that a companion device left.
type Disconnected struct {
	DeviceName string
}

func (OpenVideo) Kind() Kind      { return KindOpenVideo }
func (UpdatePlaylist) Kind() Kind { return KindUpdatePlaylist }
func (Seek) Kind() Kind           { return KindSeek }
func (Play) Kind() Kind           { return KindPlay }
func (Pause) Kind() Kind          { return KindPause }
func (GetState) Kind() Kind       { return KindGetState }
func (Connected) Kind() Kind      { return KindConnected }
func (Disconnected) Kind() Kind   { return KindDisconnected }

func (OpenVideo) command()      {}
func (UpdatePlaylist) command() {}
func (Seek) command()           {}
func (Play) command()           {}
func (Pause) command()          {}
func (GetState) command()       {}
func (Connected) command()      {}
func (Disconnected) command()   {}
