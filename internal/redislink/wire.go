package redislink

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/llehouerou/tubesync/internal/remote"
)

// wireCommand is the JSON shape of a command published by the companion.
type wireCommand struct {
	Type          string `json:"type"`
	VideoID       string `json:"videoId,omitempty"`
	PlaylistID    string `json:"playlistId,omitempty"`
	PlaylistIndex *int   `json:"playlistIndex,omitempty"`
	PositionMs    int64  `json:"positionMs,omitempty"`
	Device        string `json:"device,omitempty"`
}

// startPlaying is published when a video starts or when nothing plays.
// VideoID is nil for "nothing playing".
type startPlaying struct {
	Type       string  `json:"type"`
	ScreenID   string  `json:"screenId"`
	VideoID    *string `json:"videoId"`
	PositionMs int64   `json:"positionMs"`
	LengthMs   int64   `json:"lengthMs"`
}

type stateChange struct {
	Type       string `json:"type"`
	ScreenID   string `json:"screenId"`
	PositionMs int64  `json:"positionMs"`
	LengthMs   int64  `json:"lengthMs"`
	Playing    bool   `json:"playing"`
}

// DecodeCommand parses a command payload.
func DecodeCommand(data []byte) (remote.Command, error) {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}

	kind, ok := remote.ParseKind(w.Type)
	if !ok {
		return nil, fmt.Errorf("unknown command type %q", w.Type)
	}

	switch kind {
	case remote.KindOpenVideo:
		if w.VideoID == "" {
			return nil, errors.New("openVideo without videoId")
		}
		index := -1
		if w.PlaylistIndex != nil {
			index = *w.PlaylistIndex
		}
		return remote.OpenVideo{VideoID: w.VideoID, PlaylistID: w.PlaylistID, PlaylistIndex: index}, nil
	case remote.KindUpdatePlaylist:
		return remote.UpdatePlaylist{PlaylistID: w.PlaylistID}, nil
	case remote.KindSeek:
		return remote.Seek{Position: remote.FromMs(w.PositionMs)}, nil
	case remote.KindPlay:
		return remote.Play{}, nil
	case remote.KindPause:
		return remote.Pause{}, nil
	case remote.KindGetState:
		return remote.GetState{}, nil
	case remote.KindConnected:
		return remote.Connected{DeviceName: w.Device}, nil
	case remote.KindDisconnected:
		return remote.Disconnected{DeviceName: w.Device}, nil
	}
	return nil, fmt.Errorf("unknown command type %q", w.Type)
}

// EncodeCommand renders cmd in the companion wire format.
func EncodeCommand(cmd remote.Command) ([]byte, error) {
	w := wireCommand{Type: cmd.Kind().String()}
	switch cmd := cmd.(type) {
	case remote.OpenVideo:
		w.VideoID = cmd.VideoID
		w.PlaylistID = cmd.PlaylistID
		if cmd.PlaylistIndex >= 0 {
			index := cmd.PlaylistIndex
			w.PlaylistIndex = &index
		}
	case remote.UpdatePlaylist:
		w.PlaylistID = cmd.PlaylistID
	case remote.Seek:
		w.PositionMs = remote.Ms(cmd.Position)
	case remote.Connected:
		w.Device = cmd.DeviceName
	case remote.Disconnected:
		w.Device = cmd.DeviceName
	}
	return json.Marshal(w)
}
