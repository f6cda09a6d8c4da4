//go:build linux

package mpris

import (
	"context"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tubesync/internal/remote"
)

func TestPlayerAdapter_StatusAndMetadata(t *testing.T) {
	c, _ := newTestChannel()
	p := &playerAdapter{channel: c}

	status, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusStopped, status)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, types.Metadata{}, meta)

	require.NoError(t, c.PostStartPlaying(context.Background(), "abc", 1000, 90000))

	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	meta, _ = p.Metadata()
	assert.Equal(t, "abc", meta.Title)
	assert.Equal(t, types.Microseconds(90*time.Second/time.Microsecond), meta.Length)
	assert.Equal(t, ThumbnailURL("abc"), meta.ArtUrl)

	pos, _ := p.Position()
	assert.Equal(t, int64(1_000_000), pos)

	require.NoError(t, c.PostStateChange(context.Background(), 1000, 90000, false))
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)
}

func TestPlayerAdapter_CommandsMapToRemote(t *testing.T) {
	c, _ := newTestChannel()
	p := &playerAdapter{channel: c}
	r := &rootAdapter{channel: c}
	require.NoError(t, c.PostStartPlaying(context.Background(), "abc", 10000, 60000))

	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())
	require.NoError(t, p.Stop())
	require.NoError(t, p.SetPosition("/track", types.Microseconds(5_000_000)))
	require.NoError(t, p.Seek(types.Microseconds(2_000_000)))
	require.NoError(t, p.OpenUri("https://youtu.be/xyz"))
	require.NoError(t, r.Raise())

	assert.Equal(t, []remote.Command{
		remote.Play{},
		remote.Pause{},
		remote.Pause{},
		remote.Seek{Position: 5 * time.Second},
		remote.Seek{Position: 12 * time.Second},
		remote.OpenVideo{VideoID: "xyz", PlaylistIndex: -1},
		remote.Connected{DeviceName: DesktopDevice},
	}, drain(c))
}

func TestPlayerAdapter_OpenUriRejectsOtherLinks(t *testing.T) {
	c, _ := newTestChannel()
	p := &playerAdapter{channel: c}

	require.Error(t, p.OpenUri("file:///tmp/video.mp4"))
	assert.Empty(t, drain(c))
}

func TestFormatTrackID(t *testing.T) {
	a := formatTrackID("abc")
	assert.Equal(t, a, formatTrackID("abc"))
	assert.NotEqual(t, a, formatTrackID("abd"))
	assert.Contains(t, a, "/org/mpris/MediaPlayer2/Track/")
}
