// internal/playback/mock.go
package playback

import "time"

// Mock is a test double for Controller.
type Mock struct {
	video     *Video
	position  time.Duration
	duration  time.Duration
	playing   bool
	seekCalls []time.Duration
	playCalls []bool
}

// NewMock creates a mock control surface for v.
func NewMock(v *Video) *Mock {
	return &Mock{video: v}
}

func (m *Mock) Video() *Video { return m.video }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) IsPlaying() bool { return m.playing }

func (m *Mock) SetPosition(pos time.Duration) {
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) SetPlay(play bool) {
	m.playCalls = append(m.playCalls, play)
	m.playing = play
}

// Test helpers

func (m *Mock) SetVideo(v *Video) { m.video = v }

func (m *Mock) SetCurrent(pos time.Duration) { m.position = pos }

func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

func (m *Mock) SetPlaying(playing bool) { m.playing = playing }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

func (m *Mock) PlayCalls() []bool { return m.playCalls }

// Verify Mock implements Controller at compile time.
var _ Controller = (*Mock)(nil)
