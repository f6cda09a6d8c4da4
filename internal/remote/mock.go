package remote

import (
	"context"
	"sync"
)

// StartPlayingPost records a PostStartPlaying call.
type StartPlayingPost struct {
	VideoID    string
	PositionMs int64
	LengthMs   int64
}

// StatePost records a PostStateChange call.
type StatePost struct {
	PositionMs int64
	LengthMs   int64
	Playing    bool
}

// MockChannel is an in-memory Channel for tests.
type MockChannel struct {
	mu         sync.Mutex
	commands   chan Command
	fail       chan error
	listeners  int
	listens    int
	startPosts []StartPlayingPost
	statePosts []StatePost
	postErr    error
	hold       bool
	inFlight   int
	cancelled  int
}

// NewMockChannel creates an idle mock channel.
func NewMockChannel() *MockChannel {
	return &MockChannel{
		commands: make(chan Command, 16),
		fail:     make(chan error, 1),
	}
}

func (m *MockChannel) Listen(ctx context.Context, handle func(Command)) error {
	m.mu.Lock()
	m.listeners++
	m.listens++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.listeners--
		m.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-m.fail:
			return err
		case cmd := <-m.commands:
			handle(cmd)
		}
	}
}

func (m *MockChannel) PostStartPlaying(ctx context.Context, videoID string, positionMs, lengthMs int64) error {
	m.mu.Lock()
	m.startPosts = append(m.startPosts, StartPlayingPost{videoID, positionMs, lengthMs})
	return m.finishPost(ctx)
}

func (m *MockChannel) PostStateChange(ctx context.Context, positionMs, lengthMs int64, playing bool) error {
	m.mu.Lock()
	m.statePosts = append(m.statePosts, StatePost{positionMs, lengthMs, playing})
	return m.finishPost(ctx)
}

// finishPost is entered with m.mu held. Held posts wait for ctx to end.
func (m *MockChannel) finishPost(ctx context.Context) error {
	if !m.hold {
		defer m.mu.Unlock()
		return m.postErr
	}
	m.inFlight++
	m.mu.Unlock()

	<-ctx.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	m.cancelled++
	return ctx.Err()
}

// Test helpers

// Send delivers cmd to the live listener.
func (m *MockChannel) Send(cmd Command) { m.commands <- cmd }

// Fail ends the live listener with err.
func (m *MockChannel) Fail(err error) { m.fail <- err }

// SetPostError makes every post return err.
func (m *MockChannel) SetPostError(err error) {
	m.mu.Lock()
	m.postErr = err
	m.mu.Unlock()
}

// HoldPosts makes later posts block until their context is cancelled, like a
// publish stuck on a slow link.
func (m *MockChannel) HoldPosts() {
	m.mu.Lock()
	m.hold = true
	m.mu.Unlock()
}

// InFlight returns how many held posts are still blocked.
func (m *MockChannel) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// CancelledPosts returns how many held posts ended through cancellation.
func (m *MockChannel) CancelledPosts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// Listeners returns how many Listen calls are running.
func (m *MockChannel) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listeners
}

// Listens returns how many Listen calls were made.
func (m *MockChannel) Listens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listens
}

// StartPosts returns recorded PostStartPlaying calls.
func (m *MockChannel) StartPosts() []StartPlayingPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StartPlayingPost(nil), m.startPosts...)
}

// StatePosts returns recorded PostStateChange calls.
func (m *MockChannel) StatePosts() []StatePost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StatePost(nil), m.statePosts...)
}

// Verify MockChannel implements Channel at compile time.
var _ Channel = (*MockChannel)(nil)
