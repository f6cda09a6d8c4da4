// Package task runs asynchronous work on behalf of playback listeners.
//
// Listener state lives on a single main context (the host UI loop). Work that
// would block runs on its own goroutine and hands its result back through a
// Dispatcher; a Slot owns at most one such goroutine per role.
package task

import "sync"

// Dispatcher marshals a function onto the main context.
type Dispatcher interface {
	Post(fn func())
}

// Mailbox is an unbounded Dispatcher. Post never blocks, so the main context
// may post to itself. The host reads with Next and sleeps on Ready.
type Mailbox struct {
	mu        sync.Mutex
	pending   []func()
	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMailbox creates an open mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Post queues fn for the main context. It drops fn once the mailbox is
// closed.
func (m *Mailbox) Post(fn func()) {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
	}
	m.pending = append(m.pending, fn)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Next pops the oldest queued function without blocking.
func (m *Mailbox) Next() (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, false
	}
	fn := m.pending[0]
	m.pending[0] = nil
	m.pending = m.pending[1:]
	return fn, true
}

// Ready receives a value after a Post. A single reader that checks Next
// before sleeping on Ready never misses a function.
func (m *Mailbox) Ready() <-chan struct{} {
	return m.ready
}

// Len returns the number of queued functions.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Done is closed when the mailbox is closed.
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

// Close stops accepting functions. Functions queued before Close stay
// readable from Next.
func (m *Mailbox) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		close(m.done)
		m.mu.Unlock()
	})
}

// Queue is a Dispatcher whose functions run only when Drain is called.
// Tests use it to act as the main context.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// Post appends fn to the queue.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Drain runs queued functions on the calling goroutine, including functions
// posted while draining. It returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
		n++
	}
}

// Len returns the number of queued functions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Verify implementations at compile time.
var (
	_ Dispatcher = (*Mailbox)(nil)
	_ Dispatcher = (*Queue)(nil)
)
