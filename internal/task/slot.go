package task

import (
	"context"
	"sync"
)

// Slot holds at most one live asynchronous operation for a role
// (a fetch, a poll, a stream listen, a post).
//
// Start, Cancel and Active must be called from the main context. A result
// delivered with Deliver is dropped if the operation was cancelled before the
// main context runs it, so a cancelled operation never mutates state.
type Slot struct {
	role string
	op   *operation
	wg   sync.WaitGroup
}

type operation struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSlot creates an empty slot for the named role.
func NewSlot(role string) *Slot {
	return &Slot{role: role}
}

// Role returns the role name.
func (s *Slot) Role() string {
	return s.role
}

// Start cancels any live operation of this slot and runs fn on a new
// goroutine. fn must return once ctx is done.
func (s *Slot) Start(parent context.Context, fn func(ctx context.Context)) {
	s.Cancel()

	ctx, cancel := context.WithCancel(parent)
	op := &operation{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.op = op

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(op.done)
		fn(ctx)
	}()
}

// Cancel cancels the live operation, if any. Safe to call repeatedly.
func (s *Slot) Cancel() {
	if s.op == nil {
		return
	}
	s.op.cancel()
	s.op = nil
}

// Active reports whether an operation was started, has not been cancelled
// and has not returned.
func (s *Slot) Active() bool {
	if s.op == nil {
		return false
	}
	if s.op.ctx.Err() != nil {
		return false
	}
	select {
	case <-s.op.done:
		return false
	default:
		return true
	}
}

// Wait blocks until every goroutine started by this slot has returned.
func (s *Slot) Wait() {
	s.wg.Wait()
}

// Deliver posts fn to the main context. fn runs only if ctx is still live
// when the main context reaches it.
func Deliver(ctx context.Context, d Dispatcher, fn func()) {
	d.Post(func() {
		if ctx.Err() != nil {
			return
		}
		fn()
	})
}
