package task

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func blockUntilDone(ctx context.Context) {
	<-ctx.Done()
}

func TestSlot_EmptyCancelIsNoop(t *testing.T) {
	s := NewSlot("test")
	s.Cancel()
	s.Cancel()
	assert.False(t, s.Active())
	assert.Equal(t, "test", s.Role())
}

func TestSlot_StartReplacesPrevious(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := NewSlot("poll")
	first := make(chan struct{})
	s.Start(context.Background(), func(ctx context.Context) {
		<-ctx.Done()
		close(first)
	})
	require.True(t, s.Active())

	s.Start(context.Background(), blockUntilDone)

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("first operation was not cancelled")
	}
	assert.True(t, s.Active())

	s.Cancel()
	assert.False(t, s.Active())
	s.Wait()
}

func TestSlot_ActiveFalseAfterReturn(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSlot("fetch")
		s.Start(context.Background(), func(context.Context) {})
		synctest.Wait()
		if s.Active() {
			t.Error("Active() = true after operation returned")
		}
	})
}

func TestDeliver_DropsAfterCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var q Queue
		s := NewSlot("fetch")
		applied := 0

		s.Start(context.Background(), func(ctx context.Context) {
			Deliver(ctx, &q, func() { applied++ })
		})
		synctest.Wait()

		s.Cancel()
		q.Drain()
		if applied != 0 {
			t.Errorf("applied = %d, want 0 after cancel", applied)
		}
	})
}

func TestDeliver_AppliesWhileLive(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var q Queue
		s := NewSlot("fetch")
		applied := 0

		s.Start(context.Background(), func(ctx context.Context) {
			Deliver(ctx, &q, func() { applied++ })
		})
		synctest.Wait()

		if n := q.Drain(); n != 1 {
			t.Errorf("Drain() = %d, want 1", n)
		}
		if applied != 1 {
			t.Errorf("applied = %d, want 1", applied)
		}
	})
}

func TestSlot_ParentCancelStopsOperation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		s := NewSlot("listen")
		s.Start(parent, blockUntilDone)

		cancel()
		s.Wait()
		if s.Active() {
			t.Error("Active() = true after parent cancel")
		}
	})
}
