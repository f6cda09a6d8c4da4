// Package notify posts playback messages as desktop notifications.
package notify

import "time"

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is a single desktop bubble.
type Notification struct {
	Summary  string
	Body     string
	Icon     string
	Expire   time.Duration // zero uses the server default
	Replaces uint32
	Urgency  Urgency
}

// expireMillis converts Expire to the wire value, where -1 asks the server
// for its default.
func (n Notification) expireMillis() int32 {
	if n.Expire <= 0 {
		return -1
	}
	return int32(n.Expire / time.Millisecond)
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns the id the server assigned. A notifier
	// without a notification server returns 0 and no error.
	Notify(n Notification) (uint32, error)
	// Dismiss removes a notification shown earlier.
	Dismiss(id uint32) error
}

type noop struct{}

func (noop) Notify(Notification) (uint32, error) { return 0, nil }

func (noop) Dismiss(uint32) error { return nil }
