package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	sent   []Notification
	nextID uint32
	err    error
}

func (r *recordingNotifier) Notify(n Notification) (uint32, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.sent = append(r.sent, n)
	r.nextID++
	if n.Replaces != 0 {
		return n.Replaces, nil
	}
	return r.nextID, nil
}

func (r *recordingNotifier) Dismiss(uint32) error { return nil }

func TestMessenger_ReplacesPreviousNotification(t *testing.T) {
	rec := &recordingNotifier{}
	m := NewMessenger(rec, "tubesync")

	m.ShowMessage("Skipping sponsor segment")
	m.ShowLongMessage("Device connected: Phone")

	require.Len(t, rec.sent, 2)
	assert.Equal(t, Notification{
		Summary: "tubesync",
		Body:    "Skipping sponsor segment",
		Icon:    playerIcon,
		Expire:  shortExpire,
		Urgency: UrgencyLow,
	}, rec.sent[0])
	assert.Equal(t, uint32(1), rec.sent[1].Replaces)
	assert.Equal(t, longExpire, rec.sent[1].Expire)
	assert.Equal(t, UrgencyNormal, rec.sent[1].Urgency)
}

func TestMessenger_ErrorKeepsLastID(t *testing.T) {
	rec := &recordingNotifier{}
	m := NewMessenger(rec, "tubesync")

	m.ShowMessage("one")
	rec.err = errors.New("no bus")
	m.ShowMessage("two")
	rec.err = nil
	m.ShowMessage("three")

	require.Len(t, rec.sent, 2)
	assert.Equal(t, uint32(1), rec.sent[1].Replaces)
}
