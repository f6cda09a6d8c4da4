package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/log"
)

const (
	shortExpire = 2 * time.Second
	longExpire  = 6 * time.Second
	playerIcon  = "video-x-generic"
)

// Messenger shows playback messages as desktop notifications. Each message
// replaces the previous one so a burst of skips leaves a single bubble.
type Messenger struct {
	notifier Notifier
	title    string
	logger   zerolog.Logger

	mu   sync.Mutex
	last uint32
}

// NewMessenger creates a messenger posting under title.
func NewMessenger(n Notifier, title string) *Messenger {
	return &Messenger{
		notifier: n,
		title:    title,
		logger:   log.WithComponent("notify"),
	}
}

// ShowMessage shows a short-lived message.
func (m *Messenger) ShowMessage(msg string) {
	m.send(msg, shortExpire, UrgencyLow)
}

// ShowLongMessage shows a message that stays up longer.
func (m *Messenger) ShowLongMessage(msg string) {
	m.send(msg, longExpire, UrgencyNormal)
}

func (m *Messenger) send(body string, expire time.Duration, urgency Urgency) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.notifier.Notify(Notification{
		Summary:  m.title,
		Body:     body,
		Icon:     playerIcon,
		Expire:   expire,
		Replaces: m.last,
		Urgency:  urgency,
	})
	if err != nil {
		m.logger.Debug().Err(err).Msg("notification failed")
		return
	}
	m.last = id
}
