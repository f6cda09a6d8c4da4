//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"
)

type busNotifier struct {
	app string
	obj dbus.BusObject
}

// New connects to the session bus and posts notifications as app. Without a
// session bus it returns a notifier that drops everything.
func New(app string) (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return noop{}, nil //nolint:nilerr // headless sessions have no bus
	}
	return &busNotifier{app: app, obj: conn.Object(busName, busPath)}, nil
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	var id uint32
	err := b.obj.Call(busMethod, 0,
		b.app, n.Replaces, n.Icon, n.Summary, n.Body,
		[]string{}, hints(b.app, n), n.expireMillis(),
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Dismiss(id uint32) error {
	return b.obj.Call(busClose, 0, id).Err
}

func hints(app string, n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(app),
	}
	// Transient bubbles skip the notification history.
	if n.Urgency == UrgencyLow {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}
