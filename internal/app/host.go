package app

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/config"
	"github.com/llehouerou/tubesync/internal/devicelink"
	"github.com/llehouerou/tubesync/internal/engine"
	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/state"
)

// Notifier shows messages outside the terminal.
type Notifier interface {
	ShowMessage(msg string)
	ShowLongMessage(msg string)
}

// host is the collaborator surface the listeners see. It lives behind a
// pointer so every copy of the bubbletea Model shares it.
type host struct {
	engine   *engine.Engine
	observer *playback.Observer
	link     *devicelink.DeviceLink
	store    state.Interface
	notifier Notifier
	logger   zerolog.Logger

	prefs      state.Preferences
	foreground bool
	attention  bool
	closed     bool

	status     string
	statusLong bool
	playlist   string // playlist shown as suggestions source
}

func (h *host) RepeatMode() playback.RepeatMode {
	return h.prefs.Repeat
}

func (h *host) SegmentSkipEnabled() bool {
	return h.prefs.SegmentSkip
}

// OpenVideo replaces the active session with v.
func (h *host) OpenVideo(v *playback.Video) {
	h.openVideo(v, 0)
}

// openVideo opens v over any active session. A non-positive length selects
// engine.DefaultLength.
func (h *host) openVideo(v *playback.Video, length time.Duration) {
	h.playlist = v.PlaylistID
	h.engine.Open(v, length)
	h.logger.Info().
		Str("event", "app.video_opened").
		Str("video_id", v.ID).
		Bool("remote", v.Remote).
		Msg("video opened")
}

func (h *host) LoadSuggestions(v *playback.Video) {
	h.playlist = v.PlaylistID
}

func (h *host) IsAppInForeground() bool {
	return h.foreground
}

// BringToForeground cannot raise a terminal window; it flags the view until
// the next key press or focus event.
func (h *host) BringToForeground() {
	h.attention = true
}

func (h *host) ShowMessage(msg string) {
	h.show(msg, false)
}

func (h *host) ShowLongMessage(msg string) {
	h.show(msg, true)
}

func (h *host) show(msg string, long bool) {
	h.status = msg
	h.statusLong = long
	if h.foreground || h.notifier == nil {
		return
	}
	if long {
		h.notifier.ShowLongMessage(msg)
	} else {
		h.notifier.ShowMessage(msg)
	}
}

// release ends the session and lets the remote link resume listening.
func (h *host) release() {
	h.engine.Release()
	h.observer.OnViewResumed()
}

func (h *host) toggleSegmentSkip() {
	h.prefs.SegmentSkip = !h.prefs.SegmentSkip
	h.savePreferences()
	if h.prefs.SegmentSkip {
		h.ShowMessage("Segment skipping on")
	} else {
		h.ShowMessage("Segment skipping off")
	}
}

func (h *host) toggleDeviceLink() {
	h.setDeviceLink(!h.prefs.DeviceLink)
	if h.prefs.DeviceLink {
		h.ShowMessage("Device link on")
	} else {
		h.ShowMessage("Device link off")
	}
}

func (h *host) setDeviceLink(enabled bool) {
	h.prefs.DeviceLink = enabled
	h.link.SetEnabled(enabled)
	h.savePreferences()
}

func (h *host) cycleRepeat() {
	h.prefs.Repeat = h.prefs.Repeat.Next()
	h.savePreferences()
	h.ShowMessage("Repeat: " + h.prefs.Repeat.String())
}

func (h *host) savePreferences() {
	if h.store != nil {
		h.store.SavePreferences(h.prefs)
	}
}

// applyConfig applies the live-reloadable settings of cfg.
func (h *host) applyConfig(cfg *config.Config) {
	changed := false
	if cfg.Segments.Enabled != nil && *cfg.Segments.Enabled != h.prefs.SegmentSkip {
		h.prefs.SegmentSkip = *cfg.Segments.Enabled
		changed = true
	}
	if cfg.Remote.Enabled != nil && *cfg.Remote.Enabled != h.prefs.DeviceLink {
		h.prefs.DeviceLink = *cfg.Remote.Enabled
		h.link.SetEnabled(h.prefs.DeviceLink)
		changed = true
	}
	if mode, ok := cfg.RepeatMode(); ok && mode != h.prefs.Repeat {
		h.prefs.Repeat = mode
		changed = true
	}
	if !changed {
		return
	}
	h.savePreferences()
	h.logger.Info().Str("event", "app.config_applied").Msg("configuration reloaded")
	h.ShowMessage("Configuration reloaded")
}
