// internal/app/app.go
package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubesync/internal/config"
	"github.com/llehouerou/tubesync/internal/devicelink"
	"github.com/llehouerou/tubesync/internal/engine"
	"github.com/llehouerou/tubesync/internal/errmsg"
	"github.com/llehouerou/tubesync/internal/keymap"
	"github.com/llehouerou/tubesync/internal/lastfm"
	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/remote"
	"github.com/llehouerou/tubesync/internal/skip"
	"github.com/llehouerou/tubesync/internal/state"
	"github.com/llehouerou/tubesync/internal/task"
)

// Options holds the dependencies of the host.
type Options struct {
	Config  *config.Config
	State   state.Interface
	Source  skip.Source
	Channel remote.Channel
	// LastFM is optional; nil disables now-playing updates.
	LastFM lastfm.Poster
	// Notifier is optional; nil keeps messages in the status line.
	Notifier Notifier
}

// Model is the bubbletea model of the host.
type Model struct {
	host     *host
	mailbox  *task.Mailbox
	observer *playback.Observer
	skipper  *skip.Watcher
	remote   *remote.Controller
	lastfm   *lastfm.NowPlaying
	keys     *keymap.Resolver

	prompt    textinput.Model
	prompting bool
	width     int
	height    int
}

// New wires the engine and listeners. Listeners are registered in the order
// skip watcher, remote controller, Last.fm.
func New(opts Options) Model {
	h := &host{
		observer:   playback.NewObserver(),
		store:      opts.State,
		notifier:   opts.Notifier,
		logger:     log.WithComponent("app"),
		prefs:      state.DefaultPreferences(),
		foreground: true,
	}

	if opts.State != nil {
		prefs, err := opts.State.GetPreferences()
		if err != nil {
			h.logger.Warn().Err(err).Str("event", "app.prefs_load_failed").Msg("using default preferences")
			h.status = errmsg.Format(errmsg.OpSettingsLoad, err)
		} else {
			h.prefs = prefs
		}
	}
	if opts.Config != nil {
		if opts.Config.Segments.Enabled != nil {
			h.prefs.SegmentSkip = *opts.Config.Segments.Enabled
		}
		if opts.Config.Remote.Enabled != nil {
			h.prefs.DeviceLink = *opts.Config.Remote.Enabled
		}
		if mode, ok := opts.Config.RepeatMode(); ok {
			h.prefs.Repeat = mode
		}
	}

	h.engine = engine.New(h.observer, h)
	h.link = devicelink.New(h.prefs.DeviceLink)

	mb := task.NewMailbox()
	m := Model{
		host:     h,
		mailbox:  mb,
		observer: h.observer,
		keys:     keymap.NewResolver(keymap.All),
	}

	m.skipper = skip.New(skip.Config{
		Source:      opts.Source,
		Controllers: h.observer,
		Dispatcher:  mb,
		Messenger:   h,
		Enabled:     h.SegmentSkipEnabled,
	})
	h.observer.Add(m.skipper)

	if opts.Channel != nil {
		m.remote = remote.New(remote.Config{
			Channel:     opts.Channel,
			Link:        h.link,
			Settings:    h,
			Opener:      h,
			Suggestions: h,
			Foreground:  h,
			Messenger:   h,
			Controllers: h.observer,
			Dispatcher:  mb,
		})
		h.observer.Add(m.remote)
	}

	if opts.LastFM != nil {
		m.lastfm = lastfm.NewNowPlaying(opts.LastFM, h.observer)
		h.observer.Add(m.lastfm)
	}

	ti := textinput.New()
	ti.Placeholder = "video id or link [length] [artist - title]"
	ti.CharLimit = 256
	m.prompt = ti

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(initDoneCmd, WaitDispatch(m.mailbox), TickCmd())
}

// Post schedules fn on the update goroutine. It is safe from any goroutine.
func (m Model) Post(fn func()) {
	m.mailbox.Post(fn)
}

// ApplyConfig schedules the live settings of cfg. It is the config watcher
// callback.
func (m Model) ApplyConfig(cfg *config.Config) {
	m.mailbox.Post(func() { m.host.applyConfig(cfg) })
}

// Close ends the session and waits for listener goroutines. It runs on the
// update goroutine, or after the program has returned. Later calls are no-ops.
func (m Model) Close() {
	if m.host.closed {
		return
	}
	m.host.closed = true
	// Releasing first lets the remote hear that nothing is playing.
	if m.host.engine.Active() {
		m.host.engine.Release()
	}
	if m.remote != nil {
		m.remote.Close()
	}
	m.mailbox.Close()
	m.skipper.Wait()
	if m.remote != nil {
		m.remote.Wait()
	}
	if m.lastfm != nil {
		m.lastfm.Wait()
	}
}
