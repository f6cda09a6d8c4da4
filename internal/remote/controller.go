// Package remote keeps a companion device in sync with local playback.
//
// The Controller listens to the companion's command stream while the device
// link is enabled, applies the commands it receives to the active session,
// and reports local playback transitions back over the same channel.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/devicelink"
	"github.com/llehouerou/tubesync/internal/errmsg"
	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/metrics"
	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/task"
)

// closeGrace bounds how long Close lets the last start-playing post run.
const closeGrace = 2 * time.Second

// Config holds the controller collaborators.
type Config struct {
	Channel     Channel
	Link        *devicelink.DeviceLink
	Settings    Settings
	Opener      Opener
	Suggestions SuggestionsLoader
	Foreground  Foreground
	Messenger   Messenger
	Controllers playback.ControllerSource
	Dispatcher  task.Dispatcher
}

// Controller is a playback.Listener that implements the remote session.
// All methods run on the main context.
type Controller struct {
	channel     Channel
	link        *devicelink.DeviceLink
	settings    Settings
	opener      Opener
	suggestions SuggestionsLoader
	foreground  Foreground
	messenger   Messenger
	controllers playback.ControllerSource
	dispatcher  task.Dispatcher
	logger      zerolog.Logger

	base       context.Context
	cancelBase context.CancelFunc
	graceTimer *time.Timer
	listen     *task.Slot
	postStart  *task.Slot
	postState  *task.Slot
	closed     bool
}

// New creates a controller, registers it as the device link observer and
// starts listening if the link is enabled.
func New(cfg Config) *Controller {
	base, cancel := context.WithCancel(context.Background())
	c := &Controller{
		channel:     cfg.Channel,
		link:        cfg.Link,
		settings:    cfg.Settings,
		opener:      cfg.Opener,
		suggestions: cfg.Suggestions,
		foreground:  cfg.Foreground,
		messenger:   cfg.Messenger,
		controllers: cfg.Controllers,
		dispatcher:  cfg.Dispatcher,
		logger:      log.WithComponent("remote"),
		base:        base,
		cancelBase:  cancel,
		listen:      task.NewSlot("remote.listen"),
		postStart:   task.NewSlot("remote.post-start"),
		postState:   task.NewSlot("remote.post-state"),
	}
	// The link may be toggled from any goroutine; re-evaluate on the main context.
	c.link.SetOnChange(func() {
		c.dispatcher.Post(c.tryListening)
	})
	c.tryListening()
	return c
}

// Listening reports whether a command stream subscription is live.
func (c *Controller) Listening() bool {
	return c.listen.Active()
}

// Close stops listening, cancels state posts and deregisters from the device
// link. A start-playing post already in flight, typically the "nothing
// playing" report of a release, gets closeGrace to finish. Nothing is posted
// after Close.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.link.SetOnChange(nil)
	c.listen.Cancel()
	c.postState.Cancel()
	metrics.RemoteListening.Set(0)
	c.graceTimer = time.AfterFunc(closeGrace, c.cancelBase)
}

// Wait blocks until every controller goroutine has returned.
func (c *Controller) Wait() {
	c.listen.Wait()
	c.postStart.Wait()
	c.postState.Wait()
	if c.closed {
		c.graceTimer.Stop()
		c.cancelBase()
	}
}

func (c *Controller) OnInitDone() {
	c.tryListening()
}

func (c *Controller) OnViewResumed() {
	c.tryListening()
}

func (c *Controller) OnVideoLoaded(v *playback.Video) {
	c.postStartPlaying(v)
}

func (c *Controller) OnPlay() {
	c.postPlay(true)
}

func (c *Controller) OnPause() {
	c.postPlay(false)
}

func (c *Controller) OnPlayEnd() {
	switch c.settings.RepeatMode() {
	case playback.RepeatPause:
		c.postPlay(false)
	case playback.RepeatOne:
		c.postStartPlaying(c.currentVideo())
	case playback.RepeatOff, playback.RepeatAll:
		// Advancing is handled by the engine; nothing to report yet.
	}
}

// OnEngineReleased ends the session: all roles are cancelled and the remote
// is told that nothing is playing. Listening resumes on the next
// OnInitDone or OnViewResumed.
func (c *Controller) OnEngineReleased() {
	c.cancelAll()
	c.postStartPlaying(nil)
}

func (c *Controller) tryListening() {
	if c.closed {
		return
	}
	if c.link.Enabled() {
		c.startListening()
	} else {
		c.stopListening()
	}
}

func (c *Controller) startListening() {
	if c.listen.Active() {
		return
	}

	c.logger.Info().Str("event", "remote.listen_start").Msg("listening for remote commands")
	metrics.RemoteListening.Set(1)
	c.listen.Start(c.base, func(ctx context.Context) {
		err := c.channel.Listen(ctx, func(cmd Command) {
			task.Deliver(ctx, c.dispatcher, func() { c.process(cmd) })
		})
		if ctx.Err() != nil {
			return
		}
		task.Deliver(ctx, c.dispatcher, func() {
			metrics.RemoteListening.Set(0)
			if err == nil {
				c.logger.Info().Str("event", "remote.listen_end").Msg("remote command stream ended")
				return
			}
			c.logger.Error().Err(err).Str("event", "remote.listen_failed").Msg("remote command stream failed")
			c.messenger.ShowMessage(errmsg.Format(errmsg.OpRemoteListen, err))
		})
	})
}

func (c *Controller) stopListening() {
	if c.listen.Active() {
		c.logger.Info().Str("event", "remote.listen_stop").Msg("stopped listening for remote commands")
	}
	c.cancelAll()
}

func (c *Controller) cancelAll() {
	c.listen.Cancel()
	c.postStart.Cancel()
	c.postState.Cancel()
	metrics.RemoteListening.Set(0)
}

func (c *Controller) currentVideo() *playback.Video {
	if ctrl := c.controllers.Controller(); ctrl != nil {
		return ctrl.Video()
	}
	return nil
}

// postStartPlaying reports v with the current position, or "nothing
// playing" when v or the session is missing.
func (c *Controller) postStartPlaying(v *playback.Video) {
	videoID := ""
	positionMs, lengthMs := int64(-1), int64(-1)

	if ctrl := c.controllers.Controller(); v != nil && ctrl != nil {
		videoID = v.ID
		positionMs = Ms(ctrl.Position())
		lengthMs = Ms(ctrl.Duration())
	}

	if c.closed || !c.link.Enabled() {
		return
	}
	c.postStart.Start(c.base, func(ctx context.Context) {
		err := c.channel.PostStartPlaying(ctx, videoID, positionMs, lengthMs)
		c.logPostError(ctx, "start_playing", err)
	})
}

func (c *Controller) postStateChange(positionMs, lengthMs int64, playing bool) {
	if c.closed || !c.link.Enabled() {
		return
	}
	c.postState.Start(c.base, func(ctx context.Context) {
		err := c.channel.PostStateChange(ctx, positionMs, lengthMs, playing)
		c.logPostError(ctx, "state_change", err)
	})
}

func (c *Controller) logPostError(ctx context.Context, post string, err error) {
	if err == nil || ctx.Err() != nil {
		return
	}
	metrics.RemotePostErrorsTotal.WithLabelValues(post).Inc()
	c.logger.Warn().Err(err).Str("event", "remote.post_failed").Str("post", post).Msg("remote post failed")
}

func (c *Controller) postPlay(playing bool) {
	ctrl := c.controllers.Controller()
	if ctrl == nil {
		c.postStateChange(-1, -1, false)
		return
	}
	c.postStateChange(Ms(ctrl.Position()), Ms(ctrl.Duration()), playing)
}

func (c *Controller) moveToForeground() {
	if !c.foreground.IsAppInForeground() {
		c.foreground.BringToForeground()
	}
}

// process applies one command. Commands that need a session are dropped
// when none is active: the command raced with the end of playback.
func (c *Controller) process(cmd Command) {
	metrics.RemoteCommandsTotal.WithLabelValues(cmd.Kind().String()).Inc()
	c.logger.Debug().Str("event", "remote.command").Stringer("kind", cmd.Kind()).Msg("remote command received")

	ctrl := c.controllers.Controller()

	switch cmd := cmd.(type) {
	case OpenVideo:
		c.opener.OpenVideo(&playback.Video{
			ID:            cmd.VideoID,
			PlaylistID:    cmd.PlaylistID,
			PlaylistIndex: cmd.PlaylistIndex,
			Remote:        true,
		})
	case UpdatePlaylist:
		if ctrl == nil || ctrl.Video() == nil {
			return
		}
		v := ctrl.Video()
		v.PlaylistID = cmd.PlaylistID
		c.suggestions.LoadSuggestions(v)
	case Seek:
		if ctrl == nil {
			return
		}
		c.moveToForeground()
		ctrl.SetPosition(cmd.Position)
		c.postStateChange(Ms(cmd.Position), Ms(ctrl.Duration()), ctrl.IsPlaying())
	case Play:
		if ctrl == nil {
			return
		}
		c.moveToForeground()
		ctrl.SetPlay(true)
		c.postPlay(true)
	case Pause:
		if ctrl == nil {
			return
		}
		c.moveToForeground()
		ctrl.SetPlay(false)
		c.postPlay(false)
	case GetState:
		c.postStartPlaying(c.currentVideo())
	case Connected:
		c.moveToForeground()
		c.messenger.ShowLongMessage(fmt.Sprintf("Device connected: %s", cmd.DeviceName))
	case Disconnected:
		c.messenger.ShowLongMessage(fmt.Sprintf("Device disconnected: %s", cmd.DeviceName))
	default:
		c.logger.Warn().Str("event", "remote.command_unhandled").Stringer("kind", cmd.Kind()).Msg("unhandled remote command")
	}
}

// Verify Controller implements playback.Listener at compile time.
var _ playback.Listener = (*Controller)(nil)
