package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/tubesync/internal/app"
	"github.com/llehouerou/tubesync/internal/config"
	"github.com/llehouerou/tubesync/internal/lastfm"
	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/metrics"
	"github.com/llehouerou/tubesync/internal/mpris"
	"github.com/llehouerou/tubesync/internal/notify"
	"github.com/llehouerou/tubesync/internal/redislink"
	"github.com/llehouerou/tubesync/internal/remote"
	"github.com/llehouerou/tubesync/internal/sponsorblock"
	"github.com/llehouerou/tubesync/internal/state"
	"github.com/llehouerou/tubesync/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := openLogFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.Configure(log.Config{Level: cfg.LogLevel(), Output: logFile})
	logger := log.WithComponent("main")

	if err := stderr.Start(func(line string) {
		logger.Warn().Str("event", "stderr.line").Msg(line)
	}); err != nil {
		logger.Warn().Err(err).Str("event", "stderr.capture_failed").Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer stateMgr.Close()

	segCfg := cfg.GetSegmentsConfig()
	if err := stateMgr.DeleteOldSegments(segCfg.CacheTTL()); err != nil {
		logger.Warn().Err(err).Str("event", "state.prune_failed").Msg("failed to prune segment cache")
	}
	source := sponsorblock.NewCached(sponsorblock.New(sponsorblock.Config{
		BaseURL:           segCfg.APIURL,
		Categories:        segCfg.Categories,
		RequestsPerSecond: segCfg.RequestsPerSecond,
	}), stateMgr, segCfg.CacheTTL())

	channel, closeChannel, err := openChannel(cfg, stateMgr, logger)
	if err != nil {
		return err
	}
	defer closeChannel()

	var poster lastfm.Poster
	if cfg.HasLastfmConfig() {
		poster = lastfm.New(lastfm.Credentials{
			APIKey:     cfg.Lastfm.APIKey,
			APISecret:  cfg.Lastfm.APISecret,
			SessionKey: cfg.Lastfm.SessionKey,
		})
	}

	var notifier app.Notifier
	if n, err := notify.New("tubesync"); err == nil {
		notifier = notify.NewMessenger(n, "tubesync")
	}

	model := app.New(app.Options{
		Config:   cfg,
		State:    stateMgr,
		Source:   source,
		Channel:  channel,
		LastFM:   poster,
		Notifier: notifier,
	})
	defer model.Close()

	g, ctx := errgroup.WithContext(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if path := config.ActivePath(); path != "" {
		watcher := config.NewWatcher(path, model.ApplyConfig)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		} else {
			defer watcher.Stop()
		}
	}

	if cfg.Metrics.Listen != "" {
		g.Go(func() error {
			return metrics.Serve(ctx, cfg.Metrics.Listen, logger)
		})
	}

	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
		final, err := p.Run()
		if m, ok := final.(app.Model); ok {
			m.Close()
		}
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	logger.Info().Str("event", "app.start").Msg("tubesync started")
	return g.Wait()
}

// openChannel picks the Redis link when configured and MPRIS otherwise.
func openChannel(cfg *config.Config, store state.Interface, logger zerolog.Logger) (remote.Channel, func(), error) {
	if !cfg.HasRedisConfig() {
		ch, err := mpris.New()
		if err != nil {
			return nil, nil, fmt.Errorf("start mpris: %w", err)
		}
		return ch, func() { _ = ch.Close() }, nil
	}

	rc := cfg.GetRemoteConfig()
	screenID := rc.ScreenID
	if screenID == "" {
		id, err := store.ScreenID()
		if err != nil {
			return nil, nil, fmt.Errorf("screen id: %w", err)
		}
		screenID = id
	}

	ch := redislink.New(redislink.Config{
		Addr:     rc.RedisAddr,
		Password: rc.RedisPassword,
		DB:       rc.RedisDB,
		Prefix:   rc.ChannelPrefix,
		ScreenID: screenID,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ch.Ping(ctx); err != nil {
		// The link stays usable; the listener reports failures to the user.
		logger.Warn().Err(err).Str("event", "redis.ping_failed").Str("addr", rc.RedisAddr).Msg("redis unreachable")
	}
	logger.Info().Str("event", "redis.configured").Str("screen_id", screenID).Msg("redis device link configured")

	return ch, func() { _ = ch.Close() }, nil
}

// openLogFile opens the log file, defaulting to the XDG state directory.
// Logging to the terminal would corrupt the UI.
func openLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		var err error
		path, err = xdg.StateFile(filepath.Join("tubesync", "tubesync.log"))
		if err != nil {
			return nil, err
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
