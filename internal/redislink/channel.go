// Package redislink carries the remote-control protocol over Redis pub/sub.
//
// The companion publishes commands on "<prefix>:<screen>:commands" and
// subscribes to "<prefix>:<screen>:state" for playback reports.
package redislink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tubesync/internal/log"
	"github.com/llehouerou/tubesync/internal/remote"
)

// ErrSubscriptionClosed is returned by Listen when Redis closes the
// subscription underneath it.
var ErrSubscriptionClosed = errors.New("redis subscription closed")

// DefaultPrefix is the channel prefix used when none is configured.
const DefaultPrefix = "tubesync"

// Config holds Redis connection configuration.
type Config struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // Channel prefix
	ScreenID string // Identity of this player on the channel
}

// Channel is a remote.Channel backed by Redis pub/sub.
type Channel struct {
	client   *redis.Client
	screenID string
	commands string
	state    string
	logger   zerolog.Logger
}

// New creates a channel with its own Redis client.
func New(cfg Config) *Channel {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewWithClient(client, cfg.Prefix, cfg.ScreenID)
}

// NewWithClient creates a channel on an existing client.
func NewWithClient(client *redis.Client, prefix, screenID string) *Channel {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Channel{
		client:   client,
		screenID: screenID,
		commands: CommandsChannel(prefix, screenID),
		state:    StateChannel(prefix, screenID),
		logger:   log.WithComponent("redislink"),
	}
}

// CommandsChannel returns the channel commands for screenID arrive on.
func CommandsChannel(prefix, screenID string) string {
	return prefix + ":" + screenID + ":commands"
}

// StateChannel returns the channel playback reports for screenID go to.
func StateChannel(prefix, screenID string) string {
	return prefix + ":" + screenID + ":state"
}

// Ping checks the connection.
func (c *Channel) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Channel) Close() error {
	return c.client.Close()
}

// Listen subscribes to the commands channel and calls handle for every
// decodable command until ctx is cancelled or the subscription fails.
// Undecodable payloads are logged and dropped.
func (c *Channel) Listen(ctx context.Context, handle func(remote.Command)) error {
	sub := c.client.Subscribe(ctx, c.commands)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading messages.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("subscribe %s: %w", c.commands, err)
	}

	c.logger.Debug().Str("channel", c.commands).Msg("subscribed")
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ErrSubscriptionClosed
			}
			cmd, err := DecodeCommand([]byte(msg.Payload))
			if err != nil {
				c.logger.Warn().Err(err).Str("event", "redislink.bad_command").Msg("dropping command")
				continue
			}
			handle(cmd)
		}
	}
}

// PostStartPlaying publishes a startPlaying report. An empty videoID is
// encoded as null.
func (c *Channel) PostStartPlaying(ctx context.Context, videoID string, positionMs, lengthMs int64) error {
	msg := startPlaying{
		Type:       "startPlaying",
		ScreenID:   c.screenID,
		PositionMs: positionMs,
		LengthMs:   lengthMs,
	}
	if videoID != "" {
		msg.VideoID = &videoID
	}
	return c.publish(ctx, msg)
}

// PostStateChange publishes a stateChange report.
func (c *Channel) PostStateChange(ctx context.Context, positionMs, lengthMs int64, playing bool) error {
	return c.publish(ctx, stateChange{
		Type:       "stateChange",
		ScreenID:   c.screenID,
		PositionMs: positionMs,
		LengthMs:   lengthMs,
		Playing:    playing,
	})
}

func (c *Channel) publish(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := c.client.Publish(ctx, c.state, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", c.state, err)
	}
	return nil
}

// Verify Channel implements remote.Channel at compile time.
var _ remote.Channel = (*Channel)(nil)
