package app

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/tubesync/internal/mpris"
	"github.com/llehouerou/tubesync/internal/playback"
)

var (
	errEmptyInput = errors.New("no video given")
	videoIDRe     = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// parseOpenInput reads "<id|url> [length] [author - title]". The length is a
// Go duration ("4m20s") or a clock value ("4:20"); when absent the engine
// default applies and the remaining words are the title.
func parseOpenInput(input string) (*playback.Video, time.Duration, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, 0, errEmptyInput
	}

	var v *playback.Video
	if cmd, ok := mpris.ParseVideoURL(fields[0]); ok {
		v = &playback.Video{
			ID:            cmd.VideoID,
			PlaylistID:    cmd.PlaylistID,
			PlaylistIndex: cmd.PlaylistIndex,
		}
	} else if videoIDRe.MatchString(fields[0]) {
		v = playback.NewVideo(fields[0])
	} else {
		return nil, 0, fmt.Errorf("not a video id or link: %q", fields[0])
	}

	rest := fields[1:]
	var length time.Duration
	if len(rest) > 0 {
		if d, ok := parseLength(rest[0]); ok {
			length = d
			rest = rest[1:]
		}
	}

	title := strings.Join(rest, " ")
	if author, name, ok := strings.Cut(title, " - "); ok {
		v.Author = strings.TrimSpace(author)
		title = name
	}
	v.Title = strings.TrimSpace(title)

	return v, length, nil
}

// parseLength accepts "90s", "4m20s", "4:20" and "1:04:20".
func parseLength(s string) (time.Duration, bool) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, d > 0
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var total time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + time.Duration(n)
	}
	return total * time.Second, total > 0
}
