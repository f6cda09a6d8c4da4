// Package sponsorblock fetches crowd-sourced skip segments from a
// SponsorBlock-compatible API.
package sponsorblock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/llehouerou/tubesync/internal/skip"
)

// ErrRateLimited is returned when the API answers 429.
var ErrRateLimited = errors.New("segment api rate limited")

const (
	DefaultBaseURL           = "https://sponsor.ajay.app"
	DefaultRequestsPerSecond = 2.0
	userAgent                = "tubesync/1.0 (https://github.com/llehouerou/tubesync)"
)

// DefaultCategories are fetched when none are configured.
var DefaultCategories = []string{"sponsor"}

// Config configures a Client. Zero values select the defaults.
type Config struct {
	BaseURL           string
	Categories        []string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client is a SponsorBlock API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	categories string
	limiter    *rate.Limiter
}

// New creates a new SponsorBlock client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	categories, _ := json.Marshal(cfg.Categories)
	return &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		categories: string(categories),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// segmentResult is one entry of the skipSegments response.
type segmentResult struct {
	Segment    [2]float64 `json:"segment"`
	UUID       string     `json:"UUID"`
	Category   string     `json:"category"`
	ActionType string     `json:"actionType"`
}

// FetchSegments returns the skippable segments of videoID ordered by start.
// A video without submissions yields an empty list.
func (c *Client) FetchSegments(ctx context.Context, videoID string) ([]skip.Segment, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("videoID", videoID)
	params.Set("categories", c.categories)

	reqURL := fmt.Sprintf("%s/api/skipSegments?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return []skip.Segment{}, nil
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var results []segmentResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return toSegments(results), nil
}

func toSegments(results []segmentResult) []skip.Segment {
	segments := make([]skip.Segment, 0, len(results))
	for _, r := range results {
		if r.ActionType != "" && r.ActionType != "skip" {
			continue
		}
		start := seconds(r.Segment[0])
		end := seconds(r.Segment[1])
		if start < 0 || end <= start {
			continue
		}
		segments = append(segments, skip.Segment{
			Start:    start,
			End:      end,
			Category: r.Category,
			UUID:     r.UUID,
		})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond)
}

// Verify Client implements skip.Source at compile time.
var _ skip.Source = (*Client)(nil)
