// Package metrics provides Prometheus metrics for the playback listeners.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values are bounded: segment categories and command kinds only.
var (
	// SegmentsSkippedTotal counts automatic skips by segment category.
	SegmentsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tubesync_segments_skipped_total",
		Help: "Total number of segments skipped automatically, by category.",
	}, []string{"category"})

	// SegmentFetchErrorsTotal counts failed segment list fetches.
	SegmentFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tubesync_segment_fetch_errors_total",
		Help: "Total number of failed segment list fetches.",
	})

	// RemoteCommandsTotal counts commands received from the companion device.
	RemoteCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tubesync_remote_commands_total",
		Help: "Total number of remote commands received, by kind.",
	}, []string{"kind"})

	// RemotePostErrorsTotal counts failed outbound state posts.
	RemotePostErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tubesync_remote_post_errors_total",
		Help: "Total number of failed outbound remote posts, by post type.",
	}, []string{"post"})

	// RemoteListening is 1 while a command listen subscription is live.
	RemoteListening = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tubesync_remote_listening",
		Help: "Whether the remote command stream is being listened to.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
