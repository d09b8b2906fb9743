// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package watcher

import "github.com/prometheus/client_golang/prometheus"

var (
	counterParseDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netgraph_frames_dropped_total",
		Help: "Number of inbound frames dropped because they were malformed or of an unknown type.",
	})
	counterPollFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netgraph_poll_failures_total",
		Help: "Number of fallback poll requests that failed.",
	})
	counterStaleDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netgraph_poll_stale_dropped_total",
		Help: "Number of poll responses discarded because newer data had already been applied.",
	})
)

func init() {
	prometheus.MustRegister(
		counterParseDrops,
		counterPollFailures,
		counterStaleDropped,
	)
}
