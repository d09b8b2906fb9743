// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package stream

import "github.com/prometheus/client_golang/prometheus"

var (
	counterConnectAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netgraph_stream_connect_attempts_total",
		Help: "Number of attempts made to establish the streaming channel.",
	})
	counterMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netgraph_stream_messages_total",
		Help: "Number of frames received over the streaming channel.",
	})
	gaugeLive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netgraph_stream_live",
		Help: "Whether the streaming channel is currently live (1) or not (0).",
	})
)

func init() {
	prometheus.MustRegister(
		counterConnectAttempts,
		counterMessages,
		gaugeLive,
	)
}
