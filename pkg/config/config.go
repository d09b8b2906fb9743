// Copyright (c) 2026 Tigera, Inc. All rights reserved.

package config

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// EnvConfigPrefix represents the prefix used to load ENV variables required for startup.
	EnvConfigPrefix = "NETGRAPH"
)

// Config defines the parameters of the application.
type Config struct {
	// Backend host serving both the websocket and the REST fallback.
	BackendHost string `default:"localhost:8080" split_words:"true"`
	BackendTLS  bool   `default:"false" split_words:"true"`

	LogLevel string `default:"INFO" split_words:"true"`

	// Address the renderer-facing read API listens on.
	ListenAddr string `default:":9123" split_words:"true"`

	// Metrics endpoint configuration.
	EnableMetrics bool `default:"true" split_words:"true"`

	// Poll interval for the REST fallback while the channel is not live.
	PollInterval time.Duration `default:"1s" split_words:"true"`

	// Reconnect backoff bounds for the streaming channel.
	BackoffFloor   time.Duration `default:"1s" split_words:"true"`
	BackoffCeiling time.Duration `default:"30s" split_words:"true"`
}

// StreamURL returns the websocket endpoint for the configured backend.
func (c *Config) StreamURL() string {
	scheme := "ws"
	if c.BackendTLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/api/networking/ws", scheme, c.BackendHost)
}

// BaseURL returns the REST base URL for the configured backend.
func (c *Config) BaseURL() string {
	scheme := "http"
	if c.BackendTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.BackendHost)
}

// ConfigureLogging sets the log output format and level.
func ConfigureLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("Invalid log level %q, defaulting to INFO", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
