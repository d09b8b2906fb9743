// Copyright (c) 2026 Tigera, Inc. All rights reserved.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/tigera/netgraph/pkg/config"
	"github.com/tigera/netgraph/pkg/server"
	"github.com/tigera/netgraph/pkg/stream"
	"github.com/tigera/netgraph/pkg/watcher"
)

// VERSION is overridden at build time.
var VERSION = "dev"

var versionFlag = flag.Bool("version", false, "Print version information")

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(VERSION)
		os.Exit(0)
	}

	cfg := config.Config{}
	if err := envconfig.Process(config.EnvConfigPrefix, &cfg); err != nil {
		panic(err)
	}

	config.ConfigureLogging(cfg.LogLevel)
	log.Debugf("Starting with %#v", cfg)

	client := stream.NewClient(stream.Config{
		URL:            cfg.StreamURL(),
		BackoffFloor:   cfg.BackoffFloor,
		BackoffCeiling: cfg.BackoffCeiling,
	})
	w := watcher.New(watcher.Config{
		BaseURL:      cfg.BaseURL(),
		PollInterval: cfg.PollInterval,
	}, client)
	w.Start()

	srv := server.New(w, cfg.EnableMetrics)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Routes(),
	}

	go func() {
		log.Infof("Listening for HTTP requests at %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.WithField("signal", sig).Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown did not complete cleanly")
	}
	w.Stop()
}
