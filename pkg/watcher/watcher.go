// Copyright (c) 2026 Tigera, Inc. All rights reserved.

// Package watcher reconciles the two data sources for the traffic topology:
// frames pushed over the streaming channel while it is live, and periodic
// polls of the REST endpoints while it is not. Whatever the source, the
// watcher exposes a single authoritative topology and stat set.
package watcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
	"github.com/tigera/netgraph/pkg/graph"
	"github.com/tigera/netgraph/pkg/stream"
)

const (
	defaultPollInterval     = 1 * time.Second
	defaultFailureThreshold = 5

	topologyPath = "/api/networking/topology"
	statsPath    = "/api/networking/stats"
)

// ErrBackendUnavailable is surfaced (never thrown) once polling has failed
// persistently. It clears on the next successful update from either source.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Streamer is the streaming-channel dependency. Satisfied by *stream.Client.
type Streamer interface {
	Start()
	Stop()
	Events() <-chan stream.Event
}

type resource string

const (
	resourceTopology resource = "topology"
	resourceStats    resource = "stats"
)

// pollResult carries one resolved fetch back onto the event loop, tagged
// with the time it was issued.
type pollResult struct {
	resource resource
	issuedAt time.Time
	topology *v1.TopologySnapshot
	stats    []v1.Stats
	err      error
}

type Config struct {
	// BaseURL of the REST fallback, e.g. http://host.
	BaseURL string

	// PollInterval between fallback fetches while the channel is not live.
	PollInterval time.Duration

	// HTTPClient used for fallback fetches. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// FailureThreshold is the number of consecutive poll failures after
	// which the watcher surfaces ErrBackendUnavailable.
	FailureThreshold int

	// OnUpdate, if set, is invoked from the event loop after every applied
	// change (data or connection state).
	OnUpdate func()
}

// Watcher runs a single event loop that owns all shared state; stream
// events, poll ticks and poll resolutions are all funneled through it, so
// there is exactly one writer at any instant. Reads go through Current(),
// which returns copies.
type Watcher struct {
	cfg    Config
	stream Streamer

	mu       sync.RWMutex
	topology *graph.Topology
	stats    []v1.Stats
	mode     v1.ConnectionState
	lastErr  error

	// Event-loop-owned state.
	lastApplied  map[resource]time.Time
	pollFailures int

	pollResults chan pollResult
	stopCh      chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	startOnce   sync.Once
}

func New(cfg Config, s Streamer) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	return &Watcher{
		cfg:         cfg,
		stream:      s,
		mode:        v1.StateDisconnected,
		lastApplied: make(map[resource]time.Time),
		pollResults: make(chan pollResult, 8),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start begins streaming and, until the channel is live, polling.
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		w.stream.Start()
		go w.loop()
	})
}

// Stop shuts the watcher down deterministically: the poll ticker is stopped,
// the streaming client is torn down, and no further updates are applied.
// Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.stream.Stop()
		<-w.done
	})
}

// Current returns the latest topology (nil before first data), stats,
// connection mode and the non-fatal error value, all safe to retain.
func (w *Watcher) Current() (*graph.Topology, []v1.Stats, v1.ConnectionState, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	stats := make([]v1.Stats, len(w.stats))
	copy(stats, w.stats)
	mode := w.mode
	// Once polling has failed persistently, neither data path is working;
	// report disconnected rather than the channel's retry churn. Polling
	// continues underneath, so the report clears on the next success.
	if w.lastErr != nil && mode != v1.StateLive {
		mode = v1.StateDisconnected
	}
	return w.topology, stats, mode, w.lastErr
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case ev := <-w.stream.Events():
			w.handleStreamEvent(ev)
		case <-ticker.C:
			if w.currentMode() != v1.StateLive {
				w.kickPolls()
			}
		case res := <-w.pollResults:
			w.applyPoll(res)
		}
	}
}

func (w *Watcher) currentMode() v1.ConnectionState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mode
}

func (w *Watcher) handleStreamEvent(ev stream.Event) {
	switch ev.Type {
	case stream.EventStateChange:
		w.mu.Lock()
		w.mode = ev.State
		w.mu.Unlock()
		log.WithField("state", ev.State).Debug("Connection state changed")
		w.notify()
	case stream.EventMessage:
		var msg v1.MetricsMessage
		if err := json.Unmarshal(ev.Message, &msg); err != nil {
			counterParseDrops.Inc()
			log.WithError(err).Warn("Dropping malformed frame")
			return
		}
		if msg.Type != v1.MetricsMessageType {
			counterParseDrops.Inc()
			log.WithField("type", msg.Type).Debug("Dropping frame of unknown type")
			return
		}
		now := time.Now()
		w.mu.Lock()
		w.topology = graph.Normalize(msg.Topology)
		w.stats = msg.Stats
		w.lastErr = nil
		w.mu.Unlock()
		// Pushed data supersedes any poll still in flight.
		w.lastApplied[resourceTopology] = now
		w.lastApplied[resourceStats] = now
		w.pollFailures = 0
		w.notify()
	}
}

// kickPolls issues the two fallback fetches without waiting for them. A slow
// fetch may still be in flight when the next tick fires; resolutions are
// applied on the event loop and stale ones are discarded by issue time.
func (w *Watcher) kickPolls() {
	issuedAt := time.Now()
	go w.fetch(issuedAt, resourceTopology, topologyPath)
	go w.fetch(issuedAt, resourceStats, statsPath)
}

func (w *Watcher) fetch(issuedAt time.Time, res resource, path string) {
	result := pollResult{resource: res, issuedAt: issuedAt}

	resp, err := w.cfg.HTTPClient.Get(w.cfg.BaseURL + path)
	if err != nil {
		result.err = err
	} else {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			result.err = fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		} else {
			switch res {
			case resourceTopology:
				var snapshot v1.TopologySnapshot
				result.err = json.NewDecoder(resp.Body).Decode(&snapshot)
				result.topology = &snapshot
			case resourceStats:
				result.err = json.NewDecoder(resp.Body).Decode(&result.stats)
			}
		}
	}

	select {
	case w.pollResults <- result:
	case <-w.stopCh:
	}
}

func (w *Watcher) applyPoll(res pollResult) {
	if res.err != nil {
		counterPollFailures.Inc()
		w.pollFailures++
		log.WithError(res.err).WithField("resource", res.resource).Debug("Poll failed")
		if w.pollFailures >= w.cfg.FailureThreshold {
			w.mu.Lock()
			w.lastErr = ErrBackendUnavailable
			w.mu.Unlock()
			w.notify()
		}
		return
	}

	// Drop resolutions that are older than what has already been applied for
	// this resource, so a slow response never overwrites newer data.
	if res.issuedAt.Before(w.lastApplied[res.resource]) {
		counterStaleDropped.Inc()
		log.WithField("resource", res.resource).Debug("Discarding stale poll response")
		return
	}
	w.lastApplied[res.resource] = res.issuedAt
	w.pollFailures = 0

	w.mu.Lock()
	switch res.resource {
	case resourceTopology:
		w.topology = graph.Normalize(*res.topology)
	case resourceStats:
		w.stats = res.stats
	}
	w.lastErr = nil
	w.mu.Unlock()
	w.notify()
}

func (w *Watcher) notify() {
	if w.cfg.OnUpdate != nil {
		w.cfg.OnUpdate()
	}
}
