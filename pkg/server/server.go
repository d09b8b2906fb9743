// Copyright (c) 2026 Tigera, Inc. All rights reserved.

// Package server exposes the read surface the renderer consumes: the current
// topology, stats and connection mode, the layout positions, and the visual
// flags derived from the hover/selection it reports back.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
	"github.com/tigera/netgraph/pkg/layout"
	"github.com/tigera/netgraph/pkg/view"
	"github.com/tigera/netgraph/pkg/watcher"
)

// StateResponse reports the connection mode and the non-fatal error value,
// which the UI turns into a retry affordance rather than a crash.
type StateResponse struct {
	ConnectionMode v1.ConnectionState `json:"connection_mode"`
	Error          string             `json:"error,omitempty"`
	HasTopology    bool               `json:"has_topology"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type Server struct {
	watcher       *watcher.Watcher
	engine        *layout.Engine
	tracker       *view.Tracker
	enableMetrics bool
}

func New(w *watcher.Watcher, enableMetrics bool) *Server {
	return &Server{
		watcher:       w,
		engine:        layout.NewEngine(),
		tracker:       view.NewTracker(),
		enableMetrics: enableMetrics,
	}
}

// Tracker returns the interaction tracker driven by the select/hover routes.
func (s *Server) Tracker() *view.Tracker {
	return s.tracker
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/netgraph", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/topology", s.handleTopology)
		r.Get("/stats", s.handleStats)
		r.Get("/layout", s.handleLayout)
		r.Get("/visual", s.handleVisual)
		r.Post("/select", s.handleSelect)
		r.Post("/hover", s.handleHover)
	})
	if s.enableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	topo, _, mode, err := s.watcher.Current()
	resp := StateResponse{
		ConnectionMode: mode,
		HasTopology:    topo != nil,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	topo, _, _, _ := s.watcher.Current()
	if topo == nil {
		writeError(w, http.StatusNotFound, "no topology received yet")
		return
	}
	writeJSON(w, http.StatusOK, v1.TopologySnapshot{Nodes: topo.Nodes, Edges: topo.Edges})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	_, stats, _, _ := s.watcher.Current()
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	topo, _, _, _ := s.watcher.Current()
	if topo == nil {
		writeError(w, http.StatusNotFound, "no topology received yet")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Layout(topo))
}

func (s *Server) handleVisual(w http.ResponseWriter, r *http.Request) {
	topo, _, _, _ := s.watcher.Current()
	if topo == nil {
		writeError(w, http.StatusNotFound, "no topology received yet")
		return
	}
	selected, hovered := s.tracker.Active()
	writeJSON(w, http.StatusOK, view.Compute(topo, selected, hovered))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.tracker.Click(req.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		s.tracker.Unhover()
	} else {
		s.tracker.Hover(req.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
