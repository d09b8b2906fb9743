// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package view

import (
	"sync"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
	"github.com/tigera/netgraph/pkg/graph"
)

// This file derives the per-element visual flags from the topology adjacency
// and the current hover/selection. Compute is a pure function so the
// highlight behavior can be tested without a rendering harness; Tracker holds
// the interaction state that feeds it.
//
// Hovering previews the focus: connected elements are highlighted, nothing is
// removed from view. Clicking pins it: everything outside the connected set
// is faded and hidden until the selection is cleared.

// Compute returns the visual state for t given the pinned selection and the
// hover preview. A selection takes priority over the hover.
func Compute(t *graph.Topology, selectedID, hoveredID string) v1.VisualState {
	vs := v1.VisualState{
		Nodes: make(map[string]v1.ElementState, len(t.Nodes)),
		Edges: make(map[v1.EdgeID]v1.ElementState, len(t.Edges)),
	}

	activeID := selectedID
	if activeID == "" {
		activeID = hoveredID
	}
	if activeID == "" {
		for _, n := range t.Nodes {
			vs.Nodes[n.ID] = v1.ElementState{}
		}
		for _, e := range t.Edges {
			vs.Edges[v1.EdgeIDOf(e.Source, e.Target)] = v1.ElementState{}
		}
		return vs
	}

	clickMode := selectedID != ""

	connected := map[string]bool{activeID: true}
	for nb := range t.Neighbors(activeID) {
		connected[nb] = true
	}

	for _, n := range t.Nodes {
		highlighted := connected[n.ID]
		vs.Nodes[n.ID] = v1.ElementState{
			Highlighted: highlighted,
			Faded:       clickMode && !highlighted,
			Hidden:      clickMode && !highlighted,
		}
	}

	for _, e := range t.Edges {
		highlighted := e.Source == activeID || e.Target == activeID
		vs.Edges[v1.EdgeIDOf(e.Source, e.Target)] = v1.ElementState{
			Highlighted: highlighted,
			Faded:       !highlighted,
			Hidden:      clickMode && !highlighted,
		}
	}

	return vs
}

// Tracker owns the hover/selection state. Clicking a node pins it as an
// exclusive filter and suppresses hover updates; clicking it again (or
// clicking empty canvas) clears the pin and hovering resumes.
type Tracker struct {
	mu       sync.Mutex
	selected string
	hovered  string
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Click registers a click on the given node. Clicking the already-selected
// node toggles the selection off; an empty id (empty canvas) clears it.
func (tr *Tracker) Click(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if id == "" || id == tr.selected {
		tr.selected = ""
		return
	}
	tr.selected = id
	// Selection suppresses the hover preview.
	tr.hovered = ""
}

// Hover registers a hover preview. Ignored while a selection is pinned.
func (tr *Tracker) Hover(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.selected != "" {
		return
	}
	tr.hovered = id
}

// Unhover clears the hover preview.
func (tr *Tracker) Unhover() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.hovered = ""
}

// Active returns the current selection and hover.
func (tr *Tracker) Active() (selectedID, hoveredID string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.selected, tr.hovered
}
