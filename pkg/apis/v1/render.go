// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package v1

// The types in this file form the read surface handed to the renderer: node
// positions computed by the layout engine and per-element visual flags
// computed by the highlight engine. Both are derived values - the renderer
// never mutates them.

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodePlacement is a positioned node together with the traffic figures the
// renderer labels it with. The figures are patched in place on data-only
// updates so positions stay stable.
type NodePlacement struct {
	Point
	RxBytesPerSec float64 `json:"rx_bytes_per_sec"`
	TxBytesPerSec float64 `json:"tx_bytes_per_sec"`
	PodCount      int     `json:"pod_count"`
}

// EdgePlacement holds the path endpoints for a rendered edge.
type EdgePlacement struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// LayoutResult contains a position for every node of the snapshot it was
// computed from, never a partial set. Key identifies the vertex/edge set the
// layout was computed for, so a cached result can be reused verbatim when the
// same structure repeats.
type LayoutResult struct {
	Key   string                   `json:"key"`
	Nodes map[string]NodePlacement `json:"nodes"`
	Edges map[EdgeID]EdgePlacement `json:"edges"`
}

// ElementState is the visual treatment of a single node or edge under the
// current hover/selection.
type ElementState struct {
	Highlighted bool `json:"highlighted"`
	Faded       bool `json:"faded"`
	Hidden      bool `json:"hidden"`
}

// VisualState is fully determined by the current topology adjacency and the
// hovered/selected node. It is recomputed, never patched.
type VisualState struct {
	Nodes map[string]ElementState `json:"nodes"`
	Edges map[EdgeID]ElementState `json:"edges"`
}
