// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package layout

import (
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
	"github.com/tigera/netgraph/pkg/graph"
)

// This file converts a topology into 2-D positions using a layered
// arrangement: external nodes are the roots, app nodes are layered by their
// topological distance from a root, and nodes within a layer are spread at
// fixed spacing. The layout is deterministic for a given structure key.
//
// Positions are only recomputed when the structure changes. A topology whose
// structure key matches a previous layout reuses that layout's positions
// verbatim, with only the carried traffic figures patched from the new data.
// This keeps the rendered graph still while traffic numbers tick over.

const (
	hSpacing = 180
	vSpacing = 140
)

// Layout returns the positions for t. If prev exists and was computed from an
// equal structure key, prev's positions are reused and only node data is
// refreshed; otherwise a full layered layout runs.
func Layout(t *graph.Topology, prev *v1.LayoutResult) *v1.LayoutResult {
	if prev != nil && prev.Key == string(t.Key()) {
		return patch(t, prev)
	}
	return Compute(t)
}

// Compute runs the full layered layout for t, ignoring any cached result.
func Compute(t *graph.Topology) *v1.LayoutResult {
	res := &v1.LayoutResult{
		Key:   string(t.Key()),
		Nodes: make(map[string]v1.NodePlacement, len(t.Nodes)),
		Edges: make(map[v1.EdgeID]v1.EdgePlacement, len(t.Edges)),
	}
	if len(t.Nodes) == 0 {
		return res
	}

	layers := assignLayers(t)

	// Group by layer, deterministically ordered within each.
	byLayer := make(map[int][]string)
	maxLayer := 0
	for id, l := range layers {
		byLayer[l] = append(byLayer[l], id)
		if l > maxLayer {
			maxLayer = l
		}
	}
	for l := 0; l <= maxLayer; l++ {
		ids := byLayer[l]
		sort.Strings(ids)
		for i, id := range ids {
			n, _ := t.Node(id)
			res.Nodes[id] = v1.NodePlacement{
				Point: v1.Point{
					X: (float64(i) - float64(len(ids)-1)/2) * hSpacing,
					Y: float64(l) * vSpacing,
				},
				RxBytesPerSec: n.RxBytesPerSec,
				TxBytesPerSec: n.TxBytesPerSec,
				PodCount:      n.PodCount,
			}
		}
	}

	for _, e := range t.Edges {
		res.Edges[v1.EdgeIDOf(e.Source, e.Target)] = v1.EdgePlacement{
			From: res.Nodes[e.Source].Point,
			To:   res.Nodes[e.Target].Point,
		}
	}

	log.WithField("nodes", len(res.Nodes)).Debug("Computed fresh layout")
	return res
}

// assignLayers runs a BFS from the external node(s) and assigns each node its
// topological distance. Components with no path to an external node are
// rooted at their lexicographically first node, so every node always gets a
// deterministic layer.
func assignLayers(t *graph.Topology) map[string]int {
	layers := make(map[string]int, len(t.Nodes))

	roots := make([]string, 0, 1)
	for _, n := range t.Nodes {
		if n.Type == v1.NodeTypeExternal {
			roots = append(roots, n.ID)
		}
	}
	sort.Strings(roots)

	bfs := func(root string) {
		layers[root] = 0
		queue := []string{root}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			neighbors := make([]string, 0, len(t.Neighbors(id)))
			for nb := range t.Neighbors(id) {
				neighbors = append(neighbors, nb)
			}
			sort.Strings(neighbors)
			for _, nb := range neighbors {
				if _, ok := layers[nb]; ok {
					continue
				}
				layers[nb] = layers[id] + 1
				queue = append(queue, nb)
			}
		}
	}

	for _, r := range roots {
		if _, ok := layers[r]; !ok {
			bfs(r)
		}
	}

	// Remaining nodes are in components unreachable from any external node.
	remaining := make([]string, 0)
	for _, n := range t.Nodes {
		if _, ok := layers[n.ID]; !ok {
			remaining = append(remaining, n.ID)
		}
	}
	sort.Strings(remaining)
	for _, id := range remaining {
		if _, ok := layers[id]; !ok {
			bfs(id)
		}
	}

	return layers
}

// patch copies prev's positions into a fresh result with node data refreshed
// from t. prev itself is not modified; downstream holders of the old result
// never observe a half-updated object.
func patch(t *graph.Topology, prev *v1.LayoutResult) *v1.LayoutResult {
	res := &v1.LayoutResult{
		Key:   prev.Key,
		Nodes: make(map[string]v1.NodePlacement, len(prev.Nodes)),
		Edges: make(map[v1.EdgeID]v1.EdgePlacement, len(prev.Edges)),
	}
	for id, pl := range prev.Nodes {
		if n, ok := t.Node(id); ok {
			pl.RxBytesPerSec = n.RxBytesPerSec
			pl.TxBytesPerSec = n.TxBytesPerSec
			pl.PodCount = n.PodCount
		}
		res.Nodes[id] = pl
	}
	for id, pl := range prev.Edges {
		res.Edges[id] = pl
	}
	return res
}

// Engine memoizes the most recent layout so repeated structures (including a
// reconnect that returns the same graph) never trigger a recompute.
type Engine struct {
	mu   sync.Mutex
	prev *v1.LayoutResult
}

func NewEngine() *Engine {
	return &Engine{}
}

// Layout returns the layout for t, reusing the cached positions when the
// structure is unchanged.
func (e *Engine) Layout(t *graph.Topology) *v1.LayoutResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := Layout(t, e.prev)
	e.prev = res
	return res
}
