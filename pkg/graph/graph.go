// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package graph

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
)

// This file provides the in-memory topology model built from a raw snapshot.
// Normalization is lenient: a snapshot that references unknown node IDs or
// repeats an edge is cleaned up, not rejected, since the backend aggregates
// data from several discovery sources and overlap is expected.

// StructureKey is a stable identity for the vertex/edge set of a topology.
// Two topologies with equal keys have the same structure even if their
// traffic figures differ.
type StructureKey string

// Topology is the normalized node/edge model. Values are immutable once
// built; consumers share them freely.
type Topology struct {
	Nodes []v1.Node
	Edges []v1.Edge

	key       StructureKey
	nodesByID map[string]v1.Node
	adjacency map[string]map[string]bool
}

// Normalize builds a Topology from a raw snapshot:
//   - edges referencing a node ID not present in the snapshot are dropped,
//   - duplicate edges (same ordered source/target pair) are dropped,
//   - duplicate node IDs keep the first occurrence,
//   - at most one external node is kept.
func Normalize(s v1.TopologySnapshot) *Topology {
	t := &Topology{
		nodesByID: make(map[string]v1.Node, len(s.Nodes)),
	}

	haveExternal := false
	for _, n := range s.Nodes {
		if _, ok := t.nodesByID[n.ID]; ok {
			log.WithField("id", n.ID).Warn("Duplicate node ID in snapshot; keeping first")
			continue
		}
		if n.Type == v1.NodeTypeExternal {
			if haveExternal {
				log.WithField("id", n.ID).Warn("Snapshot contains more than one external node; dropping extra")
				continue
			}
			haveExternal = true
		}
		t.nodesByID[n.ID] = n
		t.Nodes = append(t.Nodes, n)
	}

	seen := make(map[v1.EdgeID]bool, len(s.Edges))
	for _, e := range s.Edges {
		if _, ok := t.nodesByID[e.Source]; !ok {
			log.WithField("edge", e).Debug("Dropping edge with unknown source")
			continue
		}
		if _, ok := t.nodesByID[e.Target]; !ok {
			log.WithField("edge", e).Debug("Dropping edge with unknown target")
			continue
		}
		id := v1.EdgeIDOf(e.Source, e.Target)
		if seen[id] {
			continue
		}
		seen[id] = true
		t.Edges = append(t.Edges, e)
	}

	t.key = computeKey(t.Nodes, t.Edges)
	t.adjacency = computeAdjacency(t.Edges)
	return t
}

// Key returns the structure key for this topology.
func (t *Topology) Key() StructureKey {
	return t.key
}

// Node looks up a node by ID.
func (t *Topology) Node(id string) (v1.Node, bool) {
	n, ok := t.nodesByID[id]
	return n, ok
}

// Adjacency returns the undirected neighbor sets keyed by node ID. The
// returned map is shared; callers must not modify it.
func (t *Topology) Adjacency() map[string]map[string]bool {
	return t.adjacency
}

// Neighbors returns the set of nodes directly connected to id, or nil if the
// node has no edges.
func (t *Topology) Neighbors(id string) map[string]bool {
	return t.adjacency[id]
}

func computeKey(nodes []v1.Node, edges []v1.Edge) StructureKey {
	nodeIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}
	sort.Strings(nodeIDs)

	edgeIDs := make([]string, 0, len(edges))
	for _, e := range edges {
		edgeIDs = append(edgeIDs, string(v1.EdgeIDOf(e.Source, e.Target)))
	}
	sort.Strings(edgeIDs)

	var b strings.Builder
	b.WriteString(strings.Join(nodeIDs, ";"))
	b.WriteString("|")
	b.WriteString(strings.Join(edgeIDs, ";"))
	return StructureKey(b.String())
}

func computeAdjacency(edges []v1.Edge) map[string]map[string]bool {
	adj := make(map[string]map[string]bool)
	add := func(a, b string) {
		if adj[a] == nil {
			adj[a] = make(map[string]bool)
		}
		adj[a][b] = true
	}
	for _, e := range edges {
		add(e.Source, e.Target)
		add(e.Target, e.Source)
	}
	return adj
}
