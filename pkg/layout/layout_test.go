// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package layout_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
	"github.com/tigera/netgraph/pkg/graph"
	"github.com/tigera/netgraph/pkg/layout"
)

func topo(rxSonarr float64, extra ...string) *graph.Topology {
	nodes := []v1.Node{
		{ID: "external", Name: "Internet", Type: v1.NodeTypeExternal},
		{ID: "sonarr", Type: v1.NodeTypeApp, RxBytesPerSec: rxSonarr, PodCount: 1},
		{ID: "radarr", Type: v1.NodeTypeApp, PodCount: 1},
	}
	for _, id := range extra {
		nodes = append(nodes, v1.Node{ID: id, Type: v1.NodeTypeApp})
	}
	return graph.Normalize(v1.TopologySnapshot{
		Nodes: nodes,
		Edges: []v1.Edge{
			{Source: "external", Target: "sonarr"},
			{Source: "sonarr", Target: "radarr"},
		},
	})
}

var _ = Describe("Layered layout", func() {
	It("positions every node in the snapshot", func() {
		res := layout.Compute(topo(0))
		Expect(res.Nodes).To(HaveLen(3))
		Expect(res.Edges).To(HaveLen(2))
	})

	It("layers app nodes by topological distance from the external node", func() {
		res := layout.Compute(topo(0))
		Expect(res.Nodes["external"].Y).To(BeNumerically("<", res.Nodes["sonarr"].Y))
		Expect(res.Nodes["sonarr"].Y).To(BeNumerically("<", res.Nodes["radarr"].Y))
	})

	It("is deterministic", func() {
		Expect(layout.Compute(topo(0))).To(Equal(layout.Compute(topo(0))))
	})

	It("returns an empty result for an empty topology", func() {
		res := layout.Compute(graph.Normalize(v1.TopologySnapshot{}))
		Expect(res.Nodes).To(BeEmpty())
		Expect(res.Edges).To(BeEmpty())
	})

	It("assigns a deterministic layer to disconnected components", func() {
		a := layout.Compute(topo(0, "prowlarr", "bazarr"))
		b := layout.Compute(topo(0, "bazarr", "prowlarr"))
		Expect(a).To(Equal(b))
		Expect(a.Nodes).To(HaveKey("prowlarr"))
		Expect(a.Nodes).To(HaveKey("bazarr"))
	})

	It("gives edge placements the endpoints of their nodes", func() {
		res := layout.Compute(topo(0))
		pl := res.Edges[v1.EdgeIDOf("external", "sonarr")]
		Expect(pl.From).To(Equal(res.Nodes["external"].Point))
		Expect(pl.To).To(Equal(res.Nodes["sonarr"].Point))
	})
})

var _ = Describe("Layout reuse", func() {
	It("keeps positions when only traffic figures change", func() {
		first := layout.Layout(topo(10), nil)
		second := layout.Layout(topo(9999), first)

		Expect(second.Key).To(Equal(first.Key))
		for id, pl := range second.Nodes {
			Expect(pl.Point).To(Equal(first.Nodes[id].Point))
		}
		Expect(second.Nodes["sonarr"].RxBytesPerSec).To(Equal(9999.0))
		// The reused result is a fresh copy; the original is untouched.
		Expect(first.Nodes["sonarr"].RxBytesPerSec).To(Equal(10.0))
	})

	It("recomputes when the structure changes", func() {
		first := layout.Layout(topo(0), nil)
		second := layout.Layout(topo(0, "prowlarr"), first)

		Expect(second.Key).NotTo(Equal(first.Key))
		Expect(second.Nodes).To(HaveKey("prowlarr"))

		changed := false
		for id, pl := range second.Nodes {
			if prev, ok := first.Nodes[id]; !ok || prev.Point != pl.Point {
				changed = true
			}
		}
		Expect(changed).To(BeTrue())
	})

	It("memoizes through the engine across identical structures", func() {
		e := layout.NewEngine()
		first := e.Layout(topo(10))
		second := e.Layout(topo(20))
		for id, pl := range second.Nodes {
			Expect(pl.Point).To(Equal(first.Nodes[id].Point))
		}
		Expect(second.Nodes["sonarr"].RxBytesPerSec).To(Equal(20.0))
	})
})

var _ = Describe("End-to-end layout example", func() {
	snapshot := func(rx float64) *graph.Topology {
		return graph.Normalize(v1.TopologySnapshot{
			Nodes: []v1.Node{
				{ID: "external", Type: v1.NodeTypeExternal},
				{ID: "sonarr", Type: v1.NodeTypeApp, RxBytesPerSec: rx, PodCount: 1},
			},
			Edges: []v1.Edge{{Source: "external", Target: "sonarr"}},
		})
	}

	It("lays out two nodes and one edge, then holds positions on a data-only change", func() {
		first := layout.Layout(snapshot(1), nil)
		Expect(first.Nodes).To(HaveLen(2))
		Expect(first.Edges).To(HaveLen(1))

		second := layout.Layout(snapshot(2), first)
		Expect(second.Nodes["external"].Point).To(Equal(first.Nodes["external"].Point))
		Expect(second.Nodes["sonarr"].Point).To(Equal(first.Nodes["sonarr"].Point))
		Expect(second.Nodes["sonarr"].RxBytesPerSec).To(Equal(2.0))
	})
})
