// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package view_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/tigera/netgraph/pkg/apis/v1"
	"github.com/tigera/netgraph/pkg/graph"
	"github.com/tigera/netgraph/pkg/view"
)

// Test graph: external - sonarr - radarr, with prowlarr isolated.
func testTopo() *graph.Topology {
	return graph.Normalize(v1.TopologySnapshot{
		Nodes: []v1.Node{
			{ID: "external", Type: v1.NodeTypeExternal},
			{ID: "sonarr", Type: v1.NodeTypeApp},
			{ID: "radarr", Type: v1.NodeTypeApp},
			{ID: "prowlarr", Type: v1.NodeTypeApp},
		},
		Edges: []v1.Edge{
			{Source: "external", Target: "sonarr"},
			{Source: "sonarr", Target: "radarr"},
		},
	})
}

var _ = Describe("Visual state computation", func() {
	It("is all-false with no hover and no selection", func() {
		vs := view.Compute(testTopo(), "", "")
		Expect(vs.Nodes).To(HaveLen(4))
		Expect(vs.Edges).To(HaveLen(2))
		for _, st := range vs.Nodes {
			Expect(st).To(Equal(v1.ElementState{}))
		}
		for _, st := range vs.Edges {
			Expect(st).To(Equal(v1.ElementState{}))
		}
	})

	It("highlights the connected set on hover without hiding anything", func() {
		vs := view.Compute(testTopo(), "", "sonarr")

		Expect(vs.Nodes["external"].Highlighted).To(BeTrue())
		Expect(vs.Nodes["sonarr"].Highlighted).To(BeTrue())
		Expect(vs.Nodes["radarr"].Highlighted).To(BeTrue())
		Expect(vs.Nodes["prowlarr"].Highlighted).To(BeFalse())

		for id, st := range vs.Nodes {
			Expect(st.Hidden).To(BeFalse(), "node %s should not be hidden on hover", id)
			Expect(st.Faded).To(BeFalse(), "node %s should not be faded on hover", id)
		}
		for id, st := range vs.Edges {
			Expect(st.Hidden).To(BeFalse(), "edge %s should not be hidden on hover", id)
		}

		Expect(vs.Edges[v1.EdgeIDOf("external", "sonarr")].Highlighted).To(BeTrue())
		Expect(vs.Edges[v1.EdgeIDOf("sonarr", "radarr")].Highlighted).To(BeTrue())
	})

	It("fades edges not touching the hovered node", func() {
		vs := view.Compute(testTopo(), "", "external")
		Expect(vs.Edges[v1.EdgeIDOf("external", "sonarr")].Faded).To(BeFalse())
		Expect(vs.Edges[v1.EdgeIDOf("sonarr", "radarr")].Faded).To(BeTrue())
	})

	It("hides everything outside the connected set on selection", func() {
		vs := view.Compute(testTopo(), "sonarr", "")

		Expect(vs.Nodes["prowlarr"].Hidden).To(BeTrue())
		Expect(vs.Nodes["prowlarr"].Faded).To(BeTrue())
		Expect(vs.Nodes["external"].Hidden).To(BeFalse())
		Expect(vs.Nodes["radarr"].Hidden).To(BeFalse())
	})

	It("prioritizes the selection over the hover", func() {
		vs := view.Compute(testTopo(), "prowlarr", "sonarr")
		Expect(vs.Nodes["prowlarr"].Highlighted).To(BeTrue())
		Expect(vs.Nodes["sonarr"].Highlighted).To(BeFalse())
		Expect(vs.Nodes["sonarr"].Hidden).To(BeTrue())
	})

	It("only highlights edges touching the selected node", func() {
		vs := view.Compute(testTopo(), "external", "")
		Expect(vs.Edges[v1.EdgeIDOf("external", "sonarr")].Highlighted).To(BeTrue())
		Expect(vs.Edges[v1.EdgeIDOf("sonarr", "radarr")].Highlighted).To(BeFalse())
		Expect(vs.Edges[v1.EdgeIDOf("sonarr", "radarr")].Hidden).To(BeTrue())
	})
})

var _ = Describe("Interaction tracker", func() {
	var tr *view.Tracker

	BeforeEach(func() {
		tr = view.NewTracker()
	})

	It("toggles the selection off when the selected node is clicked again", func() {
		tr.Click("sonarr")
		sel, _ := tr.Active()
		Expect(sel).To(Equal("sonarr"))

		tr.Click("sonarr")
		sel, hov := tr.Active()
		Expect(sel).To(BeEmpty())
		Expect(hov).To(BeEmpty())

		// Back at the all-false baseline.
		vs := view.Compute(testTopo(), sel, hov)
		for _, st := range vs.Nodes {
			Expect(st).To(Equal(v1.ElementState{}))
		}
	})

	It("clears the selection on an empty-canvas click", func() {
		tr.Click("sonarr")
		tr.Click("")
		sel, _ := tr.Active()
		Expect(sel).To(BeEmpty())
	})

	It("clears the hover when a selection is made and suppresses further hovers", func() {
		tr.Hover("radarr")
		tr.Click("sonarr")
		sel, hov := tr.Active()
		Expect(sel).To(Equal("sonarr"))
		Expect(hov).To(BeEmpty())

		tr.Hover("radarr")
		_, hov = tr.Active()
		Expect(hov).To(BeEmpty())
	})

	It("resumes hover tracking once the selection is cleared", func() {
		tr.Click("sonarr")
		tr.Hover("radarr")
		tr.Click("sonarr")
		tr.Hover("radarr")
		sel, hov := tr.Active()
		Expect(sel).To(BeEmpty())
		Expect(hov).To(Equal("radarr"))
	})

	It("replaces the selection when a different node is clicked", func() {
		tr.Click("sonarr")
		tr.Click("radarr")
		sel, _ := tr.Active()
		Expect(sel).To(Equal("radarr"))
	})
})
