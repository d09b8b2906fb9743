// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package v1

import "fmt"

type NodeType string

const (
	NodeTypeApp      NodeType = "app"
	NodeTypeExternal NodeType = "external"
)

// Node is a single vertex in the traffic topology. A node is either a
// deployed application (aggregated over its pods) or the singular "external"
// node representing aggregate internet-facing traffic.
type Node struct {
	ID   string   `json:"id"`
	Name string   `json:"name,omitempty"`
	Type NodeType `json:"type"`

	// Traffic figures in bytes/sec, as measured by the backend over its
	// sampling window.
	RxBytesPerSec float64 `json:"rx_bytes_per_sec"`
	TxBytesPerSec float64 `json:"tx_bytes_per_sec"`
	TotalTraffic  float64 `json:"total_traffic,omitempty"`

	PodCount int `json:"pod_count"`

	// Display color assigned by the backend from a fixed palette.
	Color string `json:"color,omitempty"`
}

func (n Node) String() string {
	return fmt.Sprintf("Node(%s; type=%s; pods=%d)", n.ID, n.Type, n.PodCount)
}

// Edge is a connection between two nodes in the topology. Traffic flows both
// ways, but the pair is stored ordered and identity is by (source, target).
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type,omitempty"`
	Port   *int    `json:"port,omitempty"`
	Proto  *string `json:"protocol,omitempty"`
	Label  string  `json:"label,omitempty"`
}

func (e Edge) String() string {
	return fmt.Sprintf("Edge(%s -> %s)", e.Source, e.Target)
}

// EdgeID uniquely identifies an edge by its ordered endpoint pair.
type EdgeID string

func EdgeIDOf(source, target string) EdgeID {
	return EdgeID(source + "->" + target)
}

// TopologySnapshot is the node/edge set served by the backend. Snapshots are
// produced whole on each message or poll and are never mutated by consumers.
type TopologySnapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Stats holds per-app interface counters, rates calculated by the backend.
type Stats struct {
	Namespace       string  `json:"namespace"`
	AppName         string  `json:"app_name"`
	RxBytesPerSec   float64 `json:"rx_bytes_per_sec"`
	TxBytesPerSec   float64 `json:"tx_bytes_per_sec"`
	RxPacketsPerSec float64 `json:"rx_packets_per_sec"`
	TxPacketsPerSec float64 `json:"tx_packets_per_sec"`
	RxErrorsPerSec  float64 `json:"rx_errors_per_sec"`
	TxErrorsPerSec  float64 `json:"tx_errors_per_sec"`
	RxDroppedPerSec float64 `json:"rx_dropped_per_sec"`
	TxDroppedPerSec float64 `json:"tx_dropped_per_sec"`
	PodCount        int     `json:"pod_count,omitempty"`
}

// MetricsMessageType is the only frame type the streaming channel carries
// that this client understands. Anything else is dropped at the parse
// boundary.
const MetricsMessageType = "network_metrics"

// MetricsMessage is the frame pushed over the streaming channel once a
// second by the backend broadcaster.
type MetricsMessage struct {
	Type      string           `json:"type"`
	Timestamp int64            `json:"timestamp"`
	Topology  TopologySnapshot `json:"topology"`
	Stats     []Stats          `json:"stats"`
}

// ConnectionState describes the streaming channel lifecycle. Degraded means
// the channel is down and data is being served from the polling fallback.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateLive         ConnectionState = "live"
	StateDegraded     ConnectionState = "degraded"
)
