// Package dashboard aggregates operational counters and the current block
// list into the JSON document the dashboard feed reads.
package dashboard

import "time"

// Alert is the most recent alert surfaced to the dashboard.
type Alert struct {
	Type      string
	SrcIP     string
	Reason    string
	Timestamp string // "YYYY-MM-DD HH:MM:SS"
}

// Status values for the system_status field.
const (
	StatusInitializing = "INITIALIZING"
	StatusRunning      = "RUNNING"
	StatusStopped      = "STOPPED"
)

// state holds every field that lands in the dashboard JSON document. It is
// never exposed by reference outside this package — callers only ever see
// a serialized copy taken under the publisher's mutex.
type state struct {
	systemStatus    string
	totalBlocked    uint64
	totalThreats    uint64
	packetsAnalyzed uint64
	latestAlert     Alert
	blockedList     []string
	startedAt       time.Time // captured with time.Now(), carries a monotonic reading
	lastUpdate      string
}
