package analyzer

import (
	"sync"
	"time"
)

// scanTracker records the distinct destination ports one source IP has hit
// with SYN-without-ACK packets.
type scanTracker struct {
	ports    map[uint16]struct{}
	lastSeen time.Time
}

// scanMap is exclusive to the analyzer; no other component may touch it.
// It is guarded by a single mutex, per spec — acceptable at the expected
// scale, trivially migratable to a sharded map if that ever changes.
type scanMap struct {
	mu           sync.Mutex
	trackers     map[string]*scanTracker
	bound        int
	pruneWindow  time.Duration
}

func newScanMap(bound int, pruneWindow time.Duration) *scanMap {
	return &scanMap{
		trackers:    make(map[string]*scanTracker),
		bound:       bound,
		pruneWindow: pruneWindow,
	}
}

// observe records a SYN from srcIP to dstPort and reports whether that
// source has now hit the distinct-port threshold. On a trip, the tracker
// entry is removed so a later reappearance of the same IP starts fresh.
func (m *scanMap) observe(srcIP string, dstPort uint16, threshold int, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trackers[srcIP]
	if !ok {
		t = &scanTracker{ports: make(map[uint16]struct{})}
		m.trackers[srcIP] = t
	}
	t.lastSeen = now
	t.ports[dstPort] = struct{}{}

	tripped := len(t.ports) >= threshold
	if tripped {
		delete(m.trackers, srcIP)
	}

	if len(m.trackers) > m.bound {
		m.pruneLocked(now)
	}
	return tripped
}

// pruneLocked evicts trackers whose last SYN is older than the configured
// window. Called with mu already held, only once the map has grown past
// its bound, so that sources which never reach the threshold don't leak
// trackers forever.
func (m *scanMap) pruneLocked(now time.Time) {
	for ip, t := range m.trackers {
		if now.Sub(t.lastSeen) > m.pruneWindow {
			delete(m.trackers, ip)
		}
	}
}

// size reports the current number of tracked source IPs. Used by tests
// only.
func (m *scanMap) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trackers)
}
