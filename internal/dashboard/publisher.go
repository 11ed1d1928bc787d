package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zuudevs/gridwatcher/internal/logging"
)

// Publisher owns the dashboard state and is the only thing allowed to
// mutate or serialize it. All mutators and Write take the same mutex, so
// mutation and publication are always serialized relative to each other.
// Callers must never hold this mutex across a call to Write — every
// exported method here takes it for itself, for exactly as long as the
// single operation needs.
type Publisher struct {
	mu   sync.Mutex
	path string
	st   state
}

// New creates a Publisher writing to path. The parent directory is created
// lazily on the first Write, not here.
func New(path string) *Publisher {
	return &Publisher{
		path: path,
		st: state{
			systemStatus: StatusInitializing,
			startedAt:    time.Now(),
		},
	}
}

func (p *Publisher) SetSystemStatus(status string) {
	p.mu.Lock()
	p.st.systemStatus = status
	p.mu.Unlock()
}

func (p *Publisher) SetPacketsAnalyzed(n uint64) {
	p.mu.Lock()
	p.st.packetsAnalyzed = n
	p.mu.Unlock()
}

// IncrementBlocked increments total_blocked. Called exactly once per
// accepted BlockIp action (one whose IP was not already blocked).
func (p *Publisher) IncrementBlocked() {
	p.mu.Lock()
	p.st.totalBlocked++
	p.mu.Unlock()
}

func (p *Publisher) IncrementThreats() {
	p.mu.Lock()
	p.st.totalThreats++
	p.mu.Unlock()
}

// AddBlockedIP appends ip to the blocked list if it isn't already present.
func (p *Publisher) AddBlockedIP(ip string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.st.blockedList {
		if existing == ip {
			return
		}
	}
	p.st.blockedList = append(p.st.blockedList, ip)
}

// RemoveBlockedIP removes the first occurrence of ip from the blocked list.
func (p *Publisher) RemoveBlockedIP(ip string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.st.blockedList {
		if existing == ip {
			p.st.blockedList = append(p.st.blockedList[:i], p.st.blockedList[i+1:]...)
			return
		}
	}
}

func (p *Publisher) SetLatestAlert(kind, srcIP, reason string) {
	p.mu.Lock()
	p.st.latestAlert = Alert{
		Type:      kind,
		SrcIP:     srcIP,
		Reason:    reason,
		Timestamp: currentTimestamp(),
	}
	p.mu.Unlock()
}

// Write serializes the current state and atomically rewrites the dashboard
// JSON file: encode to memory, write to "<path>.tmp", rename over path. A
// reader only ever observes the previous complete document or the new
// complete one, never a mixture.
func (p *Publisher) Write() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLocked()
}

// Snapshot returns the serialized document without writing it to disk, for
// the optional status API to serve directly.
func (p *Publisher) Snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encodeLocked()
}

func (p *Publisher) writeLocked() error {
	data := p.encodeLocked()

	dir := filepath.Dir(p.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Errorf("failed to create dashboard directory %s: %v", dir, err)
			return fmt.Errorf("create dashboard directory: %w", err)
		}
	}

	tmpPath := p.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		logging.Errorf("failed to write dashboard temp file: %v", err)
		return fmt.Errorf("write dashboard temp file: %w", err)
	}
	if err := os.Rename(tmpPath, p.path); err != nil {
		logging.Errorf("failed to publish dashboard file: %v", err)
		return fmt.Errorf("rename dashboard file: %w", err)
	}
	return nil
}

func (p *Publisher) encodeLocked() []byte {
	p.st.lastUpdate = currentTimestamp()
	return encodeState(&p.st)
}

func currentTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func uptimeSeconds(st *state) int64 {
	return int64(time.Since(st.startedAt) / time.Second)
}
