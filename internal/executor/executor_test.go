package executor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/zuudevs/gridwatcher/internal/action"
	"github.com/zuudevs/gridwatcher/internal/dashboard"
	"github.com/zuudevs/gridwatcher/internal/queue"
)

// fakeEnforcer records every Block/Unblock call instead of touching a real
// firewall, so tests can assert on invocation counts.
type fakeEnforcer struct {
	mu       sync.Mutex
	blocks   []string
	unblocks []string
}

func (f *fakeEnforcer) Block(ip string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks = append(f.blocks, ip)
	return nil
}

func (f *fakeEnforcer) Unblock(ip string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unblocks = append(f.unblocks, ip)
	return nil
}

func (f *fakeEnforcer) blockCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blocks)
}

type dashboardDoc struct {
	TotalBlocked uint64   `json:"total_blocked"`
	TotalThreats uint64   `json:"total_threats"`
	BlockedList  []string `json:"blocked_list"`
}

func readDashboard(t *testing.T, path string) dashboardDoc {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dashboard file: %v", err)
	}
	var doc dashboardDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("dashboard file is not valid JSON: %v\n%s", err, data)
	}
	return doc
}

func newTestExecutor(t *testing.T) (*Executor, *fakeEnforcer, *queue.Channel[action.Event], string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard_data.json")
	enforcer := &fakeEnforcer{}
	actionChan := queue.New[action.Event]()
	pub := dashboard.New(path)
	ex := New(actionChan, enforcer, pub, nil, nil)
	return ex, enforcer, actionChan, path
}

// S4: injecting BlockIp twice for the same IP results in exactly one
// firewall call and a block count of one.
func TestExecutor_S4_BlockIdempotence(t *testing.T) {
	ex, enforcer, actionChan, path := newTestExecutor(t)
	go ex.Run()

	actionChan.Push(action.Event{Kind: action.BlockIP, IP: "1.2.3.4", Reason: "Port scanning activity"})
	actionChan.Push(action.Event{Kind: action.BlockIP, IP: "1.2.3.4", Reason: "Port scanning activity"})

	waitForBlockCount(t, enforcer, 1)
	time.Sleep(20 * time.Millisecond) // let the second (no-op) event pass through

	if got := enforcer.blockCount(); got != 1 {
		t.Errorf("firewall block invocations = %d, want 1", got)
	}

	doc := readDashboard(t, path)
	if doc.TotalBlocked != 1 {
		t.Errorf("total_blocked = %d, want 1", doc.TotalBlocked)
	}
	if len(doc.BlockedList) != 1 || doc.BlockedList[0] != "1.2.3.4" {
		t.Errorf("blocked_list = %v, want [1.2.3.4]", doc.BlockedList)
	}

	actionChan.Close()
}

// Round-trip: BlockIp followed by UnblockIp removes the IP from the block
// set and blocked_list, but total_blocked stays monotonic.
func TestExecutor_RoundTrip_BlockThenUnblock(t *testing.T) {
	ex, enforcer, actionChan, path := newTestExecutor(t)
	go ex.Run()

	actionChan.Push(action.Event{Kind: action.BlockIP, IP: "5.6.7.8", Reason: "Port scanning activity"})
	waitForBlockCount(t, enforcer, 1)

	actionChan.Push(action.Event{Kind: action.UnblockIP, IP: "5.6.7.8"})
	waitForUnblockCount(t, enforcer, 1)

	doc := readDashboard(t, path)
	if doc.TotalBlocked != 1 {
		t.Errorf("total_blocked after round-trip = %d, want 1 (monotonic)", doc.TotalBlocked)
	}
	if len(doc.BlockedList) != 0 {
		t.Errorf("blocked_list after unblock = %v, want empty", doc.BlockedList)
	}

	actionChan.Close()
}

// Distinct IPs accumulate total_blocked and blocked_list in insertion
// order.
func TestExecutor_DistinctIPsAccumulate(t *testing.T) {
	ex, enforcer, actionChan, path := newTestExecutor(t)
	go ex.Run()

	ips := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	for _, ip := range ips {
		actionChan.Push(action.Event{Kind: action.BlockIP, IP: ip, Reason: "Port scanning activity"})
	}
	waitForBlockCount(t, enforcer, len(ips))

	doc := readDashboard(t, path)
	if doc.TotalBlocked != uint64(len(ips)) {
		t.Errorf("total_blocked = %d, want %d", doc.TotalBlocked, len(ips))
	}
	for i, ip := range ips {
		if doc.BlockedList[i] != ip {
			t.Errorf("blocked_list[%d] = %s, want %s (insertion order)", i, doc.BlockedList[i], ip)
		}
	}

	actionChan.Close()
}

func waitForBlockCount(t *testing.T, f *fakeEnforcer, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if f.blockCount() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d firewall block invocations, got %d", n, f.blockCount())
}

func waitForUnblockCount(t *testing.T, f *fakeEnforcer, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		got := len(f.unblocks)
		f.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d firewall unblock invocations", n)
}
