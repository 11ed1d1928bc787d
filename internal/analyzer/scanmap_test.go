package analyzer

import (
	"testing"
	"time"
)

// S1: the scan-map trips exactly on the 10th distinct port, not before.
func TestScanMap_TripsOnTenthDistinctPort(t *testing.T) {
	m := newScanMap(4096, 60*time.Second)
	now := time.Now()

	for i := 0; i < 9; i++ {
		tripped := m.observe("10.0.0.7", uint16(1000+i), 10, now)
		if tripped {
			t.Fatalf("observe() tripped after %d distinct ports, want trip only on the 10th", i+1)
		}
	}

	if tripped := m.observe("10.0.0.7", 1009, 10, now); !tripped {
		t.Errorf("observe() on the 10th distinct port = false, want true")
	}
}

func TestScanMap_RepeatedPortDoesNotCount(t *testing.T) {
	m := newScanMap(4096, 60*time.Second)
	now := time.Now()

	for i := 0; i < 20; i++ {
		if tripped := m.observe("10.0.0.7", 1000, 10, now); tripped {
			t.Fatalf("observe() tripped on repeated port after %d calls", i+1)
		}
	}
}

func TestScanMap_TripResetsTheTracker(t *testing.T) {
	m := newScanMap(4096, 60*time.Second)
	now := time.Now()

	for i := 0; i < 10; i++ {
		m.observe("10.0.0.7", uint16(1000+i), 10, now)
	}
	if got := m.size(); got != 0 {
		t.Errorf("tracker count after trip = %d, want 0 (entry removed on trip)", got)
	}

	// A fresh appearance of the same IP starts from zero again.
	if tripped := m.observe("10.0.0.7", 2000, 10, now); tripped {
		t.Errorf("observe() tripped on the first port after a reset, want false")
	}
}

func TestScanMap_PrunesStaleEntriesPastBound(t *testing.T) {
	m := newScanMap(2, 10*time.Second)
	old := time.Now()
	m.observe("10.0.0.1", 1, 10, old)
	m.observe("10.0.0.2", 2, 10, old)

	later := old.Add(11 * time.Second)
	m.observe("10.0.0.3", 3, 10, later)

	if got := m.size(); got != 1 {
		t.Errorf("tracker count after prune = %d, want 1 (only 10.0.0.3 survives)", got)
	}
}
