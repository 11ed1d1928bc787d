// Package executor consumes action events, enforces firewall policy, and
// keeps the dashboard state current.
package executor

import (
	"strings"
	"sync"
	"time"

	"github.com/zuudevs/gridwatcher/internal/action"
	"github.com/zuudevs/gridwatcher/internal/alertbus"
	"github.com/zuudevs/gridwatcher/internal/dashboard"
	"github.com/zuudevs/gridwatcher/internal/firewall"
	"github.com/zuudevs/gridwatcher/internal/history"
	"github.com/zuudevs/gridwatcher/internal/logging"
	"github.com/zuudevs/gridwatcher/internal/queue"
)

const publishInterval = 2 * time.Second

// Executor owns the block set and drives the dashboard and firewall from
// the action events the analyzer produces.
type Executor struct {
	actionChan *queue.Channel[action.Event]
	enforcer   firewall.Enforcer
	pub        *dashboard.Publisher
	bus        alertbus.Bus  // nil if no alert backend is configured
	hist       *history.Sink // nil if no ClickHouse sink is configured

	mu       sync.Mutex
	blockSet map[string]struct{}
}

// New builds an Executor. bus and hist may be nil.
func New(actionChan *queue.Channel[action.Event], enforcer firewall.Enforcer, pub *dashboard.Publisher, bus alertbus.Bus, hist *history.Sink) *Executor {
	return &Executor{
		actionChan: actionChan,
		enforcer:   enforcer,
		pub:        pub,
		bus:        bus,
		hist:       hist,
		blockSet:   make(map[string]struct{}),
	}
}

// Publisher exposes the dashboard publisher so the supervisor can feed it
// counters, such as packets analyzed, that originate outside the executor.
func (e *Executor) Publisher() *dashboard.Publisher {
	return e.pub
}

// Start transitions the dashboard into RUNNING and publishes immediately.
func (e *Executor) Start() {
	e.pub.SetSystemStatus(dashboard.StatusRunning)
	if err := e.pub.Write(); err != nil {
		logging.Errorf("executor: initial dashboard write failed: %v", err)
	}
}

// Stop transitions the dashboard into STOPPED and publishes a final time.
func (e *Executor) Stop() {
	e.pub.SetSystemStatus(dashboard.StatusStopped)
	if err := e.pub.Write(); err != nil {
		logging.Errorf("executor: final dashboard write failed: %v", err)
	}
}

// Run drains the action channel until it is closed and drained, rewriting
// the dashboard on every accepted event and at least once every
// publishInterval of idle wall-time. A forwarding goroutine pumps the
// custom queue.Channel into a native chan so the main loop can select
// against both it and a time.Ticker — queue.Channel itself offers no
// select-compatible receive operation.
func (e *Executor) Run() {
	events := make(chan action.Event)
	go func() {
		defer close(events)
		for {
			ev, ok := e.actionChan.Pop()
			if !ok {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.handle(ev)
		case <-ticker.C:
			if err := e.pub.Write(); err != nil {
				logging.Errorf("executor: periodic dashboard write failed: %v", err)
			}
		}
	}
}

func (e *Executor) handle(ev action.Event) {
	switch ev.Kind {
	case action.BlockIP:
		e.handleBlock(ev.IP, ev.Reason)
	case action.UnblockIP:
		e.handleUnblock(ev.IP)
	case action.LogSuspicious:
		e.handleSuspicious(ev.IP, ev.Reason)
	}
}

func (e *Executor) handleBlock(ip, reason string) {
	e.mu.Lock()
	if _, already := e.blockSet[ip]; already {
		e.mu.Unlock()
		return
	}
	e.blockSet[ip] = struct{}{}
	e.mu.Unlock()

	alertType := "PORT_SCAN"
	if strings.Contains(reason, "Modbus") {
		alertType = "MODBUS_WRITE"
	}

	e.pub.IncrementBlocked()
	e.pub.IncrementThreats()
	e.pub.AddBlockedIP(ip)
	e.pub.SetLatestAlert(alertType, ip, reason)

	if err := e.enforcer.Block(ip); err != nil {
		logging.Errorf("executor: firewall block failed for %s: %v", ip, err)
	}

	e.record(alertType, ip, reason)
	e.publishNow(action.BlockIP.String(), ip, reason)
}

func (e *Executor) handleUnblock(ip string) {
	e.mu.Lock()
	_, was := e.blockSet[ip]
	delete(e.blockSet, ip)
	e.mu.Unlock()
	if !was {
		return
	}

	e.pub.RemoveBlockedIP(ip)

	if err := e.enforcer.Unblock(ip); err != nil {
		logging.Warnf("executor: firewall unblock returned an error for %s: %v", ip, err)
	}

	e.record(action.UnblockIP.String(), ip, "")
	e.publishNow(action.UnblockIP.String(), ip, "")
}

func (e *Executor) handleSuspicious(ip, reason string) {
	e.pub.SetLatestAlert("SUSPICIOUS", ip, reason)
	e.record(action.LogSuspicious.String(), ip, reason)
	e.publishNow("SUSPICIOUS", ip, reason)
}

func (e *Executor) publishNow(alertType, ip, reason string) {
	if err := e.pub.Write(); err != nil {
		logging.Errorf("executor: dashboard write failed after %s %s: %v", alertType, ip, err)
	}
	if e.bus != nil {
		if err := e.bus.Publish(alertbus.Alert{
			Type:      alertType,
			SrcIP:     ip,
			Reason:    reason,
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		}); err != nil {
			logging.Warnf("executor: alert bus publish failed: %v", err)
		}
	}
}

func (e *Executor) record(kind, ip, reason string) {
	if e.hist == nil {
		return
	}
	if err := e.hist.Insert(kind, ip, reason); err != nil {
		logging.Warnf("executor: history sink insert failed: %v", err)
	}
}
