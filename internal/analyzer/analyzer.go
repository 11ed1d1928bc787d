// Package analyzer parses raw frames and emits action events for the
// Modbus-write and port-scan detectors.
package analyzer

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zuudevs/gridwatcher/internal/action"
	"github.com/zuudevs/gridwatcher/internal/logging"
	"github.com/zuudevs/gridwatcher/internal/queue"
)

// Config tunes the analyzer's detectors. See config.DetectorConfig.
type Config struct {
	PortScanThreshold  int
	ScanMapBound       int
	ScanMapPruneWindow time.Duration
}

// Analyzer consumes raw frames from the packet channel and pushes action
// events onto the action channel. It never mutates firewall or dashboard
// state directly — that is the executor's job.
type Analyzer struct {
	packetChan *queue.Channel[[]byte]
	actionChan *queue.Channel[action.Event]
	ipOffset   int
	cfg        Config
	scans      *scanMap
	running    atomic.Bool

	packetsAnalyzed atomic.Uint64
}

// New creates an Analyzer. The sniffer's IP-header offset isn't known until
// the sniffer opens its capture source, so it is supplied later via
// SetIPOffset, before Run starts draining the packet channel.
func New(packetChan *queue.Channel[[]byte], actionChan *queue.Channel[action.Event], cfg Config) *Analyzer {
	return &Analyzer{
		packetChan: packetChan,
		actionChan: actionChan,
		cfg:        cfg,
		scans:      newScanMap(cfg.ScanMapBound, cfg.ScanMapPruneWindow),
	}
}

// SetIPOffset records the capture-mode-dependent IP header offset. It must
// be called before Run, and only from the goroutine that called the
// sniffer's Start — there is no synchronization between this and Run's
// reads of ipOffset.
func (a *Analyzer) SetIPOffset(offset int) {
	a.ipOffset = offset
}

func (a *Analyzer) Start() {
	a.running.Store(true)
	logging.Infof("packet analyzer started")
}

func (a *Analyzer) Stop() {
	a.running.Store(false)
	logging.Infof("packet analyzer stopped")
}

// PacketsAnalyzed reports the number of frames that passed the minimum
// length check and were handed to the detectors. The supervisor copies this
// into the dashboard state on each of its once-per-second poll ticks.
func (a *Analyzer) PacketsAnalyzed() uint64 {
	return a.packetsAnalyzed.Load()
}

// Run drains the packet channel until it is closed and empty. All actions
// for one frame are pushed before the next frame is read off the channel.
func (a *Analyzer) Run() {
	for {
		frame, ok := a.packetChan.Pop()
		if !ok {
			return
		}
		a.analyze(frame)
	}
}

func (a *Analyzer) analyze(frame []byte) {
	if len(frame) < a.ipOffset+20 {
		return
	}
	a.packetsAnalyzed.Add(1)

	if fn, ok := modbusWriteFunctionCode(frame, a.ipOffset); ok {
		ip := srcIP(frame, a.ipOffset)
		reason := fmt.Sprintf("Unauthorized Modbus write (0x%02X)", fn)
		logging.Warnf("SCADA write attempt from %s (function code 0x%02X)", ip, fn)
		a.actionChan.Push(action.Event{Kind: action.BlockIP, IP: ip, Reason: reason})
	}

	if isSYN(frame, a.ipOffset) {
		ip := srcIP(frame, a.ipOffset)
		port := dstPort(frame, a.ipOffset)
		if ip == "" || port == 0 {
			return
		}
		threshold := a.cfg.PortScanThreshold
		if threshold <= 0 {
			threshold = 10
		}
		if a.scans.observe(ip, port, threshold, time.Now()) {
			logging.Warnf("port scan detected from %s", ip)
			a.actionChan.Push(action.Event{Kind: action.BlockIP, IP: ip, Reason: "Port scanning activity"})
		}
	}
}
