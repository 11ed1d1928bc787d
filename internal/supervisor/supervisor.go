// Package supervisor wires the sniffer, analyzer, and executor together and
// drives the shutdown sequence they all rely on.
package supervisor

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/zuudevs/gridwatcher/internal/action"
	"github.com/zuudevs/gridwatcher/internal/analyzer"
	"github.com/zuudevs/gridwatcher/internal/executor"
	"github.com/zuudevs/gridwatcher/internal/logging"
	"github.com/zuudevs/gridwatcher/internal/queue"
	"github.com/zuudevs/gridwatcher/internal/sniffer"
)

// pollInterval is how often the supervisor loop checks the shutdown flag.
const pollInterval = time.Second

// Supervisor owns the three long-running workers and the channels between
// them, and carries out the shutdown order spec'd for the pipeline:
// sniffer.Stop → packet channel close → analyzer exits → action channel
// close → executor exits.
type Supervisor struct {
	sniffer  *sniffer.Sniffer
	analyzer *analyzer.Analyzer
	executor *executor.Executor

	packetChan *queue.Channel[[]byte]
	actionChan *queue.Channel[action.Event]

	shuttingDown atomic.Bool
}

// New assembles a Supervisor from already-constructed workers sharing the
// given channels.
func New(s *sniffer.Sniffer, a *analyzer.Analyzer, e *executor.Executor, packetChan *queue.Channel[[]byte], actionChan *queue.Channel[action.Event]) *Supervisor {
	return &Supervisor{
		sniffer:    s,
		analyzer:   a,
		executor:   e,
		packetChan: packetChan,
		actionChan: actionChan,
	}
}

// Run starts every worker, installs SIGINT/SIGTERM handling, and blocks
// until a shutdown signal arrives or the sniffer's read loop exits, and then
// until every worker has exited. It returns the process exit code, which is
// always 0; a sniffer that fails to start does not make it non-zero.
func (sv *Supervisor) Run() int {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logging.Infof("shutdown signal received")
		sv.shuttingDown.Store(true)
	}()

	sv.sniffer.Start()
	sv.analyzer.SetIPOffset(sv.sniffer.IPOffset())
	sv.analyzer.Start()
	sv.executor.Start()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		sv.sniffer.Run()
		// The sniffer can also stop itself (a file-replay source hitting
		// end of stream) with no signal ever arriving. Either way, its
		// loop exiting is the trigger for the rest of the shutdown order.
		sv.shuttingDown.Store(true)
	}()
	go func() { defer wg.Done(); sv.analyzer.Run() }()
	go func() { defer wg.Done(); sv.executor.Run() }()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !sv.shuttingDown.Load() {
		<-ticker.C
		sv.executor.Publisher().SetPacketsAnalyzed(sv.analyzer.PacketsAnalyzed())
	}

	sv.shutdown()
	wg.Wait()

	logging.Infof("shutdown complete")
	return 0
}

func (sv *Supervisor) shutdown() {
	sv.sniffer.Stop()
	sv.packetChan.Close()
	sv.analyzer.Stop()
	sv.actionChan.Close()
	sv.executor.Stop()
}
