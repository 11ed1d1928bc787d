// Package sniffer owns the raw-packet source and streams frames into the
// packet channel.
package sniffer

import (
	"io"
	"sync/atomic"

	"github.com/zuudevs/gridwatcher/internal/capture"
	"github.com/zuudevs/gridwatcher/internal/logging"
	"github.com/zuudevs/gridwatcher/internal/queue"
)

const maxFrameSize = 65536

// Sniffer reads frames from a capture.PacketSource and pushes them onto a
// packet channel. It never parses a frame — that is the analyzer's job.
type Sniffer struct {
	source     capture.PacketSource
	packetChan *queue.Channel[[]byte]
	running    atomic.Bool
	ipOffset   int
}

// New wires a Sniffer to the given source and the packet channel it feeds.
func New(source capture.PacketSource, packetChan *queue.Channel[[]byte]) *Sniffer {
	return &Sniffer{source: source, packetChan: packetChan}
}

// IPOffset returns the capture-mode-dependent offset to the IP header,
// valid only after a successful Start. The analyzer is configured with
// this same value at startup.
func (s *Sniffer) IPOffset() int {
	return s.ipOffset
}

// Start acquires the underlying capture resource. On failure it logs
// critical and returns without starting the read loop — this is fatal to
// the sniffer only, not to the process.
func (s *Sniffer) Start() {
	offset, err := s.source.Open()
	if err != nil {
		logging.Criticalf("failed to initialize sniffer: %v", err)
		return
	}
	s.ipOffset = offset
	s.running.Store(true)
	logging.Infof("packet sniffer started")
}

// Run reads frames until Stop closes the source or the source reports
// io.EOF (the end of a replayed file). Other read errors are logged and the
// loop continues. It returns when the read loop exits.
func (s *Sniffer) Run() {
	if !s.running.Load() {
		return
	}
	buf := make([]byte, maxFrameSize)
	for s.running.Load() {
		n, err := s.source.ReadFrame(buf)
		if err != nil {
			if err == io.EOF {
				// A file-replay source has no more frames. This is a normal
				// end of stream, not a device fault — stop so the
				// supervisor can carry the rest of the pipeline through its
				// ordered shutdown, the same as if Stop had been called.
				logging.Infof("packet source reached end of stream")
				s.running.Store(false)
				break
			}
			if !s.running.Load() {
				// Expected: Stop() closed the source to break us out.
				break
			}
			logging.Errorf("packet read error: %v", err)
			continue
		}
		if n <= 0 {
			continue
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		s.packetChan.Push(frame)
	}
}

// Stop breaks the read loop and releases the capture resource.
func (s *Sniffer) Stop() {
	s.running.Store(false)
	if err := s.source.Close(); err != nil {
		logging.Errorf("error closing packet source: %v", err)
	}
	logging.Infof("packet sniffer stopped")
}
