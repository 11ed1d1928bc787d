package capture

import (
	"fmt"
	"io"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// PcapFileSource replays frames from a .pcap file, letting the simulator
// and integration tests drive the real Sniffer/Analyzer/Executor chain
// over deterministic, prerecorded frames instead of a live socket.
type PcapFileSource struct {
	Path   string
	handle *pcap.Handle
}

// NewPcapFileSource returns an unopened PcapFileSource reading path.
func NewPcapFileSource(path string) *PcapFileSource {
	return &PcapFileSource{Path: path}
}

func (s *PcapFileSource) Open() (int, error) {
	handle, err := pcap.OpenOffline(s.Path)
	if err != nil {
		return 0, fmt.Errorf("open pcap file %s: %w", s.Path, err)
	}
	s.handle = handle
	if handle.LinkType() == layers.LinkTypeEthernet {
		return 14, nil
	}
	return 0, nil
}

func (s *PcapFileSource) ReadFrame(buf []byte) (int, error) {
	if s.handle == nil {
		return 0, fmt.Errorf("pcap file not open")
	}
	data, _, err := s.handle.ReadPacketData()
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, err
	}
	return copy(buf, data), nil
}

func (s *PcapFileSource) Close() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	return nil
}
