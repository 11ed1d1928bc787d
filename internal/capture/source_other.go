//go:build !linux

package capture

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/zuudevs/gridwatcher/internal/logging"
)

// PcapLiveSource is the PacketSource used on platforms other than Linux.
// Go has no portable way to open a SOCK_RAW/IPPROTO_IP socket outside
// Linux, so this backend uses gopacket/pcap for live capture instead.
type PcapLiveSource struct {
	Interface string
	handle    *pcap.Handle
}

// NewPcapLiveSource returns an unopened PcapLiveSource bound to iface.
func NewPcapLiveSource(iface string) *PcapLiveSource {
	return &PcapLiveSource{Interface: iface}
}

func (s *PcapLiveSource) Open() (int, error) {
	inactive, err := pcap.NewInactiveHandle(s.Interface)
	if err != nil {
		return 0, fmt.Errorf("open capture device %s: %w", s.Interface, err)
	}
	defer inactive.CleanUp()

	if err := inactive.SetSnapLen(65536); err != nil {
		return 0, fmt.Errorf("set snap length: %w", err)
	}
	if err := inactive.SetTimeout(pcap.BlockForever); err != nil {
		return 0, fmt.Errorf("set capture timeout: %w", err)
	}
	if err := inactive.SetPromisc(true); err != nil {
		logging.Warnf("failed to enable promiscuous mode: %v", err)
	}

	handle, err := inactive.Activate()
	if err != nil {
		return 0, fmt.Errorf("activate capture device %s: %w", s.Interface, err)
	}
	s.handle = handle

	if handle.LinkType() == layers.LinkTypeEthernet {
		return 14, nil
	}
	return 0, nil
}

func (s *PcapLiveSource) ReadFrame(buf []byte) (int, error) {
	if s.handle == nil {
		return 0, fmt.Errorf("capture device not open")
	}
	data, _, err := s.handle.ReadPacketData()
	if err != nil {
		return 0, err
	}
	return copy(buf, data), nil
}

func (s *PcapLiveSource) Close() error {
	if s.handle == nil {
		return nil
	}
	s.handle.Close()
	s.handle = nil
	return nil
}
