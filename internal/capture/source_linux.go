//go:build linux

package capture

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// LinuxRawSocket is the production PacketSource on Linux: an AF_PACKET,
// SOCK_RAW socket bound to every interface, capturing complete Ethernet
// frames. Its IP offset is therefore 14.
type LinuxRawSocket struct {
	file *os.File
}

// NewLinuxRawSocket returns an unopened LinuxRawSocket.
func NewLinuxRawSocket() *LinuxRawSocket {
	return &LinuxRawSocket{}
}

func (s *LinuxRawSocket) Open() (int, error) {
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(unix.ETH_P_ALL)))
	if err != nil {
		return 0, fmt.Errorf("open raw socket (run with elevated privileges): %w", err)
	}
	// Wrapping the fd in an *os.File gives us a blocking Read that a
	// concurrent Close promptly breaks out of — the cancellation
	// primitive the sniffer's Stop() relies on.
	s.file = os.NewFile(uintptr(fd), "gridwatcher-raw-socket")
	return 14, nil
}

func (s *LinuxRawSocket) ReadFrame(buf []byte) (int, error) {
	if s.file == nil {
		return 0, fmt.Errorf("raw socket not open")
	}
	return s.file.Read(buf)
}

func (s *LinuxRawSocket) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// htons converts a 16-bit value to network byte order, as required for the
// protocol argument to socket(2) on an AF_PACKET socket.
func htons(h uint16) uint16 {
	return (h<<8)&0xff00 | (h>>8)&0x00ff
}
