package analyzer

import "fmt"

// Parsing is hand-rolled over raw bytes rather than routed through
// gopacket's layer decoder: the detection rules below hinge on exact byte
// offsets and exact minimum-length boundaries (see parse_test.go), and a
// general-purpose layer decoder doesn't give us that level of control over
// what counts as "too short" versus "absent". capture.PcapLiveSource and
// capture.PcapFileSource still use gopacket to get frames onto the wire —
// this package only ever sees the resulting []byte.

// srcIP extracts the dotted-quad source address from the IP header at
// offset. It requires at least 20 bytes of IP header.
func srcIP(frame []byte, offset int) string {
	if len(frame) < offset+20 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.%d", frame[offset+12], frame[offset+13], frame[offset+14], frame[offset+15])
}

// ihl returns the IP header length in bytes, computed from the low nibble
// of the first IP header byte. The caller must have already checked that
// frame has at least offset+20 bytes.
func ihl(frame []byte, offset int) int {
	return int(frame[offset]&0x0F) * 4
}

// protocolByte returns the IP protocol field (offset+9), e.g. 6 for TCP.
func protocolByte(frame []byte, offset int) byte {
	return frame[offset+9]
}

// dstPort extracts the big-endian TCP/UDP destination port immediately
// following the IP header. It returns 0 if the frame is too short to
// contain one.
func dstPort(frame []byte, offset int) uint16 {
	if len(frame) < offset+20 {
		return 0
	}
	headerLen := ihl(frame, offset)
	if len(frame) < offset+headerLen+4 {
		return 0
	}
	return uint16(frame[offset+headerLen+2])<<8 | uint16(frame[offset+headerLen+3])
}

// isSYN reports whether frame is a TCP SYN-without-ACK packet: SYN set,
// ACK clear. It is false for SYN-ACK responses, non-TCP frames, and
// anything too short to contain a full fixed TCP header.
func isSYN(frame []byte, offset int) bool {
	if len(frame) < offset+20 {
		return false
	}
	if protocolByte(frame, offset) != 6 {
		return false
	}
	headerLen := ihl(frame, offset)
	if len(frame) < offset+headerLen+14 {
		return false
	}
	flags := frame[offset+headerLen+13]
	return flags&0x02 != 0 && flags&0x10 == 0
}

// modbusWriteFunctionCode returns the Modbus function code and true if
// frame is a TCP segment to port 502 carrying a write request (function
// code 0x05, 0x06, or 0x10) immediately after a 7-byte MBAP header.
func modbusWriteFunctionCode(frame []byte, offset int) (byte, bool) {
	if dstPort(frame, offset) != 502 {
		return 0, false
	}
	if len(frame) < offset+20 {
		return 0, false
	}
	if protocolByte(frame, offset) != 6 {
		return 0, false
	}
	headerLen := ihl(frame, offset)
	if len(frame) < offset+headerLen+20+8 {
		return 0, false
	}
	fn := frame[offset+headerLen+20+7]
	switch fn {
	case 0x05, 0x06, 0x10:
		return fn, true
	default:
		return 0, false
	}
}
