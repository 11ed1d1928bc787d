package analyzer

// buildFrame constructs a minimal Ethernet(14)+IPv4(ihl*4)+TCP(20) frame
// with the given flags, ports, and payload, for exercising the hand-rolled
// parser without dragging in gopacket serialization. offset is always 14
// (Ethernet) in these tests; IHL is taken from ihlWords, and every caller
// passes 5 (no IP options).
func buildFrame(srcIP, dstIP [4]byte, protocol byte, ihlWords byte, srcPort, dstPort uint16, tcpFlags byte, payload []byte) []byte {
	const ethLen = 14
	ipHeaderLen := int(ihlWords) * 4

	frame := make([]byte, ethLen+ipHeaderLen+20+len(payload))

	// IP header
	ip := frame[ethLen:]
	ip[0] = 0x40 | ihlWords // version 4, IHL
	ip[9] = protocol
	copy(ip[12:16], srcIP[:])
	copy(ip[16:20], dstIP[:])

	// TCP header, immediately after the IP header
	tcp := frame[ethLen+ipHeaderLen:]
	tcp[0], tcp[1] = byte(srcPort>>8), byte(srcPort)
	tcp[2], tcp[3] = byte(dstPort>>8), byte(dstPort)
	tcp[13] = tcpFlags

	copy(frame[ethLen+ipHeaderLen+20:], payload)
	return frame
}

const (
	flagSYN     = 0x02
	flagACK     = 0x10
	flagSYNACK  = flagSYN | flagACK
)

var (
	ipA = [4]byte{10, 0, 0, 7}
	ipB = [4]byte{192, 168, 1, 42}
	ipC = [4]byte{0, 0, 0, 0}
)
