// Command gridwatcher-sim crafts synthetic attack traffic for exercising
// the GridWatcher detectors without a live adversary: a SYN-scan burst
// against sequential ports, and an unauthorized Modbus write frame to
// port 502. It is the Go analogue of the original attack simulator, which
// drove both attacks over real TCP sockets; this instead serializes the
// frames directly into a .pcap file so they can be replayed
// deterministically through capture.PcapFileSource. It does not send the
// frames on a live interface.
package main

import (
	"flag"
	"log"
	"net"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const scanPortCount = 15

func main() {
	outputFile := flag.String("o", "attack_sim.pcap", "output .pcap file path")
	srcIPStr := flag.String("src", "10.0.0.99", "simulated attacker source IP")
	dstIPStr := flag.String("dst", "10.0.0.1", "simulated target IP")
	flag.Parse()

	srcIP := net.ParseIP(*srcIPStr).To4()
	dstIP := net.ParseIP(*dstIPStr).To4()
	if srcIP == nil || dstIP == nil {
		log.Fatalf("src and dst must be IPv4 dotted-quad addresses")
	}

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		log.Fatalf("failed to write pcap header: %v", err)
	}

	log.Printf("[SIM] writing %d SYN-scan frames from %s to %s", scanPortCount, srcIP, dstIP)
	for i := 0; i < scanPortCount; i++ {
		frame := synFrame(srcIP, dstIP, uint16(40000+i), uint16(8000+i))
		if err := writeFrame(w, frame); err != nil {
			log.Fatalf("failed to write SYN frame %d: %v", i, err)
		}
	}

	log.Printf("[SIM] writing Modbus unauthorized-write frame from %s to %s:502", srcIP, dstIP)
	modbusFrame := modbusWriteFrame(srcIP, dstIP, 40999)
	if err := writeFrame(w, modbusFrame); err != nil {
		log.Fatalf("failed to write modbus frame: %v", err)
	}

	log.Printf("[SIM] wrote %d frames to %s", scanPortCount+1, *outputFile)
}

func writeFrame(w *pcapgo.Writer, data []byte) error {
	ci := gopacket.CaptureInfo{CaptureLength: len(data), Length: len(data)}
	return w.WritePacket(ci, data)
}

// synFrame builds a bare Ethernet/IPv4/TCP SYN segment with no payload,
// matching the frame shape the port-scan detector looks for.
func synFrame(srcIP, dstIP net.IP, srcPort, dstPort uint16) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xAA},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		SrcIP:    srcIP,
		DstIP:    dstIP,
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
	}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(srcPort),
		DstPort: layers.TCPPort(dstPort),
		Seq:     1,
		SYN:     true,
		Window:  14600,
	}
	tcp.SetNetworkLayerForChecksum(ip)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp); err != nil {
		log.Fatalf("serialize SYN frame: %v", err)
	}
	return buf.Bytes()
}

// modbusWriteFrame builds an established-looking TCP segment to port 502
// carrying a Modbus "Write Single Register" (function code 0x06) request,
// the unauthorized-write shape the analyzer's Modbus detector flags.
func modbusWriteFrame(srcIP, dstIP net.IP, srcPort uint16) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xAA},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		SrcIP:    srcIP,
		DstIP:    dstIP,
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
	}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(srcPort),
		DstPort: layers.TCPPort(502),
		Seq:     1000,
		Ack:     1,
		ACK:     true,
		Window:  14600,
	}
	tcp.SetNetworkLayerForChecksum(ip)

	// MBAP header (transaction id, protocol id, length, unit id) followed
	// by function code 0x06 (Write Single Register), register address,
	// and value — the payload shape analyzer/parse.go reads the function
	// code from.
	modbus := []byte{
		0x00, 0x01, // transaction id
		0x00, 0x00, // protocol id
		0x00, 0x06, // length
		0x01,       // unit id
		0x06,       // function code: write single register
		0x00, 0x01, // register address
		0x00, 0xFF, // value
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(modbus)); err != nil {
		log.Fatalf("serialize modbus frame: %v", err)
	}
	return buf.Bytes()
}
