package analyzer

import "testing"

const ethOffset = 14

func TestSrcIP(t *testing.T) {
	frame := buildFrame(ipA, ipB, 6, 5, 1000, 80, flagSYN, nil)
	if got := srcIP(frame, ethOffset); got != "10.0.0.7" {
		t.Errorf("srcIP = %q, want 10.0.0.7", got)
	}
}

func TestSrcIP_TooShort(t *testing.T) {
	frame := make([]byte, ethOffset+19)
	if got := srcIP(frame, ethOffset); got != "" {
		t.Errorf("srcIP on truncated frame = %q, want empty", got)
	}
}

// Frame of length exactly offset+19 is one byte short of a full IP header
// and must be dropped.
func TestIsSYN_FrameOneByteShortOfIPHeader(t *testing.T) {
	frame := make([]byte, ethOffset+19)
	if isSYN(frame, ethOffset) {
		t.Errorf("isSYN on O+19-byte frame = true, want false")
	}
}

// IHL=5, length exactly O+20+13: SYN predicate needs O+20+14, so this must
// be false even though the TCP header's port/flag fields up to byte 13
// (flags) would otherwise be present at that exact length — the flags byte
// itself is at offset+headerLen+13, the 14th TCP byte, so length O+20+13
// falls one byte short of containing it.
func TestIsSYN_FrameOneByteShortOfFlags(t *testing.T) {
	frame := make([]byte, ethOffset+20+13)
	frame[ethOffset] = 0x45
	frame[ethOffset+9] = 6
	if isSYN(frame, ethOffset) {
		t.Errorf("isSYN on O+20+13-byte frame = true, want false")
	}
}

func TestIsSYN_TrueForSYNWithoutACK(t *testing.T) {
	frame := buildFrame(ipA, ipB, 6, 5, 40000, 1000, flagSYN, nil)
	if !isSYN(frame, ethOffset) {
		t.Errorf("isSYN(SYN only) = false, want true")
	}
}

func TestIsSYN_FalseForSYNACK(t *testing.T) {
	frame := buildFrame(ipA, ipB, 6, 5, 40000, 1000, flagSYNACK, nil)
	if isSYN(frame, ethOffset) {
		t.Errorf("isSYN(SYN+ACK) = true, want false")
	}
}

func TestIsSYN_FalseForNonTCP(t *testing.T) {
	frame := buildFrame(ipA, ipB, 17, 5, 40000, 1000, flagSYN, nil)
	if isSYN(frame, ethOffset) {
		t.Errorf("isSYN on UDP frame = true, want false")
	}
}

func modbusPayload(fn byte) []byte {
	return []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x06, 0x01, fn, 0x00, 0x01, 0x00, 0xFF}
}

// S2: a write function code to port 502 is flagged.
func TestModbusWriteFunctionCode_WriteSingleRegister(t *testing.T) {
	frame := buildFrame(ipB, ipA, 6, 5, 50000, 502, flagACK, modbusPayload(0x06))
	fn, ok := modbusWriteFunctionCode(frame, ethOffset)
	if !ok || fn != 0x06 {
		t.Errorf("modbusWriteFunctionCode = (0x%02X, %v), want (0x06, true)", fn, ok)
	}
}

func TestModbusWriteFunctionCode_AllWriteCodes(t *testing.T) {
	for _, fn := range []byte{0x05, 0x06, 0x10} {
		frame := buildFrame(ipB, ipA, 6, 5, 50000, 502, flagACK, modbusPayload(fn))
		got, ok := modbusWriteFunctionCode(frame, ethOffset)
		if !ok || got != fn {
			t.Errorf("function 0x%02X: modbusWriteFunctionCode = (0x%02X, %v), want (0x%02X, true)", fn, got, ok, fn)
		}
	}
}

// S3: a read function code (0x03) is benign.
func TestModbusWriteFunctionCode_ReadIsBenign(t *testing.T) {
	frame := buildFrame(ipB, ipA, 6, 5, 50000, 502, flagACK, modbusPayload(0x03))
	_, ok := modbusWriteFunctionCode(frame, ethOffset)
	if ok {
		t.Errorf("modbusWriteFunctionCode on read (0x03) = true, want false")
	}
}

func TestModbusWriteFunctionCode_WrongPort(t *testing.T) {
	frame := buildFrame(ipB, ipA, 6, 5, 50000, 503, flagACK, modbusPayload(0x06))
	_, ok := modbusWriteFunctionCode(frame, ethOffset)
	if ok {
		t.Errorf("modbusWriteFunctionCode on port 503 = true, want false")
	}
}

// Modbus frame truncated before the function byte: dropped.
func TestModbusWriteFunctionCode_TruncatedBeforeFunctionByte(t *testing.T) {
	frame := buildFrame(ipB, ipA, 6, 5, 50000, 502, flagACK, modbusPayload(0x06))
	truncated := frame[:len(frame)-6] // cut off before the function byte
	_, ok := modbusWriteFunctionCode(truncated, ethOffset)
	if ok {
		t.Errorf("modbusWriteFunctionCode on truncated frame = true, want false")
	}
}
