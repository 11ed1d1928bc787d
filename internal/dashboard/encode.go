package dashboard

import (
	"strconv"
	"strings"
)

// encodeState renders st as the dashboard JSON document. This is hand-rolled
// rather than encoding/json because the field order and escaping table are
// part of the wire contract consumers are built against, and encoding/json
// gives neither a stable field order (without reflection tricks that would
// just reimplement this) nor control over the \u00XX fallback for control
// bytes outside the named escapes.
func encodeState(st *state) []byte {
	var b strings.Builder
	b.Grow(256)

	b.WriteByte('{')

	b.WriteString(`"system_status":`)
	writeJSONString(&b, st.systemStatus)
	b.WriteByte(',')

	b.WriteString(`"total_blocked":`)
	b.WriteString(strconv.FormatUint(st.totalBlocked, 10))
	b.WriteByte(',')

	b.WriteString(`"total_threats":`)
	b.WriteString(strconv.FormatUint(st.totalThreats, 10))
	b.WriteByte(',')

	b.WriteString(`"packets_analyzed":`)
	b.WriteString(strconv.FormatUint(st.packetsAnalyzed, 10))
	b.WriteByte(',')

	b.WriteString(`"uptime_seconds":`)
	b.WriteString(strconv.FormatInt(uptimeSeconds(st), 10))
	b.WriteByte(',')

	b.WriteString(`"latest_alert":{`)
	b.WriteString(`"type":`)
	writeJSONString(&b, st.latestAlert.Type)
	b.WriteString(`,"src_ip":`)
	writeJSONString(&b, st.latestAlert.SrcIP)
	b.WriteString(`,"reason":`)
	writeJSONString(&b, st.latestAlert.Reason)
	b.WriteString(`,"timestamp":`)
	writeJSONString(&b, st.latestAlert.Timestamp)
	b.WriteByte('}')
	b.WriteByte(',')

	b.WriteString(`"blocked_list":[`)
	for i, ip := range st.blockedList {
		if i > 0 {
			b.WriteByte(',')
		}
		writeJSONString(&b, ip)
	}
	b.WriteByte(']')
	b.WriteByte(',')

	b.WriteString(`"last_update":`)
	writeJSONString(&b, st.lastUpdate)

	b.WriteByte('}')

	return []byte(b.String())
}

const hexDigits = "0123456789abcdef"

// writeJSONString quotes and escapes s per the dashboard wire contract: the
// conventional backslash escapes, \u00XX for any other control byte, and
// everything else passed through unchanged.
func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0x0F])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}
