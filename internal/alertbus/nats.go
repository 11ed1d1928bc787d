package alertbus

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/zuudevs/gridwatcher/internal/logging"
)

// NATSBus publishes alerts as JSON to a configured subject. The teacher's
// probe publisher (internal/probe/publisher.go) serializes to protobuf
// against a generated api/gen/v1 package that the retrieval pack never
// supplies; this publishes a self-describing JSON object instead, matching
// the encoding the dashboard already commits to on disk.
type NATSBus struct {
	nc      *nats.Conn
	subject string
}

// NewNATSBus connects to url and returns a Bus publishing to subject.
func NewNATSBus(url, subject string) (*NATSBus, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	logging.Infof("connected to NATS alert bus at %s, subject %q", url, subject)
	return &NATSBus{nc: nc, subject: subject}, nil
}

func (b *NATSBus) Publish(alert Alert) error {
	payload := encodeAlert(alert)
	if err := b.nc.Publish(b.subject, payload); err != nil {
		return fmt.Errorf("publish alert to nats: %w", err)
	}
	return nil
}

// Close drains and closes the underlying connection.
func (b *NATSBus) Close() {
	if b.nc == nil {
		return
	}
	if err := b.nc.Drain(); err != nil {
		logging.Warnf("nats drain failed: %v", err)
	}
}

func encodeAlert(a Alert) []byte {
	var buf []byte
	buf = append(buf, `{"type":"`...)
	buf = append(buf, escapeJSON(a.Type)...)
	buf = append(buf, `","src_ip":"`...)
	buf = append(buf, escapeJSON(a.SrcIP)...)
	buf = append(buf, `","reason":"`...)
	buf = append(buf, escapeJSON(a.Reason)...)
	buf = append(buf, `","timestamp":"`...)
	buf = append(buf, escapeJSON(a.Timestamp)...)
	buf = append(buf, `"}`...)
	return buf
}

// escapeJSON handles the same conventional escapes the dashboard publisher
// uses; alert fields are short enough that a byte-by-byte pass is cheap and
// it avoids importing encoding/json for a single object shape.
func escapeJSON(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\b':
			out = append(out, '\\', 'b')
		case '\f':
			out = append(out, '\\', 'f')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
