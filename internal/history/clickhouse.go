// Package history persists every executor action as an append-only audit
// trail, independent of the in-memory block set and the dashboard's
// point-in-time snapshot.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/zuudevs/gridwatcher/internal/logging"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS action_events (
    Timestamp DateTime,
    Kind      String,
    SrcIP     String,
    Reason    String
) ENGINE = MergeTree()
PARTITION BY toYYYYMMDD(Timestamp)
ORDER BY (Timestamp, SrcIP);
`

// Config carries the connection parameters for the audit sink.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// Sink inserts one row per executor action into ClickHouse. It never blocks
// enforcement: the executor calls Insert in its own goroutine-free hot path
// and logs, rather than propagates, any failure.
type Sink struct {
	conn driver.Conn
}

// NewSink connects to ClickHouse and ensures the action_events table exists.
func NewSink(cfg Config) (*Sink, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("create action_events table: %w", err)
	}
	logging.Infof("connected to ClickHouse history sink at %s", addr)
	return &Sink{conn: conn}, nil
}

// Insert records one action event. Kind is the action's string form
// ("BLOCK_IP", "UNBLOCK_IP", "LOG_SUSPICIOUS").
func (s *Sink) Insert(kind, srcIP, reason string) error {
	batch, err := s.conn.PrepareBatch(context.Background(), "INSERT INTO action_events")
	if err != nil {
		return fmt.Errorf("prepare action_events batch: %w", err)
	}
	if err := batch.Append(time.Now(), kind, srcIP, reason); err != nil {
		return fmt.Errorf("append action event: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send action_events batch: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	return s.conn.Close()
}
