// Package config loads GridWatcher's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaptureConfig controls how the sniffer acquires frames.
type CaptureConfig struct {
	// Mode selects the PacketSource: "file" replays a .pcap file (such as
	// one written by the simulator); any other value, "raw" or "pcap"
	// alike, selects the single live backend compiled for the platform
	// (the AF_PACKET raw socket on Linux, gopacket/pcap elsewhere).
	Mode string `yaml:"mode"`
	// Interface names the NIC the gopacket/pcap live backend captures on.
	// The Linux raw-socket backend ignores it.
	Interface string `yaml:"interface"`
	// File names the .pcap file to replay in "file" mode.
	File string `yaml:"file"`
}

// DetectorConfig tunes the analyzer's detectors.
type DetectorConfig struct {
	// PortScanThreshold is the number of distinct destination ports from
	// one source that trips the port-scan detector. Defaults to 10.
	PortScanThreshold int `yaml:"port_scan_threshold"`
	// ScanMapBound is the number of scan-tracker entries above which the
	// analyzer starts pruning stale ones. Defaults to 4096.
	ScanMapBound int `yaml:"scan_map_bound"`
	// ScanMapPruneWindowSeconds is how old (in seconds) an entry must be to be
	// evicted once ScanMapBound is exceeded. Defaults to 60.
	ScanMapPruneWindowSeconds int `yaml:"scan_map_prune_window_seconds"`
}

// DashboardConfig controls the JSON dashboard publisher and its optional
// HTTP status API.
type DashboardConfig struct {
	// Path is where the dashboard JSON document is written.
	Path string `yaml:"path"`
	// HTTPAddr, if non-empty, starts a read-only status API on this
	// address (e.g. "127.0.0.1:8088").
	HTTPAddr string `yaml:"http_addr"`
}

// NATSConfig configures the optional outbound alert bus.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SMTPConfig configures the optional email backend, which receives every
// alert the executor publishes.
type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// ClickHouseConfig configures the optional audit-history sink.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Capture    CaptureConfig    `yaml:"capture"`
	Detector   DetectorConfig   `yaml:"detector"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	NATS       NATSConfig       `yaml:"nats"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// LoadConfig reads the configuration from a YAML file and applies defaults
// for anything left unset.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a Config with every field set to its default value, for
// callers without a config file; cmd/gridwatcher falls back to it when
// LoadConfig fails.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Capture.Mode == "" {
		cfg.Capture.Mode = "raw"
	}
	if cfg.Detector.PortScanThreshold <= 0 {
		cfg.Detector.PortScanThreshold = 10
	}
	if cfg.Detector.ScanMapBound <= 0 {
		cfg.Detector.ScanMapBound = 4096
	}
	if cfg.Detector.ScanMapPruneWindowSeconds <= 0 {
		cfg.Detector.ScanMapPruneWindowSeconds = 60
	}
	if cfg.Dashboard.Path == "" {
		cfg.Dashboard.Path = "www/dashboard_data.json"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "gridwatcher.alerts"
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://127.0.0.1:4222"
	}
}
