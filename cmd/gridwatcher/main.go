// Command gridwatcher runs the GridWatcher intrusion-prevention pipeline:
// capture, analysis, and enforcement wired through the supervisor.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/zuudevs/gridwatcher/internal/action"
	"github.com/zuudevs/gridwatcher/internal/alertbus"
	"github.com/zuudevs/gridwatcher/internal/analyzer"
	"github.com/zuudevs/gridwatcher/internal/capture"
	"github.com/zuudevs/gridwatcher/internal/config"
	"github.com/zuudevs/gridwatcher/internal/dashboard"
	"github.com/zuudevs/gridwatcher/internal/executor"
	"github.com/zuudevs/gridwatcher/internal/history"
	"github.com/zuudevs/gridwatcher/internal/logging"
	"github.com/zuudevs/gridwatcher/internal/queue"
	"github.com/zuudevs/gridwatcher/internal/sniffer"
	"github.com/zuudevs/gridwatcher/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logging.Warnf("failed to load config from %s, using defaults: %v", *configPath, err)
		cfg = config.Default()
	}

	source, err := newPacketSource(cfg.Capture)
	if err != nil {
		logging.Criticalf("failed to construct packet source: %v", err)
		os.Exit(1)
	}

	enforcer := newEnforcer()

	pub := dashboard.New(cfg.Dashboard.Path)

	var bus alertbus.Bus
	var backends []alertbus.Bus
	if cfg.NATS.Enabled {
		if nb, err := alertbus.NewNATSBus(cfg.NATS.URL, cfg.NATS.Subject); err != nil {
			logging.Errorf("nats alert bus disabled: %v", err)
		} else {
			backends = append(backends, nb)
			defer nb.Close()
		}
	}
	if cfg.SMTP.Enabled {
		backends = append(backends, alertbus.NewEmailBus(alertbus.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}))
	}
	if len(backends) > 0 {
		bus = alertbus.NewMulti(backends...)
	}

	var hist *history.Sink
	if cfg.ClickHouse.Enabled {
		hist, err = history.NewSink(history.Config{
			Host:     cfg.ClickHouse.Host,
			Port:     cfg.ClickHouse.Port,
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		})
		if err != nil {
			logging.Errorf("clickhouse history sink disabled: %v", err)
			hist = nil
		} else {
			defer hist.Close()
		}
	}

	if cfg.Dashboard.HTTPAddr != "" {
		go func() {
			router := dashboard.NewAPIRouter(pub)
			if err := http.ListenAndServe(cfg.Dashboard.HTTPAddr, router); err != nil {
				logging.Errorf("dashboard status API stopped: %v", err)
			}
		}()
	}

	packetChan := queue.New[[]byte]()
	actionChan := queue.New[action.Event]()

	snf := sniffer.New(source, packetChan)

	az := analyzer.New(packetChan, actionChan, analyzer.Config{
		PortScanThreshold:  cfg.Detector.PortScanThreshold,
		ScanMapBound:       cfg.Detector.ScanMapBound,
		ScanMapPruneWindow: time.Duration(cfg.Detector.ScanMapPruneWindowSeconds) * time.Second,
	})

	ex := executor.New(actionChan, enforcer, pub, bus, hist)

	sv := supervisor.New(snf, az, ex, packetChan, actionChan)
	os.Exit(sv.Run())
}

// newPacketSource picks the PacketSource implementation for cfg.Mode.
// "file" replays a .pcap for the simulator and integration tests; anything
// else uses the platform's live capture backend (the Linux raw socket, or
// gopacket/pcap everywhere else), ignoring the distinction between "raw"
// and "pcap" modes since exactly one live backend is compiled per platform.
func newPacketSource(cfg config.CaptureConfig) (capture.PacketSource, error) {
	if cfg.Mode == "file" {
		return capture.NewPcapFileSource(cfg.File), nil
	}
	return newLiveSource(cfg.Interface), nil
}
