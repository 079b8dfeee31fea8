package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	hostsPath := flag.String("hosts", "iplist.csv", "Path to the CSV host list")
	logPath := flag.String("log", defaultLogFile, "Path to the log file (truncated at startup)")
	flag.Parse()

	setupLogging(*logPath)
	log.Printf("🎯 Reach Monitor Starting...")

	config := loadConfig(*configPath)

	hosts, err := loadHosts(*hostsPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Printf("✅ Loaded %d hosts, interval %v, threshold %d, channels %v",
		len(hosts), config.Interval(), config.Ping.FailureThreshold, config.Channels())

	if err := registerMetrics(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("❌ Failed to register metrics: %v", err)
	}

	prober := newICMPProber(config.Ping.Count, config.PingTimeout())
	sink := newNotificationSink(config)
	monitor := NewMonitor(config, hosts, prober, sink)

	if config.HTTP.Listen != "" {
		monitor.startStatusServer(config.HTTP.Listen)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Printf("👋 Shutting down gracefully...")
		os.Exit(0)
	}()

	monitor.Start()
}
