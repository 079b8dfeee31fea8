package main

import (
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration defaults. A missing or malformed config file is never fatal:
// every field falls back to these values individually.
const (
	defaultIntervalSeconds      = 300
	defaultPingCount            = 3
	defaultPingTimeoutMs        = 1000
	defaultFailureThreshold     = 3
	defaultNotifyTimeoutSeconds = 30
)

// Config represents the configuration structure, grouped the way the config
// file is.
type Config struct {
	Settings  SettingsConfig  `yaml:"settings"`
	Platforms PlatformsConfig `yaml:"platforms"`
	Ping      PingConfig      `yaml:"ping"`
	Notify    NotifyConfig    `yaml:"notify"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// SettingsConfig controls the scheduler.
type SettingsConfig struct {
	IntervalSeconds int `yaml:"interval"`
}

// PlatformsConfig selects notification channels as a comma-separated list,
// e.g. "wecom,dingtalk,email". Empty means alerting is log-only.
type PlatformsConfig struct {
	Enabled string `yaml:"enabled"`
}

// PingConfig controls probing and alert triggering.
type PingConfig struct {
	Count            int `yaml:"ping_count"`
	TimeoutMs        int `yaml:"ping_timeout"`
	FailureThreshold int `yaml:"failure_threshold"`
}

// NotifyConfig configures alert delivery: the external notifier binary for
// regular channels, and Brevo credentials for the reserved "email" channel.
type NotifyConfig struct {
	BotPath        string      `yaml:"bot_path"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	Email          EmailConfig `yaml:"email"`
}

// EmailConfig holds Brevo transactional-email credentials.
type EmailConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// HTTPConfig controls the optional status server. Empty listen address
// disables it.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// loadConfig loads configuration from a YAML file. It always returns a usable
// Config: a missing or unparseable file degrades to defaults with a warning,
// as do individual out-of-range values.
func loadConfig(filename string) Config {
	var config Config

	data, err := os.ReadFile(filename)
	if err != nil {
		log.Printf("⚠️  Cannot read config file %s, using defaults: %v", filename, err)
	} else if err := yaml.Unmarshal(data, &config); err != nil {
		log.Printf("⚠️  Cannot parse config file %s, using defaults: %v", filename, err)
		config = Config{}
	}

	applyConfigDefaults(&config)
	return config
}

// applyConfigDefaults replaces missing or out-of-range values field by field.
func applyConfigDefaults(config *Config) {
	if config.Settings.IntervalSeconds <= 0 {
		if config.Settings.IntervalSeconds < 0 {
			log.Printf("⚠️  settings.interval must be positive, using default %d", defaultIntervalSeconds)
		}
		config.Settings.IntervalSeconds = defaultIntervalSeconds
	}
	if config.Ping.Count <= 0 {
		if config.Ping.Count < 0 {
			log.Printf("⚠️  ping.ping_count must be positive, using default %d", defaultPingCount)
		}
		config.Ping.Count = defaultPingCount
	}
	if config.Ping.TimeoutMs <= 0 {
		if config.Ping.TimeoutMs < 0 {
			log.Printf("⚠️  ping.ping_timeout must be positive, using default %d", defaultPingTimeoutMs)
		}
		config.Ping.TimeoutMs = defaultPingTimeoutMs
	}
	if config.Ping.FailureThreshold <= 0 {
		if config.Ping.FailureThreshold < 0 {
			log.Printf("⚠️  ping.failure_threshold must be positive, using default %d", defaultFailureThreshold)
		}
		config.Ping.FailureThreshold = defaultFailureThreshold
	}
	if config.Notify.TimeoutSeconds <= 0 {
		config.Notify.TimeoutSeconds = defaultNotifyTimeoutSeconds
	}
	if config.Notify.BotPath == "" {
		config.Notify.BotPath = defaultBotPath()
	}
}

// defaultBotPath returns the notifier binary looked up when notify.bot_path is
// unset: PushBot.exe on Windows, ./PushBot elsewhere.
func defaultBotPath() string {
	if runtime.GOOS == "windows" {
		return "PushBot.exe"
	}
	return "./PushBot"
}

// Channels parses the comma-separated channel list, dropping empty entries.
func (c Config) Channels() []string {
	parts := strings.Split(c.Platforms.Enabled, ",")
	channels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			channels = append(channels, p)
		}
	}
	return channels
}

// Interval returns the pause between monitoring cycles.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Settings.IntervalSeconds) * time.Second
}

// PingTimeout returns the per-request probe timeout.
func (c Config) PingTimeout() time.Duration {
	return time.Duration(c.Ping.TimeoutMs) * time.Millisecond
}

// NotifyTimeout returns the execution budget for one sink invocation.
func (c Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notify.TimeoutSeconds) * time.Second
}

// EmailConfigured reports whether the reserved "email" channel can be served.
func (c Config) EmailConfigured() bool {
	e := c.Notify.Email
	return e.APIKey != "" && e.From != "" && e.To != ""
}
