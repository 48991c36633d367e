// Package config loads wingsync settings from defaults, a TOML file,
// WINGSYNC_* environment variables and command line flags, in that order.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/scgolang/wingsync/discovery"
	"github.com/scgolang/wingsync/namesync"
	"github.com/scgolang/wingsync/recorder"
	"github.com/scgolang/wingsync/wingosc"
)

// Config holds CLI configuration for wingsync.
type Config struct {
	Console  string
	Recorder string
	Group    string

	LocalPort     int
	ConsolePort   int
	RecorderPort  int
	DiscoveryPort int

	DiscoveryTimeout time.Duration
	PollInterval     time.Duration
	Deadline         time.Duration

	ControlAddr string
	MetricsAddr string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Group:            "USB",
		LocalPort:        wingosc.DefaultLocalPort,
		ConsolePort:      wingosc.ConsolePort,
		RecorderPort:     recorder.Port,
		DiscoveryPort:    wingosc.DiscoveryPort,
		DiscoveryTimeout: discovery.DefaultTimeout,
		PollInterval:     namesync.DefaultPollInterval,
		Deadline:         namesync.DefaultDeadline,
		ControlAddr:      "0.0.0.0:9000",
		LogLevel:         "info",
	}
}

// Validate checks the settings shared by every command and normalizes
// the source group.
func (c *Config) Validate() error {
	c.Group = strings.ToUpper(strings.TrimSpace(c.Group))

	ports := []struct {
		name string
		port int
	}{
		{"local-port", c.LocalPort},
		{"console-port", c.ConsolePort},
		{"recorder-port", c.RecorderPort},
		{"discovery-port", c.DiscoveryPort},
	}
	for _, p := range ports {
		if p.port < 0 || p.port > 65535 {
			return errors.Errorf("%s %d out of range", p.name, p.port)
		}
	}
	if c.DiscoveryTimeout <= 0 {
		return errors.New("discovery timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.Deadline <= 0 {
		return errors.New("deadline must be positive")
	}
	return nil
}

// ValidateTransfer additionally requires both device addresses and a group.
func (c *Config) ValidateTransfer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Console == "" {
		return errors.New("console address is required")
	}
	if c.Recorder == "" {
		return errors.New("recorder address is required")
	}
	if c.Group == "" {
		return errors.New("group is required")
	}
	return nil
}

// Engine returns the engine settings.
func (c Config) Engine() namesync.Config {
	return namesync.Config{
		LocalPort:        c.LocalPort,
		ConsolePort:      c.ConsolePort,
		RecorderPort:     c.RecorderPort,
		DiscoveryPort:    c.DiscoveryPort,
		DiscoveryTimeout: c.DiscoveryTimeout,
		PollInterval:     c.PollInterval,
		Deadline:         c.Deadline,
	}
}

// configSetter applies values unless the matching flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt applies value when it is present in the file. Zero is a value.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrapf(err, "parse %s", flag)
	}
	*dst = d
	return nil
}

// setIntFromString is setInt for environment variables.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return errors.Wrapf(err, "parse %s", flag)
	}
	*dst = i
	return nil
}
