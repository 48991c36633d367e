package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Ports are pointers so an explicit 0 can be told apart from a missing key.
type FileConfig struct {
	Console          string `toml:"console"`
	Recorder         string `toml:"recorder"`
	Group            string `toml:"group"`
	LocalPort        *int   `toml:"local_port"`
	ConsolePort      *int   `toml:"console_port"`
	RecorderPort     *int   `toml:"recorder_port"`
	DiscoveryPort    *int   `toml:"discovery_port"`
	DiscoveryTimeout string `toml:"discovery_timeout"`
	PollInterval     string `toml:"poll_interval"`
	Deadline         string `toml:"deadline"`
	ControlAddr      string `toml:"control_addr"`
	MetricsAddr      string `toml:"metrics_addr"`
	LogLevel         string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrap(err, "reading config file")
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, errors.Wrapf(err, "parsing %s", path)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.wingsync/config.toml, or "" if there is no
// home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".wingsync", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("console", fc.Console, &cfg.Console)
	s.setString("recorder", fc.Recorder, &cfg.Recorder)
	s.setString("group", fc.Group, &cfg.Group)
	s.setString("control-addr", fc.ControlAddr, &cfg.ControlAddr)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("local-port", fc.LocalPort, &cfg.LocalPort)
	s.setInt("console-port", fc.ConsolePort, &cfg.ConsolePort)
	s.setInt("recorder-port", fc.RecorderPort, &cfg.RecorderPort)
	s.setInt("discovery-port", fc.DiscoveryPort, &cfg.DiscoveryPort)

	if err := s.setDuration("discovery-timeout", fc.DiscoveryTimeout, &cfg.DiscoveryTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	return s.setDuration("deadline", fc.Deadline, &cfg.Deadline)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
