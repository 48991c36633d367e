package config

import "os"

// ApplyEnvConfig applies configuration from environment variables (WINGSYNC_*).
// These override file config but are overridden by flags (checked via changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("console", os.Getenv("WINGSYNC_CONSOLE"), &cfg.Console)
	s.setString("recorder", os.Getenv("WINGSYNC_RECORDER"), &cfg.Recorder)
	s.setString("group", os.Getenv("WINGSYNC_GROUP"), &cfg.Group)
	s.setString("control-addr", os.Getenv("WINGSYNC_CONTROL_ADDR"), &cfg.ControlAddr)
	s.setString("metrics-addr", os.Getenv("WINGSYNC_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("WINGSYNC_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("local-port", os.Getenv("WINGSYNC_LOCAL_PORT"), &cfg.LocalPort); err != nil {
		return err
	}
	if err := s.setIntFromString("console-port", os.Getenv("WINGSYNC_CONSOLE_PORT"), &cfg.ConsolePort); err != nil {
		return err
	}
	if err := s.setIntFromString("recorder-port", os.Getenv("WINGSYNC_RECORDER_PORT"), &cfg.RecorderPort); err != nil {
		return err
	}
	if err := s.setIntFromString("discovery-port", os.Getenv("WINGSYNC_DISCOVERY_PORT"), &cfg.DiscoveryPort); err != nil {
		return err
	}

	if err := s.setDuration("discovery-timeout", os.Getenv("WINGSYNC_DISCOVERY_TIMEOUT"), &cfg.DiscoveryTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("WINGSYNC_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	return s.setDuration("deadline", os.Getenv("WINGSYNC_DEADLINE"), &cfg.Deadline)
}
