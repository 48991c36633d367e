package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LocalPort != 8000 {
		t.Errorf("LocalPort = %v, want 8000", cfg.LocalPort)
	}
	if cfg.ConsolePort != 2223 || cfg.RecorderPort != 3819 || cfg.DiscoveryPort != 2222 {
		t.Errorf("ports = %d/%d/%d", cfg.ConsolePort, cfg.RecorderPort, cfg.DiscoveryPort)
	}
	if cfg.PollInterval != 100*time.Millisecond || cfg.Deadline != 2*time.Second {
		t.Errorf("timings = %v/%v", cfg.PollInterval, cfg.Deadline)
	}
	if cfg.DiscoveryTimeout != 2*time.Second {
		t.Errorf("DiscoveryTimeout = %v, want 2s", cfg.DiscoveryTimeout)
	}
}

func TestConfig_ValidateTransfer(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Console = "192.168.1.20"
		cfg.Recorder = "192.168.1.30"
		return cfg
	}
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		wantGroup string
	}{
		{name: "valid", mutate: func(*Config) {}, wantGroup: "USB"},
		{name: "group is normalized", mutate: func(c *Config) { c.Group = " mod " }, wantGroup: "MOD"},
		{name: "missing console", mutate: func(c *Config) { c.Console = "" }, wantErr: true},
		{name: "missing recorder", mutate: func(c *Config) { c.Recorder = "" }, wantErr: true},
		{name: "missing group", mutate: func(c *Config) { c.Group = "" }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.ConsolePort = 70000 }, wantErr: true},
		{name: "zero deadline", mutate: func(c *Config) { c.Deadline = 0 }, wantErr: true},
		{name: "negative poll", mutate: func(c *Config) { c.PollInterval = -1 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.ValidateTransfer()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTransfer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Group != tt.wantGroup {
				t.Errorf("Group = %q, want %q", cfg.Group, tt.wantGroup)
			}
		})
	}
}

func TestApplyFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
console = "10.0.0.5"
recorder = "10.0.0.6"
group = "CRD"
local_port = 9100
deadline = "3s"
poll_interval = "50ms"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Console = "from-flag"
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{"console": true}); err != nil {
		t.Fatal(err)
	}
	if cfg.Console != "from-flag" {
		t.Errorf("Console = %q, flag should win", cfg.Console)
	}
	if cfg.Recorder != "10.0.0.6" || cfg.Group != "CRD" || cfg.LocalPort != 9100 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Deadline != 3*time.Second || cfg.PollInterval != 50*time.Millisecond {
		t.Errorf("timings = %v/%v", cfg.Deadline, cfg.PollInterval)
	}
	if cfg.ConsolePort != 2223 {
		t.Errorf("ConsolePort = %d, unset keys must keep defaults", cfg.ConsolePort)
	}
}

func TestApplyFileConfigZeroPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("local_port = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatal(err)
	}
	if cfg.LocalPort != 0 {
		t.Errorf("LocalPort = %d, want 0 (free port)", cfg.LocalPort)
	}
	if cfg.ConsolePort != 2223 {
		t.Errorf("ConsolePort = %d, missing key must keep default", cfg.ConsolePort)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, FileConfig{Deadline: "soon"}, map[string]bool{}); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies env vars",
			envVars: map[string]string{
				"WINGSYNC_CONSOLE":    "10.0.0.5",
				"WINGSYNC_GROUP":      "MOD",
				"WINGSYNC_LOCAL_PORT": "9001",
				"WINGSYNC_DEADLINE":   "5s",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Console != "10.0.0.5" || cfg.Group != "MOD" || cfg.LocalPort != 9001 || cfg.Deadline != 5*time.Second {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name:    "respects changed flags",
			envVars: map[string]string{"WINGSYNC_RECORDER": "10.0.0.9"},
			changed: map[string]bool{"recorder": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.Recorder != "" {
					t.Errorf("Recorder = %q, flag should win", cfg.Recorder)
				}
			},
		},
		{
			name:    "zero local port selects a free port",
			envVars: map[string]string{"WINGSYNC_LOCAL_PORT": "0"},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.LocalPort != 0 {
					t.Errorf("LocalPort = %d, want 0", cfg.LocalPort)
				}
			},
		},
		{
			name:    "negative port fails validation",
			envVars: map[string]string{"WINGSYNC_CONSOLE_PORT": "-1"},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if err := cfg.Validate(); err == nil {
					t.Error("expected Validate() error for negative port")
				}
			},
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"WINGSYNC_CONSOLE_PORT": "abc"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"WINGSYNC_POLL_INTERVAL": "often"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	if err := SetLogLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if err := SetLogLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLogLevel("info")
}
