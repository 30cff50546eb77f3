package config

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Data.ProfilesDir != "./data/profiles" {
		t.Errorf("profiles_dir = %q", cfg.Data.ProfilesDir)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Kometa.Branch != "master" || cfg.Kometa.Python != "python3" {
		t.Errorf("kometa = %+v", cfg.Kometa)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9123
logging:
  level: debug
kometa:
  branch: nightly
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9123 {
		t.Errorf("port = %d, want 9123", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Kometa.Branch != "nightly" {
		t.Errorf("branch = %q, want nightly", cfg.Kometa.Branch)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KOMETAWIZARD_SERVER_PORT", "9999")
	t.Setenv("KOMETAWIZARD_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999 from env", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn from env", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestAddress(t *testing.T) {
	sc := ServerConfig{Host: "127.0.0.1", Port: 8090}
	if got := sc.Address(); got != "127.0.0.1:8090" {
		t.Errorf("Address() = %q", got)
	}
}

func TestResolvePortFallsBackWhenBusy(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	busyPort := ln.Addr().(*net.TCPAddr).Port

	sc := ServerConfig{Host: "127.0.0.1", Port: busyPort}
	port, err := sc.ResolvePort()
	if err != nil {
		t.Fatalf("ResolvePort: %v", err)
	}
	if port == busyPort {
		t.Error("ResolvePort returned the busy port")
	}
	if port <= 0 {
		t.Errorf("ResolvePort = %d", port)
	}
}

func TestResolvePortKeepsFreePort(t *testing.T) {
	// Grab a free port, release it, then ask ResolvePort for it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	freePort := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	sc := ServerConfig{Host: "127.0.0.1", Port: freePort}
	port, err := sc.ResolvePort()
	if err != nil {
		t.Fatalf("ResolvePort: %v", err)
	}
	if port != freePort {
		t.Errorf("ResolvePort = %d, want %d", port, freePort)
	}
}
