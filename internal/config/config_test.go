package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_AppliesDefaultsAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
server:
  port: 9090
catalog:
  source: ./testdata/products.json
storage:
  driver: redis
assistant:
  url: http://127.0.0.1:9999/
chat:
  char_delay: 0
`)
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Fatalf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Storage.Driver != "redis" {
		t.Fatalf("expected redis driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Assistant.URL != "http://127.0.0.1:9999/" || cfg.Assistant.MaxRequestsPerSecond != 5 {
		t.Fatalf("unexpected assistant config: %+v", cfg.Assistant)
	}
	if cfg.Chat.CharDelay != 0 {
		t.Fatalf("expected char delay override 0, got %d", cfg.Chat.CharDelay)
	}
	if cfg.Chat.DotSteps != 20 || cfg.Chat.DotDelayDuration().Milliseconds() != 100 {
		t.Fatalf("unexpected dot defaults: %+v", cfg.Chat)
	}
	if cfg.Chat.SessionTTLDuration().Minutes() != 30 {
		t.Fatalf("expected 30m session ttl, got %v", cfg.Chat.SessionTTLDuration())
	}
}

func TestLoadFile_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("redis:\n  host: file-host\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REDIS_HOST", "env-host")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Redis.Host != "env-host" {
		t.Fatalf("expected env override, got %q", cfg.Redis.Host)
	}
	if cfg.Redis.Addr() != "env-host:6379" {
		t.Fatalf("unexpected addr %q", cfg.Redis.Addr())
	}
}

func TestLoadFile_DefaultsPersistSelectionsInRedis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8081\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Storage.Driver != "redis" {
		t.Fatalf("expected redis storage by default, got %q", cfg.Storage.Driver)
	}
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestConfigureLogging(t *testing.T) {
	if err := ConfigureLogging(LogConfig{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("ConfigureLogging: %v", err)
	}
	if err := ConfigureLogging(LogConfig{Level: "loud", Format: "text"}); err == nil {
		t.Fatalf("expected invalid level error")
	}
	if err := ConfigureLogging(LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected invalid format error")
	}
	_ = ConfigureLogging(LogConfig{Level: "info", Format: "text"})
}
