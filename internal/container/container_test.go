package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"beauty/advisor/internal/config"
	"beauty/advisor/internal/queue"
	"beauty/advisor/internal/repository"
	"beauty/advisor/internal/state"

	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	products := filepath.Join(dir, "products.json")
	if err := os.WriteFile(products, []byte(`{"products":[{"name":"A","brand":"B","category":"cleanser","description":"d","image":"i"}]}`), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("catalog:\n  source: "+products+"\nserver:\n  port: 0\nstorage:\n  driver: memory\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return cfg
}

func TestNew_MemoryDriver(t *testing.T) {
	cfg := testConfig(t)
	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, ok := c.Selections.(*state.MemorySelectionStore); !ok {
		t.Fatalf("expected memory selections, got %T", c.Selections)
	}
	if _, ok := c.Publisher.(queue.NoopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", c.Publisher)
	}
	if _, ok := c.Routines.(repository.NoopRoutineRepository); !ok {
		t.Fatalf("expected noop routines, got %T", c.Routines)
	}
	if c.Workers != nil {
		t.Fatalf("workers must be off without the event feed")
	}

	rec := httptest.NewRecorder()
	c.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected page, got %d", rec.Code)
	}
}

func TestNew_RedisStorageAndEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Storage.Driver = "redis"
	cfg.Events.Enabled = true
	cfg.Redis.Host = mr.Host()
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	cfg.Redis.Port = port

	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if c.Workers == nil {
		t.Fatalf("expected event workers")
	}
	if !mr.Exists("routine:stream:SelectionChangedEvent") {
		t.Fatalf("expected event streams to be created")
	}
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "sqlite"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestRun_FailsWhenCatalogMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Source = filepath.Join(t.TempDir(), "missing.json")
	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Run(context.Background()); err == nil {
		t.Fatalf("expected catalog load error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
