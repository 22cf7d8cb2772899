package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/julianstephens/sleeplit/internal/storage"
)

func TestNamespaced(t *testing.T) {
	if got := namespaced("sleepData"); got != "sleeplit:sleepData" {
		t.Errorf("namespaced() = %q", got)
	}
}

func TestIsConnString(t *testing.T) {
	tests := map[string]bool{
		"redis://localhost:6379/0": true,
		"rediss://cache:6380":      true,
		"postgres://x@y/z":         false,
		"/home/me/sleeplit.db":     false,
	}
	for dsn, want := range tests {
		if got := IsConnString(dsn); got != want {
			t.Errorf("IsConnString(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestLocationHidesPassword(t *testing.T) {
	s := New("redis://:secret@localhost:6379/2")
	if got := s.Location(); got != "redis://localhost:6379" {
		t.Errorf("Location() = %q", got)
	}
}

func TestInitRejectsBadURL(t *testing.T) {
	s := New("http://not-redis")
	if err := s.Init(context.Background()); err == nil {
		t.Error("Init() with non-redis url should fail")
	}
}

func TestStoreIntegration(t *testing.T) {
	url := os.Getenv("SLEEPLIT_TEST_REDIS")
	if url == "" {
		t.Skip("SLEEPLIT_TEST_REDIS not set")
	}

	ctx := context.Background()
	s := New(url)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer s.Close()

	if err := s.Delete(ctx, "integration"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "integration"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "integration", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "integration")
	if err != nil || got != "v1" {
		t.Errorf("Get() = %q, %v", got, err)
	}
	_ = s.Delete(ctx, "integration")
}
