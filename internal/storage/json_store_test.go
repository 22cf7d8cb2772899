package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func backendsUnderTest(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"json":   NewJSONFileBackend(filepath.Join(t.TempDir(), "nested", "sleeplit.json")),
	}
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := backend.Init(ctx); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			defer backend.Close()

			if _, err := backend.Get(ctx, "sleepData"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() on empty backend error = %v, want ErrNotFound", err)
			}

			if err := backend.Set(ctx, "sleepData", `{"a":1}`); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := backend.Set(ctx, "sleepData", `{"a":2}`); err != nil {
				t.Fatalf("second Set() error = %v", err)
			}

			got, err := backend.Get(ctx, "sleepData")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != `{"a":2}` {
				t.Errorf("Get() = %q, want overwritten value", got)
			}

			if err := backend.Delete(ctx, "sleepData"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := backend.Get(ctx, "sleepData"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
			}
			if err := backend.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete() of missing key error = %v", err)
			}
		})
	}
}

func TestJSONFileBackendPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sleeplit.json")

	first := NewJSONFileBackend(path)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := first.Set(ctx, "sleepTimer", "x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	second := NewJSONFileBackend(path)
	got, err := second.Get(ctx, "sleepTimer")
	if err != nil || got != "x" {
		t.Errorf("Get() = %q, %v; want x, nil", got, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestJSONFileBackendCorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sleeplit.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	backend := NewJSONFileBackend(path)
	if _, err := backend.Get(ctx, "sleepData"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on corrupt file error = %v, want parse error", err)
	}

	if err := backend.Set(ctx, "sleepData", "fresh"); err != nil {
		t.Fatalf("Set() over corrupt file error = %v", err)
	}
	if got, err := backend.Get(ctx, "sleepData"); err != nil || got != "fresh" {
		t.Errorf("Get() = %q, %v; want fresh, nil", got, err)
	}
}

func TestMemoryBackendSetErr(t *testing.T) {
	m := NewMemoryBackend()
	m.SetErr = errors.New("disk full")
	if err := m.Set(context.Background(), "k", "v"); err == nil {
		t.Error("Set() should return SetErr")
	}
}
