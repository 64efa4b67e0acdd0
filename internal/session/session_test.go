package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := store.Get(KeyToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before Set, got %v", err)
	}

	if err := store.Set(KeyToken, "bearer-abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(KeyToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "bearer-abc123" {
		t.Errorf("Get = %q, want %q", got, "bearer-abc123")
	}

	if err := store.Clear(KeyToken); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Get(KeyToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after Clear, got %v", err)
	}
}

func TestFileStoreClearAbsentKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Clear("never-set"); err != nil {
		t.Errorf("clearing an absent key should not error, got %v", err)
	}
}

func TestFileStoreTokenPermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Set(KeyToken, "secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, KeyToken))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	if err := store.Set(KeyOnboardingDismissed, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(KeyOnboardingDismissed)
	if err != nil || got != "true" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := store.Clear(KeyOnboardingDismissed); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Get(KeyOnboardingDismissed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
