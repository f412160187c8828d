package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")

	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := fs.Set(KeyTotalInvestment, "150000"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := fs.Set(KeyTotalInvestment, "200000"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh store over the same file sees the last write.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	value, ok, err := reopened.Get(KeyTotalInvestment)
	if err != nil || !ok || value != "200000" {
		t.Errorf("Get = %q, %v, %v; want 200000", value, ok, err)
	}

	if _, ok, _ := reopened.Get("missing"); ok {
		t.Error("missing key reported as present")
	}
}

func TestOpenFallsBackToMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	if err := os.WriteFile(path, []byte("[not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}

	st := Open(path, log.New(os.Stderr))
	if _, ok := st.(*MemStore); !ok {
		t.Fatalf("expected in-memory fallback, got %T", st)
	}

	// The fallback still honours the contract.
	if err := st.Set("k", "v"); err != nil {
		t.Fatalf("Set on fallback failed: %v", err)
	}
	if value, ok, _ := st.Get("k"); !ok || value != "v" {
		t.Errorf("Get = %q, %v", value, ok)
	}
}
