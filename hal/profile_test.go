//go:build !tinygo

package hal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.yaml")
	data := []byte("display:\n  width: 96\n  height: 64\nsched_tick_ms: 20\nkeys:\n  rotate: w\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Display.Width != 96 || p.Display.Height != 64 {
		t.Fatalf("expected 96x64, got %dx%d", p.Display.Width, p.Display.Height)
	}
	if p.SchedTickMillis != 20 {
		t.Fatalf("expected sched tick 20, got %d", p.SchedTickMillis)
	}
	// Untouched fields keep their defaults.
	if p.AppTickMillis != 4 {
		t.Fatalf("expected default app tick, got %d", p.AppTickMillis)
	}
	if p.Keys.Rotate != "w" || p.Keys.Drop != "down" {
		t.Fatalf("unexpected keys: %+v", p.Keys)
	}
}

func TestLoadProfileRejectsBadGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.yaml")
	if err := os.WriteFile(path, []byte("display:\n  width: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatal("expected an error for a negative width")
	}
}
