package hal

import "testing"

func TestDebouncerIgnoresGlitches(t *testing.T) {
	d := NewDebouncer()

	// A one-sample spike must not register.
	d.Sample(0x01)
	d.Sample(0x00)
	d.Sample(0x00)
	d.Sample(0x00)
	if got := d.Pressed(0xFF); got != 0 {
		t.Fatalf("expected no press from a glitch, got %#02x", got)
	}
}

func TestDebouncerDetectsStablePress(t *testing.T) {
	d := NewDebouncer()

	for i := 0; i < 4; i++ {
		d.Sample(0x02)
	}
	if got := d.Pressed(0x02); got != 0x02 {
		t.Fatalf("expected a press on line 1, got %#02x", got)
	}
	// The edge is consumed; the held key does not repeat.
	d.Sample(0x02)
	if got := d.Pressed(0x02); got != 0 {
		t.Fatalf("expected no repeat while held, got %#02x", got)
	}
}

func TestDebouncerDetectsRelease(t *testing.T) {
	d := NewDebouncer()

	for i := 0; i < 4; i++ {
		d.Sample(0x01)
	}
	d.Pressed(0xFF)
	for i := 0; i < 4; i++ {
		d.Sample(0x00)
	}
	if d.State()&0x01 != 0 {
		t.Fatal("expected the line released after four clear samples")
	}

	// A fresh press after release is a new edge.
	for i := 0; i < 4; i++ {
		d.Sample(0x01)
	}
	if got := d.Pressed(0x01); got != 0x01 {
		t.Fatalf("expected a second press edge, got %#02x", got)
	}
}
