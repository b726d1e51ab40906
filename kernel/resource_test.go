package kernel

import "testing"

func TestResourcesRoundTrip(t *testing.T) {
	const r = ResourceMask(0x06)
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1, RequiredResources: r},
	}, nil)
	tick(k)
	tc := taskContextFor(k, 1)

	before := k.OccupiedResources()
	tc.GetResources(r)
	if got := k.OccupiedResources() & r; got != r {
		t.Fatalf("expected %#02x occupied, got %#02x", r, got)
	}
	tc.ReleaseResources(r)
	if got := k.OccupiedResources(); got != before {
		t.Fatalf("get+release must leave the bitmap unchanged, got %#02x", got)
	}
	if got := k.OccupiedResources() & r; got != 0 {
		t.Fatalf("expected %#02x free after release, got %#02x", r, got)
	}
}

func TestGetResourcesNeverBlocksOrForces(t *testing.T) {
	k, p := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)
	tick(k)
	tc := taskContextFor(k, 1)

	tc.GetResources(0x01)
	tc.GetResources(0x02) // nested, strictly bracketed
	if p.forced.Load() != 0 {
		t.Fatal("acquisition must not trigger scheduling")
	}
	tc.ReleaseResources(0x02)
	tc.ReleaseResources(0x01)
	if got := p.forced.Load(); got != 2 {
		t.Fatalf("expected one forced reschedule per release, got %d", got)
	}
}
