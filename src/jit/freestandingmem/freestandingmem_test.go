package freestandingmem

import "testing"

func TestAllocPageAlignedSplitsFreeBlock(t *testing.T) {
	m := New(make([]byte, 4096*4), 4096)

	b1, err := m.AllocPageAligned(1)
	if err != nil {
		t.Fatalf("AllocPageAligned: %v", err)
	}
	if len(b1) != 4096 {
		t.Fatalf("expected one page, got %d bytes", len(b1))
	}

	b2, err := m.AllocPageAligned(4096 * 2)
	if err != nil {
		t.Fatalf("AllocPageAligned: %v", err)
	}
	if len(b2) != 4096*2 {
		t.Fatalf("expected two pages, got %d bytes", len(b2))
	}

	if &b1[0] == &b2[0] {
		t.Fatalf("expected distinct backing blocks for two live allocations")
	}
}

func TestAllocPageAlignedExhaustsArena(t *testing.T) {
	m := New(make([]byte, 4096), 4096)
	if _, err := m.AllocPageAligned(4096); err != nil {
		t.Fatalf("first allocation should succeed: %v", err)
	}
	if _, err := m.AllocPageAligned(1); err == nil {
		t.Fatalf("expected an error once the arena is exhausted")
	}
}

func TestDeallocReusesBlock(t *testing.T) {
	m := New(make([]byte, 4096), 4096)

	b, err := m.AllocPageAligned(4096)
	if err != nil {
		t.Fatalf("AllocPageAligned: %v", err)
	}
	if err := m.Dealloc(b); err != nil {
		t.Fatalf("Dealloc: %v", err)
	}

	b2, err := m.AllocPageAligned(4096)
	if err != nil {
		t.Fatalf("AllocPageAligned after Dealloc: %v", err)
	}
	if len(b2) != 4096 {
		t.Fatalf("expected the freed page to be reusable, got %d bytes", len(b2))
	}
}

func TestDeallocUnknownBlockIsError(t *testing.T) {
	m := New(make([]byte, 4096), 4096)
	other := make([]byte, 16)
	if err := m.Dealloc(other); err == nil {
		t.Fatalf("expected an error deallocating memory not owned by this arena")
	}
}

func TestProtectionCallsAreNoops(t *testing.T) {
	m := New(make([]byte, 4096), 4096)
	b, _ := m.AllocPageAligned(4096)
	if err := m.SetR(b); err != nil {
		t.Errorf("SetR: %v", err)
	}
	if err := m.SetRW(b); err != nil {
		t.Errorf("SetRW: %v", err)
	}
	if err := m.SetRX(b); err != nil {
		t.Errorf("SetRX: %v", err)
	}
}
