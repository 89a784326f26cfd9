package stash

import "testing"

func TestShelfPacker_Basic(t *testing.T) {
	p := newShelfPacker(100, 100)

	x, y, ok := p.allocate(20, 20)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("first allocate = (%d,%d,%v), want (0,0,true)", x, y, ok)
	}
	x, y, ok = p.allocate(20, 10)
	if !ok || x != 20 || y != 0 {
		t.Errorf("second allocate = (%d,%d,%v), want (20,0,true)", x, y, ok)
	}
}

func TestShelfPacker_NewShelf(t *testing.T) {
	p := newShelfPacker(50, 100)

	p.allocate(20, 20)
	p.allocate(20, 20)
	x, y, ok := p.allocate(20, 20)
	if !ok {
		t.Fatal("third allocate failed")
	}
	if x != 0 || y != 20 {
		t.Errorf("third allocate = (%d,%d), want (0,20)", x, y)
	}
	if p.bottom() != 40 {
		t.Errorf("bottom() = %d, want 40", p.bottom())
	}
}

func TestShelfPacker_LastShelfGrowsTaller(t *testing.T) {
	p := newShelfPacker(100, 100)
	p.allocate(10, 10)
	x, y, ok := p.allocate(10, 30)
	if !ok || x != 10 || y != 0 {
		t.Errorf("taller allocate = (%d,%d,%v), want (10,0,true)", x, y, ok)
	}
	if p.bottom() != 30 {
		t.Errorf("bottom() = %d, want 30", p.bottom())
	}
}

func TestShelfPacker_Full(t *testing.T) {
	p := newShelfPacker(40, 40)
	count := 0
	for {
		if _, _, ok := p.allocate(20, 20); !ok {
			break
		}
		count++
		if count > 100 {
			t.Fatal("packer never filled up")
		}
	}
	if count != 4 {
		t.Errorf("allocations = %d, want 4", count)
	}
	if p.utilization() != 1 {
		t.Errorf("utilization() = %v, want 1", p.utilization())
	}
}

func TestShelfPacker_TooLarge(t *testing.T) {
	p := newShelfPacker(16, 16)
	if _, _, ok := p.allocate(17, 1); ok {
		t.Error("allocate wider than atlas succeeded")
	}
	if _, _, ok := p.allocate(1, 17); ok {
		t.Error("allocate taller than atlas succeeded")
	}
}

func TestShelfPacker_GrowKeepsPlacements(t *testing.T) {
	p := newShelfPacker(40, 40)
	for i := 0; i < 4; i++ {
		p.allocate(20, 20)
	}
	if _, _, ok := p.allocate(20, 20); ok {
		t.Fatal("expected full packer")
	}

	p.grow(80, 80)
	x, y, ok := p.allocate(20, 20)
	if !ok {
		t.Fatal("allocate after grow failed")
	}
	if x != 40 || y != 0 {
		t.Errorf("allocate after grow = (%d,%d), want (40,0)", x, y)
	}

	p.grow(10, 10)
	if p.width != 80 || p.height != 80 {
		t.Errorf("grow shrank packer to %dx%d", p.width, p.height)
	}
}

func TestShelfPacker_Reset(t *testing.T) {
	p := newShelfPacker(40, 40)
	p.allocate(20, 20)
	p.reset(64, 32)
	if len(p.shelves) != 0 || p.utilization() != 0 {
		t.Error("reset left placements behind")
	}
	if p.width != 64 || p.height != 32 {
		t.Errorf("reset size = %dx%d, want 64x32", p.width, p.height)
	}
}
