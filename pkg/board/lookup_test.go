package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func addComponent(b *Board, name string, pins int) {
	c := NewComponent(name)
	for i := 0; i < pins; i++ {
		c.AddPin(Pin{Number: i + 1})
	}
	b.AddComponent(c)
}

func TestLookupComponentFirstMatch(t *testing.T) {
	b := New()
	addComponent(b, "X", 2)
	addComponent(b, "Y", 1)
	addComponent(b, "X", 5)

	c, ok := b.LookupComponent("X")
	if !ok {
		t.Fatal("LookupComponent(X) not found")
	}
	if c.Pins.Len() != 2 {
		t.Errorf("LookupComponent(X) pins = %d, want 2 (first definition)", c.Pins.Len())
	}

	if idx, _ := b.ComponentIndex("X"); idx != 0 {
		t.Errorf("ComponentIndex(X) = %d, want 0", idx)
	}
	if idx, _ := b.ComponentIndex("Y"); idx != 1 {
		t.Errorf("ComponentIndex(Y) = %d, want 1", idx)
	}
	if _, ok := b.ComponentIndex("Z"); ok {
		t.Error("ComponentIndex(Z) found, want missing")
	}
	if b.Components.Len() != 3 {
		t.Errorf("duplicate was not stored: len = %d", b.Components.Len())
	}
}

func TestUnresolvedAndDangling(t *testing.T) {
	b := New()
	addComponent(b, "R", 2)

	for _, pl := range []struct{ ref, comp string }{{"R1", "R"}, {"U1", "MCU"}} {
		p := NewPlacement()
		p.Ref = pl.ref
		p.ComponentName = pl.comp
		b.AddPlacement(p)
	}

	n := NewNet("GND")
	n.AddConnection(PinReference{Instance: "R1", PinName: "2", PinNumber: 2})
	n.AddConnection(PinReference{Instance: "J9", PinName: "1", PinNumber: 1})
	b.AddNet(n)

	unresolved := b.UnresolvedPlacements()
	if len(unresolved) != 1 || unresolved[0].Ref != "U1" {
		t.Errorf("UnresolvedPlacements() = %+v, want [U1]", unresolved)
	}

	want := map[string][]PinReference{
		"GND": {{Instance: "J9", PinName: "1", PinNumber: 1}},
	}
	if diff := cmp.Diff(want, b.DanglingConnections()); diff != "" {
		t.Errorf("DanglingConnections() mismatch (-want +got):\n%s", diff)
	}
}

func TestPinPositions(t *testing.T) {
	p := Placement{Position: Point{X: 1, Y: 1}}

	got := PinPositions(p, 3)
	want := []Point{{1, 1}, {1 + 2.54, 1}, {1 + 5.08, 1}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("PinPositions() mismatch (-want +got):\n%s", diff)
	}

	if len(PinPositions(p, 0)) != 0 {
		t.Error("PinPositions(0) not empty")
	}
}

func TestFileName(t *testing.T) {
	b := New()
	if got := b.FileName(""); got != "board" {
		t.Errorf("FileName(\"\") = %q, want board", got)
	}
	if got := b.FileName("panel"); got != "panel" {
		t.Errorf("FileName(panel) = %q, want panel", got)
	}
	b.Name = "test"
	if got := b.FileName("panel"); got != "test" {
		t.Errorf("FileName() = %q, want test", got)
	}
}
