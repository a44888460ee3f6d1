package board

// DefaultName is used for output files when the board has no name
const DefaultName = "board"

// FileName returns the board name, or fallback if it is unset
func (b *Board) FileName(fallback string) string {
	if b.Name != "" {
		return b.Name
	}
	if fallback == "" {
		return DefaultName
	}
	return fallback
}

// ComponentIndex returns the index of the first component with the given
// name. Later components with the same name are never returned.
func (b *Board) ComponentIndex(name string) (int, bool) {
	for i := 0; i < b.Components.Len(); i++ {
		if b.Components.Ref(i).Name == name {
			return i, true
		}
	}
	return -1, false
}

// LookupComponent resolves a component by name (first match)
func (b *Board) LookupComponent(name string) (*Component, bool) {
	i, ok := b.ComponentIndex(name)
	if !ok {
		return nil, false
	}
	return b.Components.Ref(i), true
}

// PlacementIndex returns the index of the first placement with the given
// reference designator
func (b *Board) PlacementIndex(ref string) (int, bool) {
	for i := 0; i < b.Placements.Len(); i++ {
		if b.Placements.Ref(i).Ref == ref {
			return i, true
		}
	}
	return -1, false
}

// UnresolvedPlacements returns placements whose component name does not
// match any component on the board
func (b *Board) UnresolvedPlacements() []Placement {
	var out []Placement
	for _, p := range b.Placements.All() {
		if _, ok := b.ComponentIndex(p.ComponentName); !ok {
			out = append(out, p)
		}
	}
	return out
}

// DanglingConnections returns net connections whose instance is not a
// placed reference designator, keyed by net name
func (b *Board) DanglingConnections() map[string][]PinReference {
	out := make(map[string][]PinReference)
	for _, n := range b.Nets.All() {
		for _, ref := range n.Connections.All() {
			if _, ok := b.PlacementIndex(ref.Instance); !ok {
				out[n.Name] = append(out[n.Name], ref)
			}
		}
	}
	return out
}

// PinPositions lays out pinCount pins along +X at PinPitch, starting at
// the placement position. Real footprint geometry is not modeled.
func PinPositions(p Placement, pinCount int) []Point {
	points := make([]Point, pinCount)
	for j := range points {
		// Explicit conversion keeps the multiply from being fused into an FMA
		offset := float64(float64(j) * PinPitch)
		points[j] = Point{X: p.Position.X + offset, Y: p.Position.Y}
	}
	return points
}
