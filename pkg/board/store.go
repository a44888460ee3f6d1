package board

// New creates an empty two-layer board with pre-sized collections
func New() *Board {
	return &Board{
		Layers:     DefaultLayers,
		Components: NewSeq[Component](DefaultCapacity),
		Placements: NewSeq[Placement](DefaultCapacity),
		Nets:       NewSeq[Net](DefaultCapacity),
	}
}

// NewComponent creates a component with no pins
func NewComponent(name string) *Component {
	return &Component{Name: name}
}

// NewPlacement creates a top-side placement at the origin
func NewPlacement() *Placement {
	return &Placement{TopSide: true}
}

// NewNet creates a net with room for DefaultCapacity connections
func NewNet(name string) *Net {
	return &Net{
		Name:        name,
		Connections: NewSeq[PinReference](DefaultCapacity),
	}
}

// AddComponent moves c into the board and returns its index. c is reset to
// its zero value; the stored copy is the only owner of its pins.
func (b *Board) AddComponent(c *Component) int {
	i := b.Components.appendMin(*c, DefaultCapacity)
	*c = Component{}
	return i
}

// AddPlacement moves p into the board and returns its index. p is reset to
// its zero value.
func (b *Board) AddPlacement(p *Placement) int {
	i := b.Placements.appendMin(*p, DefaultCapacity)
	*p = Placement{}
	return i
}

// AddNet moves n into the board and returns its index. n is reset to its
// zero value; the stored copy is the only owner of its connections.
func (b *Board) AddNet(n *Net) int {
	i := b.Nets.appendMin(*n, DefaultCapacity)
	*n = Net{}
	return i
}

// AddPin appends a pin to the component and returns its ordinal
func (c *Component) AddPin(p Pin) int {
	return c.Pins.Append(p)
}

// AddConnection appends a pin reference to the net. A net without
// connections allocates DefaultCapacity on the first one.
func (n *Net) AddConnection(ref PinReference) int {
	return n.Connections.appendMin(ref, DefaultCapacity)
}

func (c *Component) clip() {
	c.Pins.clip()
}

func (n *Net) clip() {
	n.Connections.clip()
}

// Release drops every collection the board owns, nested ones included.
// It is safe to call on a nil board. The board must not be used afterwards.
func (b *Board) Release() {
	if b == nil {
		return
	}

	for i := 0; i < b.Components.Len(); i++ {
		b.Components.Ref(i).Pins.reset()
	}
	b.Components.reset()
	b.Placements.reset()

	for i := 0; i < b.Nets.Len(); i++ {
		b.Nets.Ref(i).Connections.reset()
	}
	b.Nets.reset()

	*b = Board{}
}
