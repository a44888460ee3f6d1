package board

import "iter"

// Initial capacities for the board collections
const (
	DefaultCapacity  = 10 // components, placements, nets, net connections
	FirstPinCapacity = 4  // first allocation of a component's pin list
	growthFactor     = 2
)

// Seq is an owned, insertion-ordered sequence that grows by doubling its
// capacity. Append is the only mutation.
type Seq[T any] struct {
	items []T
}

// NewSeq creates an empty sequence with the given backing capacity
func NewSeq[T any](capacity int) Seq[T] {
	if capacity <= 0 {
		return Seq[T]{}
	}
	return Seq[T]{items: make([]T, 0, capacity)}
}

// Append copies v to the end of the sequence and returns its index.
// A full sequence is reallocated at twice its capacity (FirstPinCapacity
// when it has none), so pointers from Ref must be re-fetched afterwards.
func (s *Seq[T]) Append(v T) int {
	return s.appendMin(v, FirstPinCapacity)
}

// appendMin is Append with the first allocation sized to minCap
func (s *Seq[T]) appendMin(v T, minCap int) int {
	if len(s.items) == cap(s.items) {
		s.grow(minCap)
	}
	s.items = append(s.items, v)
	return len(s.items) - 1
}

func (s *Seq[T]) grow(minCap int) {
	newCap := cap(s.items) * growthFactor
	if newCap == 0 {
		newCap = minCap
	}
	items := make([]T, len(s.items), newCap)
	copy(items, s.items)
	s.items = items
}

// Len returns the number of elements
func (s *Seq[T]) Len() int {
	return len(s.items)
}

// Cap returns the current backing capacity
func (s *Seq[T]) Cap() int {
	return cap(s.items)
}

// At returns a copy of the element at index i. Sequences nested in the
// copy are clipped, so appending to them reallocates instead of writing
// into the stored element's spare capacity.
func (s *Seq[T]) At(i int) T {
	return detach(s.items[i])
}

// Ref returns a pointer to the element at index i. It is valid until the
// next Append.
func (s *Seq[T]) Ref(i int) *T {
	return &s.items[i]
}

// All iterates over index/value pairs in insertion order. Values are
// copies, as with At.
func (s *Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.items {
			if !yield(i, detach(v)) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements, as with At
func (s *Seq[T]) Slice() []T {
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[i] = detach(v)
	}
	return out
}

// clip drops spare capacity from the view without copying
func (s *Seq[T]) clip() {
	s.items = s.items[:len(s.items):len(s.items)]
}

// nested is implemented by elements that own sequences of their own
type nested interface {
	clip()
}

func detach[T any](v T) T {
	if n, ok := any(&v).(nested); ok {
		n.clip()
	}
	return v
}

func (s *Seq[T]) reset() {
	clear(s.items)
	s.items = nil
}
