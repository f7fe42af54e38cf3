package strata

import (
	"iter"
	"math/bits"
)

const (
	pageWordShift = 4
	// pageWordCount words of 64 bits: 1024 slots per page.
	pageWordCount = 1 << pageWordShift
	pageShift     = pageWordShift + maskShift

	// PageSize is the number of slots in one Page.
	PageSize = 1 << pageShift
	pageLow  = PageSize - 1
)

// Page is a fixed-capacity block pairing a presence bitmap with a dense value
// slice; it is the atomic unit of column storage. A slot's value is meaningful
// iff its presence bit is set; removal resets the slot to the zero value.
//
// Pages are created lazily by a Table on first write to their index range and
// are never shared between tables.
type Page[T any] struct {
	bits   BitArray
	values []T
}

// newPage returns a zero-filled page. The values live in a slice rather than
// an array so large component types don't blow up the stack during
// construction.
func newPage[T any]() *Page[T] {
	return &Page[T]{values: make([]T, PageSize)}
}

// Len returns the number of present values.
func (p *Page[T]) Len() int {
	return p.bits.Count()
}

// IsEmpty reports whether no values are present.
func (p *Page[T]) IsEmpty() bool {
	return p.bits.IsEmpty()
}

// Contains reports whether slot i holds a value.
func (p *Page[T]) Contains(i int) bool {
	return p.bits.Get(i)
}

// Word returns the w-th presence word.
func (p *Page[T]) Word(w int) uint64 {
	return p.bits.Word(w)
}

// Get returns the value at slot i. Calling Get on an absent slot is a
// contract violation and panics; use TryGet when absence is expected.
func (p *Page[T]) Get(i int) *T {
	if !p.bits.Get(i) {
		panic("strata: page slot is not present")
	}

	return &p.values[i]
}

// TryGet returns the value at slot i, or nil if the slot is absent.
func (p *Page[T]) TryGet(i int) *T {
	if !p.bits.Get(i) {
		return nil
	}

	return &p.values[i]
}

// Add stores value at slot i, overwriting any existing value.
func (p *Page[T]) Add(i int, value T) {
	p.bits.Add(i)
	p.values[i] = value
}

// TryAdd stores value at slot i only if the slot is absent, reporting whether
// it was added.
func (p *Page[T]) TryAdd(i int, value T) bool {
	if !p.bits.Add(i) {
		return false
	}
	p.values[i] = value

	return true
}

// GetOrAdd returns the value at slot i, marking the slot present with the
// zero value first if it was absent.
func (p *Page[T]) GetOrAdd(i int) *T {
	p.bits.Add(i)

	return &p.values[i]
}

// Remove clears slot i, resets it to the zero value, and returns the prior
// value if one was present.
func (p *Page[T]) Remove(i int) (T, bool) {
	var zero T
	if !p.bits.Remove(i) {
		return zero, false
	}
	prior := p.values[i]
	p.values[i] = zero

	return prior, true
}

// RemoveMask clears every bit of mask within presence word w, resets the
// vacated slots, and returns the bits that were removed.
func (p *Page[T]) RemoveMask(w int, mask uint64) uint64 {
	removed := p.bits.ClearWord(w, mask)
	if removed == 0 {
		return 0
	}

	var zero T
	base := w << maskShift
	for m := removed; m != 0; m &= m - 1 {
		p.values[base+bits.TrailingZeros64(m)] = zero
	}

	return removed
}

// RemoveWords performs bulk removal driven by an externally supplied bitmap,
// clearing in this page exactly the slots flagged in words.
func (p *Page[T]) RemoveWords(words []uint64) {
	n := min(len(words), pageWordCount)
	for w := 0; w < n; w++ {
		p.RemoveMask(w, words[w])
	}
}

// Clear removes all values, resetting every slot to the zero value.
func (p *Page[T]) Clear() {
	p.bits.Clear()
	var zero T
	for i := range p.values {
		p.values[i] = zero
	}
}

// All returns an iterator over the present values in slot order. Zero
// presence words are skipped with a single trailing-zero jump, so iteration
// costs O(set bits + zero words) rather than O(slots). The iterator allocates
// nothing per element; yielded pointers alias page storage and may be written
// through.
func (p *Page[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for w := 0; w < pageWordCount; w++ {
			base := w << maskShift
			for m := p.bits[w]; m != 0; m &= m - 1 {
				if !yield(&p.values[base+bits.TrailingZeros64(m)]) {
					return
				}
			}
		}
	}
}
