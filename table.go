package strata

import (
	"iter"
	"math/bits"
)

// Writer is the minimal mutation contract shared by Table and the prediction
// layer's writer, letting replication records apply to either destination.
type Writer[T any] interface {
	// Add stores value for id, overwriting any existing value.
	Add(id ID, value T)
	// Remove clears the value for id, reporting whether one was present.
	Remove(id ID) bool
}

// Table is a growable sparse column of pages for one component type, addressed
// by entity index. Untouched index ranges are represented by nil page entries,
// avoiding upfront allocation; a page materializes on first write to its
// range. Contains(id) is true iff the page exists and its presence bit is set.
//
// A Table never stores generations; callers combine Table membership with
// their own ID generation checks where staleness detection matters.
//
// Tables are single-writer, synchronous structures: one exclusive mutator per
// simulation step, with cross-system serialization left to the caller.
type Table[T any] struct {
	pages []*Page[T]
}

var _ Writer[int] = (*Table[int])(nil)

// NewTable returns an empty table. The zero value is also ready to use.
func NewTable[T any]() *Table[T] {
	return &Table[T]{}
}

// slot splits an entity id into its page index and in-page slot.
func slot(id ID) (int, int) {
	i := id.Index()

	return i >> pageShift, i & pageLow
}

// Len returns the number of present values across all pages.
func (t *Table[T]) Len() int {
	total := 0
	for _, p := range t.pages {
		if p != nil {
			total += p.Len()
		}
	}

	return total
}

// IsEmpty reports whether the table holds no values.
func (t *Table[T]) IsEmpty() bool {
	for _, p := range t.pages {
		if p != nil && !p.IsEmpty() {
			return false
		}
	}

	return true
}

// PageCount returns the length of the backing page sequence, including nil
// entries.
func (t *Table[T]) PageCount() int {
	return len(t.pages)
}

// TryPage returns page i, or nil if the range is untouched.
func (t *Table[T]) TryPage(i int) *Page[T] {
	if i >= len(t.pages) {
		return nil
	}

	return t.pages[i]
}

// AddPage grows the backing sequence with nil entries as needed and
// materializes page i on first use.
func (t *Table[T]) AddPage(i int) *Page[T] {
	for len(t.pages) <= i {
		t.pages = append(t.pages, nil)
	}
	if t.pages[i] == nil {
		t.pages[i] = newPage[T]()
	}

	return t.pages[i]
}

// RemovePage drops page i entirely, reporting whether one was present.
func (t *Table[T]) RemovePage(i int) bool {
	if i >= len(t.pages) || t.pages[i] == nil {
		return false
	}
	t.pages[i] = nil

	return true
}

// Contains reports whether id has a value.
func (t *Table[T]) Contains(id ID) bool {
	pi, si := slot(id)
	p := t.TryPage(pi)

	return p != nil && p.Contains(si)
}

// Get returns the value for id. Calling Get when the value is known absent is
// a contract violation and panics; use TryGet when absence is expected.
func (t *Table[T]) Get(id ID) *T {
	pi, si := slot(id)
	p := t.TryPage(pi)
	if p == nil {
		panic("strata: table value is not present")
	}

	return p.Get(si)
}

// TryGet returns the value for id, or nil if absent. Absence of a component
// on an entity is a normal state, not an error.
func (t *Table[T]) TryGet(id ID) *T {
	pi, si := slot(id)
	p := t.TryPage(pi)
	if p == nil {
		return nil
	}

	return p.TryGet(si)
}

// Add stores value for id, overwriting any existing value.
func (t *Table[T]) Add(id ID, value T) {
	pi, si := slot(id)
	t.AddPage(pi).Add(si, value)
}

// TryAdd stores value for id only if absent, reporting whether it was added.
func (t *Table[T]) TryAdd(id ID, value T) bool {
	pi, si := slot(id)

	return t.AddPage(pi).TryAdd(si, value)
}

// GetOrAdd returns the value for id, inserting the zero value first if absent.
func (t *Table[T]) GetOrAdd(id ID) *T {
	pi, si := slot(id)

	return t.AddPage(pi).GetOrAdd(si)
}

// Remove clears the value for id, reporting whether one was present.
func (t *Table[T]) Remove(id ID) bool {
	pi, si := slot(id)
	p := t.TryPage(pi)
	if p == nil {
		return false
	}
	_, removed := p.Remove(si)

	return removed
}

// Set stores value for id when non-nil and removes the entry otherwise.
func (t *Table[T]) Set(id ID, value *T) {
	if value != nil {
		t.Add(id, *value)
	} else {
		t.Remove(id)
	}
}

// MoveValue transfers the value stored under from to to, reporting whether a
// value was moved. Any value already stored under to is overwritten.
func (t *Table[T]) MoveValue(from, to ID) bool {
	v := t.TryGet(from)
	if v == nil {
		return false
	}
	moved := *v
	t.Remove(from)
	t.Add(to, moved)

	return true
}

// Clear drops all pages.
func (t *Table[T]) Clear() {
	t.pages = t.pages[:0]
}

// ClearPages empties each materialized page but keeps it allocated.
func (t *Table[T]) ClearPages() {
	for _, p := range t.pages {
		if p != nil {
			p.Clear()
		}
	}
}

// All returns an iterator over the present values in ascending index order.
// Untouched pages and zero presence words are skipped in O(1); the iterator
// allocates nothing per element. Yielded pointers alias table storage and may
// be written through.
func (t *Table[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, p := range t.pages {
			if p == nil {
				continue
			}
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
}

// RemoveJoin walks dst and src page by page and removes, within each of dst's
// pages, exactly the slots flagged present in the corresponding page of src.
// Pages absent on either side are skipped with no effect. This is how a
// "destroyed" marker column cascades removal across every component column
// without scanning absent ranges.
func RemoveJoin[T, U any](dst *Table[T], src *Table[U]) {
	n := min(len(dst.pages), len(src.pages))
	for pi := 0; pi < n; pi++ {
		dp, sp := dst.pages[pi], src.pages[pi]
		if dp == nil || sp == nil {
			continue
		}
		for w := 0; w < pageWordCount; w++ {
			dp.RemoveMask(w, sp.bits[w])
		}
	}
}
