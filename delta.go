package strata

import (
	"iter"
	"math/bits"
)

// Unit is the empty component used by marker tables, such as the
// "changed this flush" and "destroyed" columns.
type Unit struct{}

// ModifiedIDs iterates the ids of entities flagged in the any-modified marker
// table, in ascending index order. The id column supplies the full
// generational ids that a bare table index cannot reconstruct.
func ModifiedIDs(ids *Table[ID], anyModified *Table[Unit]) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for id := range Join2(ids, anyModified) {
			if !yield(*id) {
				return
			}
		}
	}
}

// MaskedStream is a compact replication record pairing a BitStream of
// "value present" flags with a dense list of only the present values; absent
// slots contribute no value.
type MaskedStream[T any] struct {
	present BitStream
	values  []T
}

// PresentLen returns the number of set present bits.
func (s *MaskedStream[T]) PresentLen() int {
	return s.present.CountOnes()
}

// ValueLen returns the number of stored values.
func (s *MaskedStream[T]) ValueLen() int {
	return len(s.values)
}

// IsPresent reports whether the i-th present bit is set.
func (s *MaskedStream[T]) IsPresent(i int) bool {
	return s.present.Get(i)
}

// Value returns the i-th stored value.
func (s *MaskedStream[T]) Value(i int) T {
	return s.values[i]
}

// PushValue appends a set present bit and its value.
func (s *MaskedStream[T]) PushValue(value T) {
	s.present.PushTrue()
	s.values = append(s.values, value)
}

// PushAbsent appends a clear present bit with no value.
func (s *MaskedStream[T]) PushAbsent() {
	s.present.PushFalse()
}

// Push appends value when non-nil and an absent marker otherwise.
func (s *MaskedStream[T]) Push(value *T) {
	if value != nil {
		s.PushValue(*value)
	} else {
		s.PushAbsent()
	}
}

// Clear empties the record, retaining backing storage.
func (s *MaskedStream[T]) Clear() {
	s.present.Clear()
	s.values = s.values[:0]
}

// DeltaStream is a compact replication record for component changes: a
// BitStream of "this entity changed this tick" flags wrapping a MaskedStream
// of post-change values. Entities with no change contribute zero bits to
// either inner stream, and the modified bits are emitted in index order for
// every entity in the driving any-modified set, so receivers can zip the
// stream back against the same entity list deterministically.
type DeltaStream[T any] struct {
	modified BitStream
	values   MaskedStream[T]
}

// ModifiedLen returns the number of set modified bits.
func (s *DeltaStream[T]) ModifiedLen() int {
	return s.modified.CountOnes()
}

// PresentLen returns the number of set present bits.
func (s *DeltaStream[T]) PresentLen() int {
	return s.values.PresentLen()
}

// ValueLen returns the number of stored values.
func (s *DeltaStream[T]) ValueLen() int {
	return s.values.ValueLen()
}

// IsModified reports whether the i-th modified bit is set.
func (s *DeltaStream[T]) IsModified(i int) bool {
	return s.modified.Get(i)
}

// IsPresent reports whether the i-th present bit is set.
func (s *DeltaStream[T]) IsPresent(i int) bool {
	return s.values.IsPresent(i)
}

// Value returns the i-th stored value.
func (s *DeltaStream[T]) Value(i int) T {
	return s.values.Value(i)
}

// PushUnmodified appends a clear modified bit; the inner record is untouched.
func (s *DeltaStream[T]) PushUnmodified() {
	s.modified.PushFalse()
}

// PushModified appends a set modified bit plus the post-change value, or an
// absent marker when the change removed the component.
func (s *DeltaStream[T]) PushModified(value *T) {
	s.modified.PushTrue()
	s.values.Push(value)
}

// Clear empties the record, retaining backing storage.
func (s *DeltaStream[T]) Clear() {
	s.modified.Clear()
	s.values.Clear()
}

// ApplyTo replays the record onto dst: ids lists the driving any-modified
// entity set in the exact order Flush walked it. Present values are added or
// overwritten, absent values removed, unmodified entities untouched.
func (s *DeltaStream[T]) ApplyTo(ids []ID, dst Writer[T]) {
	pi, vi := 0, 0
	for mi := 0; mi < len(ids); mi++ {
		if !s.IsModified(mi) {
			continue
		}
		if s.IsPresent(pi) {
			dst.Add(ids[mi], s.Value(vi))
			vi++
		} else {
			dst.Remove(ids[mi])
		}
		pi++
	}
}

// DeltaTable tracks per-component change state on the authoring side: a
// "changed this flush" marker table paired with the current values. Flush
// drains the markers into a DeltaStream.
type DeltaTable[T comparable] struct {
	modified Table[Unit]
	values   Table[T]
}

// NewDeltaTable returns an empty delta table. The zero value is also ready to
// use.
func NewDeltaTable[T comparable]() *DeltaTable[T] {
	return &DeltaTable[T]{}
}

// Values exposes the current value column for reads and iteration.
func (d *DeltaTable[T]) Values() *Table[T] {
	return &d.values
}

// Modified exposes the pending change markers.
func (d *DeltaTable[T]) Modified() *Table[Unit] {
	return &d.modified
}

// Write records the component's new state for id: nil means the component is
// absent. An unchanged present value is a no-op. It reports whether anything
// changed and, when it did, marks the entity for the next Flush.
func (d *DeltaTable[T]) Write(id ID, value *T) bool {
	current := d.values.TryGet(id)
	switch {
	case current != nil && value != nil:
		if *current == *value {
			return false
		}
		*current = *value
	case current != nil:
		d.values.Remove(id)
	case value != nil:
		d.values.Add(id, *value)
	default:
		return false
	}
	d.modified.Add(id, Unit{})

	return true
}

// Remove drops both the value and any pending change marker for id.
func (d *DeltaTable[T]) Remove(id ID) {
	d.modified.Remove(id)
	d.values.Remove(id)
}

// Clear drops all values and markers.
func (d *DeltaTable[T]) Clear() {
	d.modified.Clear()
	d.values.Clear()
}

// Flush walks anyModified, the table of entities with any component modified
// this tick (not necessarily this one), in index order, and appends to out:
// a clear modified bit when this component did not change even though
// something on the entity did; otherwise a set modified bit plus a present
// bit and the value when the component still exists. The record's bit
// accounting is therefore driven entirely by the anyModified set. The pending
// markers are cleared afterwards.
func (d *DeltaTable[T]) Flush(anyModified *Table[Unit], out *DeltaStream[T]) {
	for pi, ap := range anyModified.pages {
		if ap == nil {
			continue
		}
		mp := pageAt(&d.modified, pi)
		vp := pageAt(&d.values, pi)
		for w := 0; w < pageWordCount; w++ {
			for m := ap.bits[w]; m != 0; m &= m - 1 {
				o := bits.TrailingZeros64(m)
				if mp == nil || mp.bits[w]>>o&1 == 0 {
					out.PushUnmodified()
					continue
				}
				var value *T
				if vp != nil && vp.bits[w]>>o&1 != 0 {
					value = &vp.values[w<<maskShift+o]
				}
				out.PushModified(value)
			}
		}
	}
	d.modified.Clear()
}
