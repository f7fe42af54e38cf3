package strata

import (
	"iter"
	"math/bits"
)

// The join algebra combines columns by entity identity, page by page and
// presence word by presence word. An inner join ANDs the presence words of
// its operands and scans the result with trailing-zero jumps, so pages or
// word ranges where any operand is absent cost O(1). A left join walks the
// left column unconditionally and tests companion bits per slot, yielding nil
// for absent companions.
//
// All joined tables must share the same entity id space and paging. This is a
// caller contract, not enforced at the type level; joining tables from
// different id spaces silently produces meaningless pairings.
//
// Joins generalize to higher arities as fixed-arity operators (Join3..Join9,
// LeftJoin3..LeftJoin9 in join_arity.go). Arities past two are consumed by
// invoking the returned sequence with a yield callback, since range-over-func
// stops at two values.

// Seq3 through Seq9 extend the stdlib iter sequence forms to the fixed join
// arities. A sequence calls yield for each tuple and stops early when yield
// returns false.
type (
	Seq3[A, B, C any]                   func(yield func(A, B, C) bool)
	Seq4[A, B, C, D any]                func(yield func(A, B, C, D) bool)
	Seq5[A, B, C, D, E any]             func(yield func(A, B, C, D, E) bool)
	Seq6[A, B, C, D, E, F any]          func(yield func(A, B, C, D, E, F) bool)
	Seq7[A, B, C, D, E, F, G any]       func(yield func(A, B, C, D, E, F, G) bool)
	Seq8[A, B, C, D, E, F, G, H any]    func(yield func(A, B, C, D, E, F, G, H) bool)
	Seq9[A, B, C, D, E, F, G, H, I any] func(yield func(A, B, C, D, E, F, G, H, I) bool)
)

// pageAt returns page pi of t, or nil when the range is untouched or beyond
// the table's growth.
func pageAt[T any](t *Table[T], pi int) *Page[T] {
	if pi >= len(t.pages) {
		return nil
	}

	return t.pages[pi]
}

// Join2 returns an inner-join iterator over the entities present in both a
// and b, yielding value pairs in ascending index order. The iterator
// allocates nothing per element; yielded pointers alias table storage.
func Join2[A, B any](a *Table[A], b *Table[B]) iter.Seq2[*A, *B] {
	return func(yield func(*A, *B) bool) {
		n := min(len(a.pages), len(b.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb := a.pages[pi], b.pages[pi]
			if pa == nil || pb == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w] & pb.bits[w]; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i]) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin2 returns a left-join iterator over every entity present in a,
// yielding the companion value from b when present and nil otherwise. A page
// wholly absent on the right contributes nil companions for its entire index
// range.
func LeftJoin2[A, B any](a *Table[A], b *Table[B]) iter.Seq2[*A, *B] {
	return func(yield func(*A, *B) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb := pageAt(b, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					if !yield(&pa.values[i], vb) {
						return
					}
				}
			}
		}
	}
}
