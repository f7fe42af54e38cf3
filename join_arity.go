package strata

import "math/bits"

// Fixed-arity join operators. Chaining pairwise joins right to left and
// flattening the nested pairs is equivalent to a single N-way AND over the
// presence words, so each arity is expressed directly; nine columns is the
// practical bound for query tuples.

// Join3 returns an inner-join iterator over the entities present in all three
// tables.
func Join3[A, B, C any](a *Table[A], b *Table[B], c *Table[C]) Seq3[*A, *B, *C] {
	return func(yield func(*A, *B, *C) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc := a.pages[pi], b.pages[pi], c.pages[pi]
			if pa == nil || pb == nil || pc == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w] & pb.bits[w] & pc.bits[w]; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i], &pc.values[i]) {
						return
					}
				}
			}
		}
	}
}

// Join4 returns an inner-join iterator over the entities present in all four
// tables.
func Join4[A, B, C, D any](a *Table[A], b *Table[B], c *Table[C], d *Table[D]) Seq4[*A, *B, *C, *D] {
	return func(yield func(*A, *B, *C, *D) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages), len(d.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc, pd := a.pages[pi], b.pages[pi], c.pages[pi], d.pages[pi]
			if pa == nil || pb == nil || pc == nil || pd == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w] & pb.bits[w] & pc.bits[w] & pd.bits[w]; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i], &pc.values[i], &pd.values[i]) {
						return
					}
				}
			}
		}
	}
}

// Join5 returns an inner-join iterator over the entities present in all five
// tables.
func Join5[A, B, C, D, E any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E]) Seq5[*A, *B, *C, *D, *E] {
	return func(yield func(*A, *B, *C, *D, *E) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages), len(d.pages), len(e.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc, pd, pe := a.pages[pi], b.pages[pi], c.pages[pi], d.pages[pi], e.pages[pi]
			if pa == nil || pb == nil || pc == nil || pd == nil || pe == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				m := pa.bits[w] & pb.bits[w] & pc.bits[w] & pd.bits[w] & pe.bits[w]
				for ; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i], &pc.values[i], &pd.values[i], &pe.values[i]) {
						return
					}
				}
			}
		}
	}
}

// Join6 returns an inner-join iterator over the entities present in all six
// tables.
func Join6[A, B, C, D, E, F any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F]) Seq6[*A, *B, *C, *D, *E, *F] {
	return func(yield func(*A, *B, *C, *D, *E, *F) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages), len(d.pages), len(e.pages), len(f.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc, pd, pe, pf := a.pages[pi], b.pages[pi], c.pages[pi], d.pages[pi], e.pages[pi], f.pages[pi]
			if pa == nil || pb == nil || pc == nil || pd == nil || pe == nil || pf == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				m := pa.bits[w] & pb.bits[w] & pc.bits[w] & pd.bits[w] & pe.bits[w] & pf.bits[w]
				for ; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i], &pc.values[i], &pd.values[i], &pe.values[i], &pf.values[i]) {
						return
					}
				}
			}
		}
	}
}

// Join7 returns an inner-join iterator over the entities present in all seven
// tables.
func Join7[A, B, C, D, E, F, G any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F], g *Table[G]) Seq7[*A, *B, *C, *D, *E, *F, *G] {
	return func(yield func(*A, *B, *C, *D, *E, *F, *G) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages), len(d.pages), len(e.pages), len(f.pages), len(g.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc, pd := a.pages[pi], b.pages[pi], c.pages[pi], d.pages[pi]
			pe, pf, pg := e.pages[pi], f.pages[pi], g.pages[pi]
			if pa == nil || pb == nil || pc == nil || pd == nil || pe == nil || pf == nil || pg == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				m := pa.bits[w] & pb.bits[w] & pc.bits[w] & pd.bits[w] & pe.bits[w] & pf.bits[w] & pg.bits[w]
				for ; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i], &pc.values[i], &pd.values[i], &pe.values[i], &pf.values[i], &pg.values[i]) {
						return
					}
				}
			}
		}
	}
}

// Join8 returns an inner-join iterator over the entities present in all eight
// tables.
func Join8[A, B, C, D, E, F, G, H any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F], g *Table[G], h *Table[H]) Seq8[*A, *B, *C, *D, *E, *F, *G, *H] {
	return func(yield func(*A, *B, *C, *D, *E, *F, *G, *H) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages), len(d.pages),
			len(e.pages), len(f.pages), len(g.pages), len(h.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc, pd := a.pages[pi], b.pages[pi], c.pages[pi], d.pages[pi]
			pe, pf, pg, ph := e.pages[pi], f.pages[pi], g.pages[pi], h.pages[pi]
			if pa == nil || pb == nil || pc == nil || pd == nil || pe == nil || pf == nil || pg == nil || ph == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				m := pa.bits[w] & pb.bits[w] & pc.bits[w] & pd.bits[w] & pe.bits[w] & pf.bits[w] & pg.bits[w] & ph.bits[w]
				for ; m != 0; m &= m - 1 {
					i := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[i], &pb.values[i], &pc.values[i], &pd.values[i], &pe.values[i], &pf.values[i], &pg.values[i], &ph.values[i]) {
						return
					}
				}
			}
		}
	}
}

// Join9 returns an inner-join iterator over the entities present in all nine
// tables.
func Join9[A, B, C, D, E, F, G, H, I any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F], g *Table[G], h *Table[H], i *Table[I]) Seq9[*A, *B, *C, *D, *E, *F, *G, *H, *I] {
	return func(yield func(*A, *B, *C, *D, *E, *F, *G, *H, *I) bool) {
		n := min(len(a.pages), len(b.pages), len(c.pages), len(d.pages),
			len(e.pages), len(f.pages), len(g.pages), len(h.pages), len(i.pages))
		for pi := 0; pi < n; pi++ {
			pa, pb, pc, pd := a.pages[pi], b.pages[pi], c.pages[pi], d.pages[pi]
			pe, pf, pg, ph, pii := e.pages[pi], f.pages[pi], g.pages[pi], h.pages[pi], i.pages[pi]
			if pa == nil || pb == nil || pc == nil || pd == nil || pe == nil ||
				pf == nil || pg == nil || ph == nil || pii == nil {
				continue
			}
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				m := pa.bits[w] & pb.bits[w] & pc.bits[w] & pd.bits[w] &
					pe.bits[w] & pf.bits[w] & pg.bits[w] & ph.bits[w] & pii.bits[w]
				for ; m != 0; m &= m - 1 {
					si := base + bits.TrailingZeros64(m)
					if !yield(&pa.values[si], &pb.values[si], &pc.values[si], &pd.values[si], &pe.values[si], &pf.values[si], &pg.values[si], &ph.values[si], &pii.values[si]) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin3 walks every entity present in a, yielding companions from b and c
// when present and nil otherwise.
func LeftJoin3[A, B, C any](a *Table[A], b *Table[B], c *Table[C]) Seq3[*A, *B, *C] {
	return func(yield func(*A, *B, *C) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc := pageAt(b, pi), pageAt(c, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					if !yield(&pa.values[i], vb, vc) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin4 walks every entity present in a, yielding companions from b, c,
// and d when present and nil otherwise.
func LeftJoin4[A, B, C, D any](a *Table[A], b *Table[B], c *Table[C], d *Table[D]) Seq4[*A, *B, *C, *D] {
	return func(yield func(*A, *B, *C, *D) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc, pd := pageAt(b, pi), pageAt(c, pi), pageAt(d, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					var vd *D
					if pd != nil && pd.bits[w]>>o&1 != 0 {
						vd = &pd.values[i]
					}
					if !yield(&pa.values[i], vb, vc, vd) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin5 walks every entity present in a, yielding companions from the
// remaining tables when present and nil otherwise.
func LeftJoin5[A, B, C, D, E any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E]) Seq5[*A, *B, *C, *D, *E] {
	return func(yield func(*A, *B, *C, *D, *E) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc, pd, pe := pageAt(b, pi), pageAt(c, pi), pageAt(d, pi), pageAt(e, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					var vd *D
					if pd != nil && pd.bits[w]>>o&1 != 0 {
						vd = &pd.values[i]
					}
					var ve *E
					if pe != nil && pe.bits[w]>>o&1 != 0 {
						ve = &pe.values[i]
					}
					if !yield(&pa.values[i], vb, vc, vd, ve) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin6 walks every entity present in a, yielding companions from the
// remaining tables when present and nil otherwise.
func LeftJoin6[A, B, C, D, E, F any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F]) Seq6[*A, *B, *C, *D, *E, *F] {
	return func(yield func(*A, *B, *C, *D, *E, *F) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc, pd := pageAt(b, pi), pageAt(c, pi), pageAt(d, pi)
			pe, pf := pageAt(e, pi), pageAt(f, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					var vd *D
					if pd != nil && pd.bits[w]>>o&1 != 0 {
						vd = &pd.values[i]
					}
					var ve *E
					if pe != nil && pe.bits[w]>>o&1 != 0 {
						ve = &pe.values[i]
					}
					var vf *F
					if pf != nil && pf.bits[w]>>o&1 != 0 {
						vf = &pf.values[i]
					}
					if !yield(&pa.values[i], vb, vc, vd, ve, vf) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin7 walks every entity present in a, yielding companions from the
// remaining tables when present and nil otherwise.
func LeftJoin7[A, B, C, D, E, F, G any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F], g *Table[G]) Seq7[*A, *B, *C, *D, *E, *F, *G] {
	return func(yield func(*A, *B, *C, *D, *E, *F, *G) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc, pd := pageAt(b, pi), pageAt(c, pi), pageAt(d, pi)
			pe, pf, pg := pageAt(e, pi), pageAt(f, pi), pageAt(g, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					var vd *D
					if pd != nil && pd.bits[w]>>o&1 != 0 {
						vd = &pd.values[i]
					}
					var ve *E
					if pe != nil && pe.bits[w]>>o&1 != 0 {
						ve = &pe.values[i]
					}
					var vf *F
					if pf != nil && pf.bits[w]>>o&1 != 0 {
						vf = &pf.values[i]
					}
					var vg *G
					if pg != nil && pg.bits[w]>>o&1 != 0 {
						vg = &pg.values[i]
					}
					if !yield(&pa.values[i], vb, vc, vd, ve, vf, vg) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin8 walks every entity present in a, yielding companions from the
// remaining tables when present and nil otherwise.
func LeftJoin8[A, B, C, D, E, F, G, H any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F], g *Table[G], h *Table[H]) Seq8[*A, *B, *C, *D, *E, *F, *G, *H] {
	return func(yield func(*A, *B, *C, *D, *E, *F, *G, *H) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc, pd := pageAt(b, pi), pageAt(c, pi), pageAt(d, pi)
			pe, pf, pg, ph := pageAt(e, pi), pageAt(f, pi), pageAt(g, pi), pageAt(h, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					var vd *D
					if pd != nil && pd.bits[w]>>o&1 != 0 {
						vd = &pd.values[i]
					}
					var ve *E
					if pe != nil && pe.bits[w]>>o&1 != 0 {
						ve = &pe.values[i]
					}
					var vf *F
					if pf != nil && pf.bits[w]>>o&1 != 0 {
						vf = &pf.values[i]
					}
					var vg *G
					if pg != nil && pg.bits[w]>>o&1 != 0 {
						vg = &pg.values[i]
					}
					var vh *H
					if ph != nil && ph.bits[w]>>o&1 != 0 {
						vh = &ph.values[i]
					}
					if !yield(&pa.values[i], vb, vc, vd, ve, vf, vg, vh) {
						return
					}
				}
			}
		}
	}
}

// LeftJoin9 walks every entity present in a, yielding companions from the
// remaining tables when present and nil otherwise.
func LeftJoin9[A, B, C, D, E, F, G, H, I any](a *Table[A], b *Table[B], c *Table[C], d *Table[D], e *Table[E], f *Table[F], g *Table[G], h *Table[H], x *Table[I]) Seq9[*A, *B, *C, *D, *E, *F, *G, *H, *I] {
	return func(yield func(*A, *B, *C, *D, *E, *F, *G, *H, *I) bool) {
		for pi, pa := range a.pages {
			if pa == nil {
				continue
			}
			pb, pc, pd := pageAt(b, pi), pageAt(c, pi), pageAt(d, pi)
			pe, pf, pg := pageAt(e, pi), pageAt(f, pi), pageAt(g, pi)
			ph, px := pageAt(h, pi), pageAt(x, pi)
			for w := 0; w < pageWordCount; w++ {
				base := w << maskShift
				for m := pa.bits[w]; m != 0; m &= m - 1 {
					o := bits.TrailingZeros64(m)
					i := base + o
					var vb *B
					if pb != nil && pb.bits[w]>>o&1 != 0 {
						vb = &pb.values[i]
					}
					var vc *C
					if pc != nil && pc.bits[w]>>o&1 != 0 {
						vc = &pc.values[i]
					}
					var vd *D
					if pd != nil && pd.bits[w]>>o&1 != 0 {
						vd = &pd.values[i]
					}
					var ve *E
					if pe != nil && pe.bits[w]>>o&1 != 0 {
						ve = &pe.values[i]
					}
					var vf *F
					if pf != nil && pf.bits[w]>>o&1 != 0 {
						vf = &pf.values[i]
					}
					var vg *G
					if pg != nil && pg.bits[w]>>o&1 != 0 {
						vg = &pg.values[i]
					}
					var vh *H
					if ph != nil && ph.bits[w]>>o&1 != 0 {
						vh = &ph.values[i]
					}
					var vx *I
					if px != nil && px.bits[w]>>o&1 != 0 {
						vx = &px.values[i]
					}
					if !yield(&pa.values[i], vb, vc, vd, ve, vf, vg, vh, vx) {
						return
					}
				}
			}
		}
	}
}
