// Package strata provides in-memory entity/component storage and querying for
// real-time simulations: a page-based, bitset-backed sparse-set column store
// with a composable join algebra, generational entity identifiers with
// partitionable recycling, and a delta/prediction layer that reconciles
// locally simulated state against periodic authoritative snapshots.
//
// # Core Features
//
//   - Sparse columns (Table) built from 1024-slot pages, each pairing a dense
//     value array with a presence bitmap; untouched index ranges cost nothing
//   - Allocation-free iteration that skips absent ranges via trailing-zero
//     scans: O(set bits + zero words) rather than O(slots)
//   - Inner and left joins over up to nine columns, composed page by page and
//     presence word by presence word
//   - Generational ids (24-bit index, 8-bit generation) recycled through
//     per-group free lists, with a page ownership mask carving mutually
//     exclusive id ranges out of a shared space
//   - Per-component change tracking flushed into compact replication records
//     (DeltaStream), plus a wire codec with xxHash64 integrity checksums
//   - Client-side prediction with rollback-replay: per-entity rings of local
//     deltas replayed over the last authoritative value each tick
//
// # Basic Usage
//
// A world is just a pool plus one Table per component type:
//
//	pool := strata.NewDefaultPool()
//	ids := strata.NewTable[strata.ID]()
//	pos := strata.NewTable[Position]()
//	vel := strata.NewTable[Velocity]()
//
//	id := pool.Create()
//	ids.Add(id, id)
//	pos.Add(id, Position{X: 1})
//	vel.Add(id, Velocity{X: 3})
//
// Systems query by joining columns; yielded pointers alias storage and may be
// written through:
//
//	for p, v := range strata.Join2(pos, vel) {
//	    p.X += v.X
//	    p.Y += v.Y
//	}
//
// Destruction cascades through every column with a marker table:
//
//	destroyed := strata.NewTable[strata.Unit]()
//	destroyed.Add(id, strata.Unit{})
//	strata.RemoveJoin(pos, destroyed)
//	strata.RemoveJoin(vel, destroyed)
//
// # Concurrency
//
// All structures are single-threaded and synchronous: one exclusive mutator
// per simulation step, with cross-system serialization left to the caller.
// Every operation is a finite traversal bounded by table size; there are no
// locks, no blocking and no internal goroutines.
package strata
