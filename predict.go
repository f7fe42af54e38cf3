package strata

import "iter"

const (
	predictShift = 5
	// PredictWindow is the number of ticks of pending local deltas a Buffer
	// retains before pruning.
	PredictWindow = 1 << predictShift
	predictMask   = PredictWindow - 1
)

// Delta is a locally simulated change that can be replayed on top of an
// authoritative base value. Deltas only change an existing value; they never
// add or remove the component itself.
//
// D is the concrete delta type (the usual self-referential constraint), so
// Merge combines two deltas of the same kind when they land on the same tick.
type Delta[T, D any] interface {
	// ApplyTo folds the delta into value.
	ApplyTo(value *T)
	// Merge combines the receiver with a later delta for the same tick and
	// returns the result.
	Merge(rhs D) D
}

// ReplaceDelta overwrites the value outright; merging keeps the later delta.
type ReplaceDelta[T any] struct {
	Value T
}

func (d ReplaceDelta[T]) ApplyTo(value *T) {
	*value = d.Value
}

func (d ReplaceDelta[T]) Merge(rhs ReplaceDelta[T]) ReplaceDelta[T] {
	return rhs
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// AddDelta accumulates into the value; merging sums the deltas.
type AddDelta[T number] struct {
	Value T
}

func (d AddDelta[T]) ApplyTo(value *T) {
	*value += d.Value
}

func (d AddDelta[T]) Merge(rhs AddDelta[T]) AddDelta[T] {
	return AddDelta[T]{Value: d.Value + rhs.Value}
}

// Buffer is a per-entity ring of pending local deltas layered on an
// authoritative base value. Slots are addressed by tick modulo the window;
// the mask records which slots currently hold a delta. A buffer exists only
// while predictions are pending: PredictTable creates one on the first
// speculative write and discards it once pruning empties the ring.
type Buffer[T any, D Delta[T, D]] struct {
	baseValue T
	baseTick  int64
	mask      uint32
	deltas    [PredictWindow]D
}

// NewBuffer creates a buffer whose base value was confirmed at tick.
func NewBuffer[T any, D Delta[T, D]](base T, tick int64) *Buffer[T, D] {
	return &Buffer[T, D]{baseValue: base, baseTick: tick}
}

// SetBase records an authoritative value confirmed at tick. It does not
// replay pending deltas; that happens on the next Predict. Callers are
// expected to keep later confirmations from being overwritten by earlier
// ones.
func (b *Buffer[T, D]) SetBase(value T, tick int64) {
	b.baseValue = value
	b.baseTick = tick
}

// Base returns the last confirmed authoritative value.
func (b *Buffer[T, D]) Base() T {
	return b.baseValue
}

// Mask returns the bitmask of ring slots currently holding a delta.
func (b *Buffer[T, D]) Mask() uint32 {
	return b.mask
}

// IsEmpty reports whether no deltas are pending.
func (b *Buffer[T, D]) IsEmpty() bool {
	return b.mask == 0
}

// DeltaAt returns the pending delta for tick, if its slot is occupied.
func (b *Buffer[T, D]) DeltaAt(tick int64) (D, bool) {
	idx := int(tick & predictMask)
	if b.mask&(1<<idx) == 0 {
		var zero D

		return zero, false
	}

	return b.deltas[idx], true
}

func (b *Buffer[T, D]) clearEntry(tick int64) {
	idx := int(tick & predictMask)
	b.mask &^= 1 << idx
	var zero D
	b.deltas[idx] = zero
}

// Predict recomputes value for predictTick: slots older than the window are
// pruned, the base tick is dragged forward to the window edge, and every
// pending delta from the base tick up to (not including) predictTick is
// replayed over the base value in tick order. The slot for predictTick itself
// is cleared in preparation for the upcoming simulation step.
func (b *Buffer[T, D]) Predict(predictTick int64, value *T) {
	minTick := predictTick - PredictWindow
	baseTick := max(b.baseTick, minTick)
	for tick := minTick; tick < baseTick; tick++ {
		b.clearEntry(tick)
	}
	b.clearEntry(predictTick)

	next := b.baseValue
	if b.mask != 0 {
		for tick := baseTick; tick < predictTick; tick++ {
			if d, ok := b.DeltaAt(tick); ok {
				d.ApplyTo(&next)
			}
		}
	}
	*value = next
}

// WriteDelta records a local delta for predictTick, merging with any delta
// already in that tick's slot rather than overwriting it.
func (b *Buffer[T, D]) WriteDelta(predictTick int64, delta D) {
	idx := int(predictTick & predictMask)
	bit := uint32(1) << idx
	if b.mask&bit != 0 {
		b.deltas[idx] = b.deltas[idx].Merge(delta)
	} else {
		b.deltas[idx] = delta
		b.mask |= bit
	}
}

// PredictTable wraps an authoritative value column with per-entity prediction
// buffers for client-side prediction with rollback-replay. While a buffer is
// pending, authoritative writes update its base instead of the stored value,
// and Predict reconstructs the speculative value each tick. Disabled, the
// whole layer is a thin passthrough to the inner table, which is what servers
// run.
type PredictTable[T any, D Delta[T, D]] struct {
	enabled bool
	table   Table[T]
	buffers map[ID]*Buffer[T, D]
}

// NewPredictTable returns an empty prediction layer.
func NewPredictTable[T any, D Delta[T, D]](enabled bool) *PredictTable[T, D] {
	return &PredictTable[T, D]{
		enabled: enabled,
		buffers: make(map[ID]*Buffer[T, D]),
	}
}

// Enabled reports whether prediction is active.
func (pt *PredictTable[T, D]) Enabled() bool {
	return pt.enabled
}

// Table exposes the inner value column. Mutating it directly bypasses the
// prediction buffers; only authoritative code should do that.
func (pt *PredictTable[T, D]) Table() *Table[T] {
	return &pt.table
}

// Len returns the number of stored values.
func (pt *PredictTable[T, D]) Len() int {
	return pt.table.Len()
}

// IsEmpty reports whether no values are stored.
func (pt *PredictTable[T, D]) IsEmpty() bool {
	return pt.table.IsEmpty()
}

// PredictLen returns the number of entities with pending predictions.
func (pt *PredictTable[T, D]) PredictLen() int {
	return len(pt.buffers)
}

// Contains reports whether id has a value.
func (pt *PredictTable[T, D]) Contains(id ID) bool {
	return pt.table.Contains(id)
}

// Get returns the value for id, panicking if absent.
func (pt *PredictTable[T, D]) Get(id ID) *T {
	return pt.table.Get(id)
}

// TryGet returns the value for id, or nil if absent.
func (pt *PredictTable[T, D]) TryGet(id ID) *T {
	return pt.table.TryGet(id)
}

// All iterates the stored (possibly speculative) values in index order.
func (pt *PredictTable[T, D]) All() iter.Seq[*T] {
	return pt.table.All()
}

// Buffer returns the pending prediction buffer for id, or nil.
func (pt *PredictTable[T, D]) Buffer(id ID) *Buffer[T, D] {
	return pt.buffers[id]
}

// Clear drops all values and pending buffers.
func (pt *PredictTable[T, D]) Clear() {
	pt.table.Clear()
	clear(pt.buffers)
}

// Add stores an authoritative value confirmed at tick. When predictions are
// pending for id the value becomes the buffer's new base and the stored value
// is left speculative until the next Predict; otherwise it is written
// through.
func (pt *PredictTable[T, D]) Add(id ID, tick int64, value T) {
	if pt.enabled {
		if buf, ok := pt.buffers[id]; ok {
			buf.SetBase(value, tick)

			return
		}
	}
	pt.table.Add(id, value)
}

// Remove drops the value and any pending buffer for id.
func (pt *PredictTable[T, D]) Remove(id ID) bool {
	if pt.enabled {
		delete(pt.buffers, id)
	}

	return pt.table.Remove(id)
}

// Set stores an authoritative value when non-nil and removes the entry
// otherwise.
func (pt *PredictTable[T, D]) Set(id ID, tick int64, value *T) {
	if value != nil {
		pt.Add(id, tick, *value)
	} else {
		pt.Remove(id)
	}
}

// ApplyDelta records a local speculative change for tick and folds it into
// the stored value copy-on-write style: the first delta for an entity
// snapshots the current value as the buffer's base. Entities with no stored
// value are ignored. Disabled, the delta is folded directly into the stored
// value.
func (pt *PredictTable[T, D]) ApplyDelta(id ID, tick int64, delta D) {
	if !pt.enabled {
		delta.ApplyTo(pt.table.Get(id))

		return
	}
	value := pt.table.TryGet(id)
	if value == nil {
		return
	}
	buf, ok := pt.buffers[id]
	if !ok {
		buf = NewBuffer[T, D](*value, tick)
		pt.buffers[id] = buf
	}
	delta.ApplyTo(value)
	buf.WriteDelta(tick, delta)
}

// RemoveJoin removes every entity present in ids from the value column and
// discards its pending buffer.
func (pt *PredictTable[T, D]) RemoveJoin(ids *Table[ID]) {
	if pt.enabled {
		for id := range ids.All() {
			delete(pt.buffers, *id)
		}
	}
	RemoveJoin(&pt.table, ids)
}

// Predict sweeps all pending buffers for predictTick, replaying each entity's
// deltas over its confirmed base into the stored value, then discards buffers
// whose ring emptied after pruning: those entities revert to being driven
// purely by authoritative writes.
func (pt *PredictTable[T, D]) Predict(predictTick int64) {
	if !pt.enabled {
		return
	}
	for id, buf := range pt.buffers {
		buf.Predict(predictTick, pt.table.Get(id))
		if buf.IsEmpty() {
			delete(pt.buffers, id)
		}
	}
}

// MoveValue transfers the stored value and any pending buffer from one id to
// another.
func (pt *PredictTable[T, D]) MoveValue(from, to ID) bool {
	if pt.enabled {
		if buf, ok := pt.buffers[from]; ok {
			delete(pt.buffers, from)
			pt.buffers[to] = buf
		}
	}

	return pt.table.MoveValue(from, to)
}

// Writer adapts the prediction layer to the Writer contract for a given tick,
// so replication records can apply straight onto it.
func (pt *PredictTable[T, D]) Writer(tick int64) *PredictWriter[T, D] {
	return &PredictWriter[T, D]{tick: tick, predict: pt}
}

// PredictWriter routes Writer mutations into a PredictTable at a fixed tick.
type PredictWriter[T any, D Delta[T, D]] struct {
	tick    int64
	predict *PredictTable[T, D]
}

var _ Writer[int] = (*PredictWriter[int, ReplaceDelta[int]])(nil)

func (w *PredictWriter[T, D]) Add(id ID, value T) {
	w.predict.Add(id, w.tick, value)
}

func (w *PredictWriter[T, D]) Remove(id ID) bool {
	return w.predict.Remove(id)
}
