package strata_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/strata"
	"github.com/arloliu/strata/endian"
)

type position struct {
	X, Y int32
}

type velocity struct {
	X, Y int32
}

// world bundles the columns of a minimal simulation the way consuming code
// lays them out: one pool, an id column, component columns, and a destroyed
// marker column drained on commit.
type world struct {
	pool      *strata.Pool
	ids       strata.Table[strata.ID]
	pos       strata.Table[position]
	vel       strata.Table[velocity]
	destroyed strata.Table[strata.Unit]
}

func newWorld() *world {
	return &world{pool: strata.NewDefaultPool()}
}

func (w *world) spawn() strata.ID {
	id := w.pool.Create()
	w.ids.Add(id, id)

	return id
}

// commit recycles destroyed ids and cascades removal across every column.
func (w *world) commit() {
	if w.destroyed.IsEmpty() {
		return
	}
	for id := range strata.Join2(&w.ids, &w.destroyed) {
		w.pool.Recycle(*id)
	}
	strata.RemoveJoin(&w.ids, &w.destroyed)
	strata.RemoveJoin(&w.pos, &w.destroyed)
	strata.RemoveJoin(&w.vel, &w.destroyed)
	w.destroyed.Clear()
}

func TestWorld_CreateDestroy(t *testing.T) {
	w := newWorld()

	for i := int32(0); i < 10; i++ {
		id := w.spawn()
		w.pos.Add(id, position{X: i, Y: i * 2})
		w.vel.Add(id, velocity{X: 3, Y: 4})
	}

	// One integration step.
	for p, v := range strata.Join2(&w.pos, &w.vel) {
		p.X += v.X
		p.Y += v.Y
	}
	for id := range w.ids.All() {
		i := int32(id.Index())
		require.Equal(t, position{X: i + 3, Y: i*2 + 4}, *w.pos.Get(*id))
	}

	// Destroy every even entity.
	for id := range w.ids.All() {
		if id.Index()%2 == 0 {
			w.destroyed.Add(*id, strata.Unit{})
		}
	}
	w.commit()

	require.Equal(t, 5, w.ids.Len())
	require.Equal(t, 5, w.pos.Len())
	require.Equal(t, 5, w.vel.Len())
	require.True(t, w.destroyed.IsEmpty())

	// Destroyed ids come back recycled with bumped generations.
	id := w.pool.Create()
	require.Equal(t, 0, id.Index())
	require.Equal(t, uint32(1), id.Gen())
}

func TestWorld_RemoveJoinKeepsSurvivors(t *testing.T) {
	values := strata.NewTable[int]()
	values.Add(strata.ID(1), 10)
	values.Add(strata.ID(2), 20)

	destroyed := strata.NewTable[strata.Unit]()
	destroyed.Add(strata.ID(2), strata.Unit{})

	strata.RemoveJoin(values, destroyed)

	got := make([]int, 0, 1)
	for v := range values.All() {
		got = append(got, *v)
	}
	require.Equal(t, []int{10}, got)
	require.False(t, values.Contains(strata.ID(2)))
}

// TestWorld_ReplicationRoundTrip drives the full server-to-client path: delta
// tracking on the authority, wire encoding, and application onto a predicted
// column on the client.
func TestWorld_ReplicationRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	codec := strata.Uint32Codec{Engine: engine}

	// Server side: track two entities, one getting a value.
	var (
		srcIDs  strata.Table[strata.ID]
		anyMod  strata.Table[strata.Unit]
		tracked strata.DeltaTable[uint32]
		record  strata.DeltaStream[uint32]
	)
	a, b := strata.NewID(1, 2), strata.NewID(2, 0)
	srcIDs.Add(a, a)
	srcIDs.Add(b, b)
	anyMod.Add(a, strata.Unit{})
	anyMod.Add(b, strata.Unit{})
	tracked.Write(a, ptr(uint32(77)))
	tracked.Flush(&anyMod, &record)

	ids := slices.Collect(strata.ModifiedIDs(&srcIDs, &anyMod))
	require.Equal(t, []strata.ID{a, b}, ids)

	enc := strata.NewDeltaEncoder[uint32](engine, codec)
	defer enc.Finish()
	wire := enc.Encode(&record)

	// Client side: decode and apply at the confirmed tick.
	var received strata.DeltaStream[uint32]
	dec := strata.NewDeltaDecoder[uint32](engine, codec)
	require.NoError(t, dec.Decode(wire, &received))

	predicted := strata.NewPredictTable[uint32, strata.ReplaceDelta[uint32]](true)
	received.ApplyTo(ids, predicted.Writer(5))

	require.Equal(t, uint32(77), *predicted.Get(a))
	require.False(t, predicted.Contains(b), "unmodified entities stay untouched")
}

func ptr[T any](v T) *T {
	return &v
}
