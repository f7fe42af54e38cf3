package strata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable_Empty(t *testing.T) {
	tbl := NewTable[int]()

	require.True(t, tbl.IsEmpty())
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, 0, tbl.PageCount())
	require.False(t, tbl.Contains(ID(0)))
	require.Nil(t, tbl.TryGet(ID(0)))
	require.False(t, tbl.Remove(ID(0)))

	// Zero value works without the constructor.
	var zero Table[int]
	require.True(t, zero.IsEmpty())
	require.Nil(t, zero.TryGet(ID(7)))
}

func TestTable_AddRemove(t *testing.T) {
	tbl := NewTable[int]()

	tbl.Add(ID(2), 20)
	tbl.Add(ID(900), 9000)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, 1, tbl.PageCount())
	require.Equal(t, 20, *tbl.Get(ID(2)))
	require.Equal(t, 9000, *tbl.Get(ID(900)))

	// An index past the first page materializes new pages, leaving the
	// untouched range nil.
	tbl.Add(ID(PageSize*2+5), 1)
	require.Equal(t, 3, tbl.PageCount())
	require.NotNil(t, tbl.TryPage(0))
	require.Nil(t, tbl.TryPage(1))
	require.NotNil(t, tbl.TryPage(2))

	require.True(t, tbl.Remove(ID(900)))
	require.False(t, tbl.Remove(ID(900)))
	require.False(t, tbl.Contains(ID(900)))
	require.Equal(t, 2, tbl.Len())
}

func TestTable_GenerationsShareSlot(t *testing.T) {
	tbl := NewTable[int]()

	// Tables ignore generations; two generations of the same index address
	// the same slot.
	first := NewID(4, 0)
	second := first.NextGen()
	tbl.Add(first, 1)
	require.True(t, tbl.Contains(second))
	tbl.Add(second, 2)
	require.Equal(t, 2, *tbl.Get(first))
	require.Equal(t, 1, tbl.Len())
}

func TestTable_TryAddGetOrAddSet(t *testing.T) {
	tbl := NewTable[int]()

	require.True(t, tbl.TryAdd(ID(1), 10))
	require.False(t, tbl.TryAdd(ID(1), 11))
	require.Equal(t, 10, *tbl.Get(ID(1)))

	v := tbl.GetOrAdd(ID(3))
	require.Equal(t, 0, *v)
	*v = 30
	require.Equal(t, 30, *tbl.Get(ID(3)))

	val := 40
	tbl.Set(ID(4), &val)
	require.Equal(t, 40, *tbl.Get(ID(4)))
	tbl.Set(ID(4), nil)
	require.False(t, tbl.Contains(ID(4)))
}

func TestTable_GetAbsentPanics(t *testing.T) {
	tbl := NewTable[int]()
	require.Panics(t, func() { tbl.Get(ID(0)) })

	tbl.Add(ID(0), 1)
	require.Panics(t, func() { tbl.Get(ID(1)) })
}

func TestTable_MoveValue(t *testing.T) {
	tbl := NewTable[int]()
	tbl.Add(ID(1), 10)
	tbl.Add(ID(2), 20)

	require.True(t, tbl.MoveValue(ID(1), ID(2)), "destination is overwritten")
	require.False(t, tbl.Contains(ID(1)))
	require.Equal(t, 10, *tbl.Get(ID(2)))

	// Cross-page move.
	require.True(t, tbl.MoveValue(ID(2), ID(PageSize+7)))
	require.Equal(t, 10, *tbl.Get(ID(PageSize + 7)))

	require.False(t, tbl.MoveValue(ID(1), ID(2)), "absent source moves nothing")
}

func TestTable_ClearVariants(t *testing.T) {
	tbl := NewTable[int]()
	tbl.Add(ID(1), 10)
	tbl.Add(ID(PageSize+1), 20)

	tbl.ClearPages()
	require.True(t, tbl.IsEmpty())
	require.Equal(t, 2, tbl.PageCount(), "pages stay allocated")

	tbl.Add(ID(1), 10)
	tbl.Clear()
	require.Equal(t, 0, tbl.PageCount())
}

func TestTable_All(t *testing.T) {
	tbl := NewTable[int]()
	tbl.Add(ID(PageSize+3), 3)
	tbl.Add(ID(0), 1)
	tbl.Add(ID(70), 2)

	got := make([]int, 0, 3)
	for v := range tbl.All() {
		got = append(got, *v)
	}
	require.Equal(t, []int{1, 2, 3}, got, "ascending index order regardless of insertion order")
}

func TestRemoveJoin(t *testing.T) {
	pos := NewTable[int]()
	pos.Add(ID(1), 10)
	pos.Add(ID(2), 20)
	pos.Add(ID(PageSize+4), 30)

	destroyed := NewTable[Unit]()
	destroyed.Add(ID(2), Unit{})
	destroyed.Add(ID(PageSize+4), Unit{})
	destroyed.Add(ID(PageSize*3), Unit{}) // page pos never touched

	RemoveJoin(pos, destroyed)
	require.True(t, pos.Contains(ID(1)))
	require.False(t, pos.Contains(ID(2)))
	require.False(t, pos.Contains(ID(PageSize+4)))
	require.Equal(t, 1, pos.Len())
}
