package strata

import (
	"fmt"

	"github.com/arloliu/strata/errs"
)

const (
	idBits = 32

	// GenBits is the width of the generation field embedded in an ID.
	GenBits = 8
	// GenCount is the number of distinct generations before wrapping.
	GenCount = 1 << GenBits
	genMask  = GenCount - 1

	// IndexBits is the width of the index field embedded in an ID.
	IndexBits = idBits - GenBits
	// IndexCount is the number of addressable entity indices.
	IndexCount = 1 << IndexBits
	indexMask  = IndexCount - 1
)

// ID is a generational entity identifier: the low 24 bits are the entity
// index, the high 8 bits the generation. Identity equality requires both
// fields to match; recycling an index increments its generation (wrapping) so
// a freed index cannot alias a live reference holder.
//
// IDs are owned by a Pool and referenced, never owned, everywhere else.
type ID uint32

// NewID builds an ID from an index and a generation. Both values are
// truncated to their field widths.
func NewID(index int, gen uint32) ID {
	return ID(uint32(index)&indexMask | (gen&genMask)<<IndexBits)
}

// Index returns the entity index field.
func (id ID) Index() int {
	return int(id & indexMask)
}

// Gen returns the generation field.
func (id ID) Gen() uint32 {
	return uint32(id) >> IndexBits
}

// WithGen returns the same index with the given generation.
func (id ID) WithGen(gen uint32) ID {
	return ID(uint32(id)&indexMask | (gen&genMask)<<IndexBits)
}

// NextGen returns the same index with the generation incremented, wrapping at
// the field width.
func (id ID) NextGen() ID {
	return id.WithGen((id.Gen() + 1) & genMask)
}

// String renders the id as "index-generation".
func (id ID) String() string {
	return fmt.Sprintf("%d-%d", id.Index(), id.Gen())
}

// GroupID tags a logical partition of the id space. The pool dedicates
// contiguous index pages to a single group once that group first needs a new
// page.
type GroupID uint32

// groupNone marks pages skipped over because the pool's ownership mask
// excludes them.
const groupNone = ^GroupID(0)

// idQueue is a FIFO of recycled ids. Popping advances a head cursor instead
// of reslicing so the backing array is reused once drained.
type idQueue struct {
	items []ID
	head  int
}

func (q *idQueue) push(id ID) {
	q.items = append(q.items, id)
}

func (q *idQueue) pop() (ID, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	id := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}

	return id, true
}

// Pool allocates generational entity ids with free-list recycling,
// partitioned by a page ownership mask so disjoint id ranges can be reserved
// to independent pools sharing one 32-bit id space (for example local vs.
// replicated entities). The mask applies to repeating runs of 64 pages: bit k
// owns every page whose index is congruent to k mod 64. Pools agreeing on
// mutually exclusive masks never hand out overlapping ids, with no
// coordination beyond the masks themselves.
type Pool struct {
	pageMask uint64
	groups   []idQueue
	pages    []GroupID
}

// NewPool creates a pool owning the pages selected by pageMask. The mask must
// have at least one bit set, otherwise no entities could ever be created.
func NewPool(pageMask uint64) (*Pool, error) {
	if pageMask == 0 {
		return nil, errs.ErrZeroPageMask
	}

	return &Pool{pageMask: pageMask}, nil
}

// NewDefaultPool creates a pool owning the entire id space.
func NewDefaultPool() *Pool {
	return &Pool{pageMask: ^uint64(0)}
}

func pageUsable(pageMask uint64, pageIndex int) bool {
	return pageMask&(1<<(pageIndex&maskLow)) != 0
}

// CreateIn returns a live id for the given group. Recycled ids are served
// first; when the group's queue is empty the pool skips any pages not owned
// by its mask, claims the next owned page for the group, enqueues the page's
// remaining slots for future creation, and returns the page's first slot.
func (p *Pool) CreateIn(group GroupID) ID {
	gi := int(group)
	for len(p.groups) <= gi {
		p.groups = append(p.groups, idQueue{})
	}
	if id, ok := p.groups[gi].pop(); ok {
		return id
	}

	for !pageUsable(p.pageMask, len(p.pages)) {
		p.pages = append(p.pages, groupNone)
	}
	base := ID(len(p.pages) * PageSize)
	q := &p.groups[gi]
	for i := 1; i < PageSize; i++ {
		q.push(base + ID(i))
	}
	p.pages = append(p.pages, group)

	return base
}

// Create returns a live id from group 0.
func (p *Pool) Create() ID {
	return p.CreateIn(0)
}

// Recycle returns id to its group's queue with the generation incremented.
// Ids whose page is not owned by this pool's mask are silently ignored, so
// pools sharing an id space can each be handed the full destroyed set.
func (p *Pool) Recycle(id ID) {
	pi := id.Index() >> pageShift
	if !pageUsable(p.pageMask, pi) {
		return
	}
	group := p.pages[pi]
	p.groups[group].push(id.NextGen())
}
