package strata

import "math/bits"

const (
	// maskShift and maskBits describe a single 64-bit presence word.
	maskShift = 6
	maskBits  = 1 << maskShift
	maskLow   = maskBits - 1
)

// BitArray is the fixed presence bitmap backing one Page: 16 words of 64 bits,
// one bit per slot. A set bit means the slot holds a meaningful value.
//
// BitArray is a pure value type with no failure modes; indices are
// caller-guaranteed in range.
type BitArray [pageWordCount]uint64

// Count returns the number of set bits.
func (b *BitArray) Count() int {
	total := 0
	for w := 0; w < pageWordCount; w++ {
		total += bits.OnesCount64(b[w])
	}

	return total
}

// IsEmpty reports whether no bits are set.
func (b *BitArray) IsEmpty() bool {
	for w := 0; w < pageWordCount; w++ {
		if b[w] != 0 {
			return false
		}
	}

	return true
}

// Add sets bit i and reports whether it was previously clear.
func (b *BitArray) Add(i int) bool {
	word := &b[i>>maskShift]
	bit := uint64(1) << (i & maskLow)
	added := *word&bit == 0
	*word |= bit

	return added
}

// Remove clears bit i and reports whether it was previously set.
func (b *BitArray) Remove(i int) bool {
	word := &b[i>>maskShift]
	bit := uint64(1) << (i & maskLow)
	removed := *word&bit != 0
	*word &^= bit

	return removed
}

// Get reports whether bit i is set.
func (b *BitArray) Get(i int) bool {
	return b[i>>maskShift]>>(i&maskLow)&1 != 0
}

// Word returns the w-th 64-bit word.
func (b *BitArray) Word(w int) uint64 {
	return b[w]
}

// OrWord sets every bit of mask within word w.
func (b *BitArray) OrWord(w int, mask uint64) {
	b[w] |= mask
}

// ClearWord clears every bit of mask within word w and returns the bits that
// were actually cleared, so callers can reset the vacated slots.
func (b *BitArray) ClearWord(w int, mask uint64) uint64 {
	removed := b[w] & mask
	b[w] &^= mask

	return removed
}

// Clear resets all bits.
func (b *BitArray) Clear() {
	*b = BitArray{}
}

// BitStream is a growable, ordered bit sequence used to serialize presence and
// modification flags compactly for replication. It supports only append and
// indexed read; bits already pushed are never mutated. A new backing word is
// allocated every 64 pushes.
type BitStream struct {
	length int
	words  []uint64
}

// Len returns the number of bits pushed so far.
func (s *BitStream) Len() int {
	return s.length
}

// CountOnes returns the number of set bits.
func (s *BitStream) CountOnes() int {
	total := 0
	for _, w := range s.words {
		total += bits.OnesCount64(w)
	}

	return total
}

// Get reports whether bit i is set. The index must be less than Len.
func (s *BitStream) Get(i int) bool {
	return s.words[i>>maskShift]>>(i&maskLow)&1 != 0
}

// Words returns the backing words. The returned slice is a view into the
// stream and must not be modified; it remains valid until the next Push.
func (s *BitStream) Words() []uint64 {
	return s.words
}

// PushTrue appends a set bit.
func (s *BitStream) PushTrue() {
	bi := s.length & maskLow
	if bi == 0 {
		s.words = append(s.words, 1)
	} else {
		s.words[s.length>>maskShift] |= 1 << bi
	}
	s.length++
}

// PushFalse appends a clear bit.
func (s *BitStream) PushFalse() {
	if s.length&maskLow == 0 {
		s.words = append(s.words, 0)
	}
	s.length++
}

// Push appends one bit.
func (s *BitStream) Push(value bool) {
	if value {
		s.PushTrue()
	} else {
		s.PushFalse()
	}
}

// Clear empties the stream, retaining the backing storage for reuse.
func (s *BitStream) Clear() {
	s.length = 0
	s.words = s.words[:0]
}
