package strata

import (
	"fmt"
	"math"

	"github.com/arloliu/strata/endian"
	"github.com/arloliu/strata/errs"
	"github.com/arloliu/strata/internal/hash"
	"github.com/arloliu/strata/internal/pool"
)

// Record wire form, little-endian by default:
//
//	u32 modified bit count | u32 present bit count | u32 value count
//	modified words (8 bytes each)
//	present words (8 bytes each)
//	values (codec-defined width each)
//	u64 xxHash64 of everything above
//
// This is the bit-exact layout of a DeltaStream; packet framing, compression,
// and socket I/O are the consuming collaborator's concern.

const (
	recordHeaderSize  = 12
	recordTrailerSize = 8
)

// ValueCodec encodes and decodes single component values within a record.
type ValueCodec[T any] interface {
	// AppendValue appends the wire form of value to dst and returns the
	// extended slice.
	AppendValue(dst []byte, value T) []byte
	// DecodeValue decodes one value from the front of src, returning the
	// value and the number of bytes consumed.
	DecodeValue(src []byte) (T, int, error)
}

// Uint32Codec encodes uint32 values as 4 fixed bytes.
type Uint32Codec struct {
	Engine endian.EndianEngine
}

func (c Uint32Codec) AppendValue(dst []byte, value uint32) []byte {
	return c.Engine.AppendUint32(dst, value)
}

func (c Uint32Codec) DecodeValue(src []byte) (uint32, int, error) {
	if len(src) < 4 {
		return 0, 0, errs.ErrStreamTruncated
	}

	return c.Engine.Uint32(src[:4]), 4, nil
}

// Uint64Codec encodes uint64 values as 8 fixed bytes.
type Uint64Codec struct {
	Engine endian.EndianEngine
}

func (c Uint64Codec) AppendValue(dst []byte, value uint64) []byte {
	return c.Engine.AppendUint64(dst, value)
}

func (c Uint64Codec) DecodeValue(src []byte) (uint64, int, error) {
	if len(src) < 8 {
		return 0, 0, errs.ErrStreamTruncated
	}

	return c.Engine.Uint64(src[:8]), 8, nil
}

// Float64Codec encodes float64 values as their 8-byte IEEE 754 bits.
type Float64Codec struct {
	Engine endian.EndianEngine
}

func (c Float64Codec) AppendValue(dst []byte, value float64) []byte {
	return c.Engine.AppendUint64(dst, math.Float64bits(value))
}

func (c Float64Codec) DecodeValue(src []byte) (float64, int, error) {
	if len(src) < 8 {
		return 0, 0, errs.ErrStreamTruncated
	}

	return math.Float64frombits(c.Engine.Uint64(src[:8])), 8, nil
}

// IDCodec encodes entity ids as their combined 4-byte integer form: index in
// the low bits, generation in the high bits.
type IDCodec struct {
	Engine endian.EndianEngine
}

func (c IDCodec) AppendValue(dst []byte, value ID) []byte {
	return c.Engine.AppendUint32(dst, uint32(value))
}

func (c IDCodec) DecodeValue(src []byte) (ID, int, error) {
	if len(src) < 4 {
		return 0, 0, errs.ErrStreamTruncated
	}

	return ID(c.Engine.Uint32(src[:4])), 4, nil
}

func wordsFor(bitCount int) int {
	return (bitCount + maskLow) >> maskShift
}

// DeltaEncoder turns DeltaStream records into their wire form. The encoder
// owns a pooled buffer; call Finish to return it once the encoding session is
// complete.
type DeltaEncoder[T any] struct {
	engine endian.EndianEngine
	codec  ValueCodec[T]
	buf    *pool.ByteBuffer
}

// NewDeltaEncoder creates an encoder writing values through codec with the
// given byte order.
func NewDeltaEncoder[T any](engine endian.EndianEngine, codec ValueCodec[T]) *DeltaEncoder[T] {
	return &DeltaEncoder[T]{
		engine: engine,
		codec:  codec,
		buf:    pool.GetRecordBuffer(),
	}
}

// Encode appends the wire form of s, checksum included, and returns the
// encoded record. The returned slice is valid until the next Encode or
// Finish and must not be modified.
func (e *DeltaEncoder[T]) Encode(s *DeltaStream[T]) []byte {
	e.buf.Reset()
	b := e.buf.B
	b = e.engine.AppendUint32(b, uint32(s.modified.Len()))
	b = e.engine.AppendUint32(b, uint32(s.values.present.Len()))
	b = e.engine.AppendUint32(b, uint32(len(s.values.values)))
	for _, w := range s.modified.Words() {
		b = e.engine.AppendUint64(b, w)
	}
	for _, w := range s.values.present.Words() {
		b = e.engine.AppendUint64(b, w)
	}
	for _, v := range s.values.values {
		b = e.codec.AppendValue(b, v)
	}
	b = e.engine.AppendUint64(b, hash.Checksum(b))
	e.buf.B = b

	return b
}

// Finish returns the encoder's buffer to the pool. The encoder is no longer
// usable afterwards.
func (e *DeltaEncoder[T]) Finish() {
	pool.PutRecordBuffer(e.buf)
	e.buf = nil
}

// DeltaDecoder reconstructs DeltaStream records from their wire form.
type DeltaDecoder[T any] struct {
	engine endian.EndianEngine
	codec  ValueCodec[T]
}

// NewDeltaDecoder creates a decoder reading values through codec with the
// given byte order.
func NewDeltaDecoder[T any](engine endian.EndianEngine, codec ValueCodec[T]) *DeltaDecoder[T] {
	return &DeltaDecoder[T]{engine: engine, codec: codec}
}

// Decode verifies data's checksum and rebuilds the record into out, reusing
// out's backing storage. Decoding is the one boundary where foreign bytes
// arrive, so failures are expected conditions: truncated or inconsistent
// records return sentinel-wrapped errors and leave out in an unspecified
// state.
func (d *DeltaDecoder[T]) Decode(data []byte, out *DeltaStream[T]) error {
	if len(data) < recordHeaderSize+recordTrailerSize {
		return fmt.Errorf("%w: %d byte record", errs.ErrStreamTruncated, len(data))
	}
	payload := data[:len(data)-recordTrailerSize]
	if d.engine.Uint64(data[len(data)-recordTrailerSize:]) != hash.Checksum(payload) {
		return errs.ErrChecksumMismatch
	}

	modBits := int(d.engine.Uint32(payload[0:4]))
	presBits := int(d.engine.Uint32(payload[4:8]))
	valCount := int(d.engine.Uint32(payload[8:12]))
	off := recordHeaderSize

	modWords := wordsFor(modBits)
	presWords := wordsFor(presBits)
	if len(payload) < off+(modWords+presWords)*8 {
		return fmt.Errorf("%w: bit sections", errs.ErrStreamTruncated)
	}

	out.Clear()
	for i := 0; i < modWords; i++ {
		out.modified.words = append(out.modified.words, d.engine.Uint64(payload[off:off+8]))
		off += 8
	}
	out.modified.length = modBits
	for i := 0; i < presWords; i++ {
		out.values.present.words = append(out.values.present.words, d.engine.Uint64(payload[off:off+8]))
		off += 8
	}
	out.values.present.length = presBits

	for i := 0; i < valCount; i++ {
		v, n, err := d.codec.DecodeValue(payload[off:])
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		out.values.values = append(out.values.values, v)
		off += n
	}
	if off != len(payload) {
		return fmt.Errorf("%w: %d trailing bytes", errs.ErrStreamCorrupted, len(payload)-off)
	}
	if out.modified.CountOnes() != presBits {
		return fmt.Errorf("%w: modified bits disagree with present length", errs.ErrStreamCorrupted)
	}
	if out.values.present.CountOnes() != valCount {
		return fmt.Errorf("%w: present bits disagree with value count", errs.ErrStreamCorrupted)
	}

	return nil
}
