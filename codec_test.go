package strata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/strata/endian"
	"github.com/arloliu/strata/errs"
	"github.com/arloliu/strata/internal/hash"
)

func sampleStream(t *testing.T) *DeltaStream[uint32] {
	t.Helper()
	var s DeltaStream[uint32]
	s.PushUnmodified()
	v1, v2 := uint32(7), uint32(0xdeadbeef)
	s.PushModified(&v1)
	s.PushModified(nil)
	s.PushModified(&v2)
	for i := 0; i < 70; i++ {
		s.PushUnmodified()
	}

	return &s
}

func TestDeltaCodec_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	codec := Uint32Codec{Engine: engine}

	src := sampleStream(t)
	enc := NewDeltaEncoder[uint32](engine, codec)
	defer enc.Finish()
	data := enc.Encode(src)

	// Header, two modified words, one present word, two values, checksum.
	require.Len(t, data, 12+2*8+8+2*4+8)

	var dst DeltaStream[uint32]
	dec := NewDeltaDecoder[uint32](engine, codec)
	require.NoError(t, dec.Decode(data, &dst))

	require.Equal(t, src.modified.Len(), dst.modified.Len())
	require.Equal(t, src.ModifiedLen(), dst.ModifiedLen())
	require.Equal(t, src.PresentLen(), dst.PresentLen())
	require.Equal(t, src.ValueLen(), dst.ValueLen())
	for i := 0; i < src.modified.Len(); i++ {
		require.Equal(t, src.IsModified(i), dst.IsModified(i), "modified bit %d", i)
	}
	require.True(t, dst.IsPresent(0))
	require.False(t, dst.IsPresent(1))
	require.True(t, dst.IsPresent(2))
	require.Equal(t, uint32(7), dst.Value(0))
	require.Equal(t, uint32(0xdeadbeef), dst.Value(1))
}

func TestDeltaCodec_BigEndianRoundTrip(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	codec := Uint32Codec{Engine: engine}

	src := sampleStream(t)
	enc := NewDeltaEncoder[uint32](engine, codec)
	defer enc.Finish()
	data := enc.Encode(src)

	var dst DeltaStream[uint32]
	dec := NewDeltaDecoder[uint32](engine, codec)
	require.NoError(t, dec.Decode(data, &dst))
	require.Equal(t, uint32(0xdeadbeef), dst.Value(1))
}

func TestDeltaCodec_DecodeReusesStorage(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	codec := Uint32Codec{Engine: engine}
	enc := NewDeltaEncoder[uint32](engine, codec)
	defer enc.Finish()
	dec := NewDeltaDecoder[uint32](engine, codec)

	var dst DeltaStream[uint32]
	v := uint32(1)

	var s DeltaStream[uint32]
	s.PushModified(&v)
	require.NoError(t, dec.Decode(enc.Encode(&s), &dst))

	// A second decode into the same record replaces its contents.
	var s2 DeltaStream[uint32]
	s2.PushUnmodified()
	v2 := uint32(9)
	s2.PushModified(&v2)
	require.NoError(t, dec.Decode(enc.Encode(&s2), &dst))
	require.Equal(t, 2, dst.modified.Len())
	require.Equal(t, 1, dst.ValueLen())
	require.Equal(t, uint32(9), dst.Value(0))
}

func TestDeltaCodec_ChecksumMismatch(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	codec := Uint32Codec{Engine: engine}

	enc := NewDeltaEncoder[uint32](engine, codec)
	defer enc.Finish()
	data := append([]byte(nil), enc.Encode(sampleStream(t))...)
	data[recordHeaderSize] ^= 0xff

	var dst DeltaStream[uint32]
	dec := NewDeltaDecoder[uint32](engine, codec)
	require.ErrorIs(t, dec.Decode(data, &dst), errs.ErrChecksumMismatch)
}

func TestDeltaCodec_Truncated(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	codec := Uint32Codec{Engine: engine}
	dec := NewDeltaDecoder[uint32](engine, codec)

	var dst DeltaStream[uint32]
	require.ErrorIs(t, dec.Decode([]byte{1, 2, 3}, &dst), errs.ErrStreamTruncated)
}

func TestDeltaCodec_CorruptedCounts(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	codec := Uint32Codec{Engine: engine}

	// A record whose present bits promise more values than it carries.
	var s DeltaStream[uint32]
	v := uint32(5)
	s.PushModified(&v)

	enc := NewDeltaEncoder[uint32](engine, codec)
	defer enc.Finish()
	data := append([]byte(nil), enc.Encode(&s)...)

	// Lie about the value count, then re-sign the payload so the checksum
	// passes and the structural check has to catch it.
	payload := data[:len(data)-recordTrailerSize]
	engine.PutUint32(payload[8:12], 0)
	trimmed := payload[:len(payload)-4]
	trimmed = engine.AppendUint64(trimmed, hash.Checksum(trimmed))

	var dst DeltaStream[uint32]
	dec := NewDeltaDecoder[uint32](engine, codec)
	require.ErrorIs(t, dec.Decode(trimmed, &dst), errs.ErrStreamCorrupted)
}

func TestValueCodecs(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("uint64", func(t *testing.T) {
		c := Uint64Codec{Engine: engine}
		b := c.AppendValue(nil, 1<<40)
		v, n, err := c.DecodeValue(b)
		require.NoError(t, err)
		require.Equal(t, 8, n)
		require.Equal(t, uint64(1)<<40, v)

		_, _, err = c.DecodeValue(b[:3])
		require.ErrorIs(t, err, errs.ErrStreamTruncated)
	})

	t.Run("float64", func(t *testing.T) {
		c := Float64Codec{Engine: engine}
		b := c.AppendValue(nil, -2.5)
		v, n, err := c.DecodeValue(b)
		require.NoError(t, err)
		require.Equal(t, 8, n)
		require.Equal(t, -2.5, v)
	})

	t.Run("id", func(t *testing.T) {
		c := IDCodec{Engine: engine}
		id := NewID(77, 3)
		b := c.AppendValue(nil, id)
		v, n, err := c.DecodeValue(b)
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, id, v)

		_, _, err = c.DecodeValue(nil)
		require.ErrorIs(t, err, errs.ErrStreamTruncated)
	})
}
