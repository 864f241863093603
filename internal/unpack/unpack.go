// Package unpack converts packed sub-byte sample streams (10/12/14-bit
// samples packed contiguously, in either bit order) into 16-bit sample
// arrays (spec §4.8). It is generalized from the teacher's
// ConvertBytesToUInt16/32/64 helpers in utils/utils.go, which only ever
// handled whole-byte-aligned values, into a bit-level cursor.
package unpack

import "github.com/tacusci/rawkit/pkg/rawerr"

// Order is the bit-packing convention within each byte.
type Order uint8

const (
	// MSBFirst packs the most significant bit of each sample first
	// (the common TIFF PackBits-style convention).
	MSBFirst Order = iota
	// LSBFirst packs the least significant bit first (some Nikon/Sony
	// raw streams).
	LSBFirst
)

// bitReader walks a byte slice one bit at a time in the requested Order.
type bitReader struct {
	data  []byte
	order Order
	pos   int // bit position from the start of data
}

func (r *bitReader) bitsLeft() int { return len(r.data)*8 - r.pos }

func (r *bitReader) read(n int) (uint32, bool) {
	if n <= 0 || n > 32 || r.bitsLeft() < n {
		return 0, false
	}
	var v uint32
	for i := 0; i < n; i++ {
		byteIdx := (r.pos) / 8
		bitIdx := r.pos % 8
		var bit uint32
		if r.order == MSBFirst {
			bit = uint32(r.data[byteIdx]>>(7-bitIdx)) & 1
			v = (v << 1) | bit
		} else {
			bit = uint32(r.data[byteIdx]>>bitIdx) & 1
			v |= bit << uint(i)
		}
		r.pos++
	}
	return v, true
}

// Unpack reads `count` samples of `bitsPerSample` width (10, 12 or 14 are
// the only widths any known vendor uses, but the cursor is general) from
// `data` in the given bit order, scaling each sample up to the full
// 16-bit range by left-shifting into the high bits.
func Unpack(data []byte, bitsPerSample int, count int, order Order) ([]uint16, error) {
	if bitsPerSample <= 0 || bitsPerSample > 16 {
		return nil, rawerr.ErrInvalidParam
	}
	r := &bitReader{data: data, order: order}
	out := make([]uint16, count)
	shift := uint(16 - bitsPerSample)
	for i := 0; i < count; i++ {
		v, ok := r.read(bitsPerSample)
		if !ok {
			return nil, rawerr.ErrUnexpectedEOF
		}
		out[i] = uint16(v << shift)
	}
	return out, nil
}

// UnpackRaw is like Unpack but does not scale samples up to 16 bits,
// returning the raw bitsPerSample-wide value in the low bits. Most vendor
// front-ends want this form since black/white levels are published in the
// sensor's native bit depth, not a rescaled one.
func UnpackRaw(data []byte, bitsPerSample int, count int, order Order) ([]uint16, error) {
	if bitsPerSample <= 0 || bitsPerSample > 16 {
		return nil, rawerr.ErrInvalidParam
	}
	r := &bitReader{data: data, order: order}
	out := make([]uint16, count)
	for i := 0; i < count; i++ {
		v, ok := r.read(bitsPerSample)
		if !ok {
			return nil, rawerr.ErrUnexpectedEOF
		}
		out[i] = uint16(v)
	}
	return out, nil
}

// PackedSize returns the number of bytes `count` samples of `bitsPerSample`
// width occupy, rounded up to a whole byte.
func PackedSize(bitsPerSample, count int) int {
	bits := bitsPerSample * count
	return (bits + 7) / 8
}
