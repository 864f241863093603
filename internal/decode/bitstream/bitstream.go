// Package bitstream provides the MSB-first bit reader and canonical
// Huffman table shared by the LJPEG, Nikon and Pentax decompressors (spec
// §4.9, §4.10, §4.13): all three read JPEG-style code-length/code-value
// Huffman tables and walk them bit-by-bit against a byte-stuffed stream.
package bitstream

import (
	"io"

	"github.com/tacusci/rawkit/pkg/rawerr"
)

// Reader pulls bits MSB-first out of a byte slice, transparently
// unstuffing the 0xFF 0x00 escape sequence JPEG-derived bitstreams use so
// a literal 0xFF byte in the entropy-coded data isn't mistaken for a
// marker.
type Reader struct {
	data    []byte
	bytePos int
	bitBuf  uint32
	bitCnt  int
}

// NewReader wraps a byte slice for bit-at-a-time consumption.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) fill() error {
	for r.bitCnt <= 24 {
		if r.bytePos >= len(r.data) {
			// Pad with zero bits past EOF; callers detect real
			// truncation by tracking expected sample counts.
			r.bitBuf |= 0 << uint(24-r.bitCnt)
			r.bitCnt += 8
			continue
		}
		b := r.data[r.bytePos]
		r.bytePos++
		if b == 0xFF {
			if r.bytePos < len(r.data) && r.data[r.bytePos] == 0x00 {
				r.bytePos++
			} else if r.bytePos < len(r.data) {
				// A real marker: stop feeding further bytes.
				r.bytePos--
				b = 0
			}
		}
		r.bitBuf |= uint32(b) << uint(24-r.bitCnt)
		r.bitCnt += 8
	}
	return nil
}

// Peek returns the next n bits (n<=16) without consuming them.
func (r *Reader) Peek(n int) uint32 {
	r.fill()
	return r.bitBuf >> uint(32-n)
}

// Consume advances the cursor by n bits.
func (r *Reader) Consume(n int) {
	r.bitBuf <<= uint(n)
	r.bitCnt -= n
}

// ReadBits reads n bits (n<=16) as an unsigned value.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	r.fill()
	if r.bitCnt < n && r.bytePos >= len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	v := r.bitBuf >> uint(32-n)
	r.Consume(n)
	return v, nil
}

// ReadSigned reads an n-bit JPEG-lossless "magnitude category" value: n
// bits whose top bit selects the sign, extending to a signed difference
// (spec §4.9's DC-difference convention, shared by LJPEG/Nikon/Pentax).
func (r *Reader) ReadSigned(n int) (int32, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	if v < (1 << uint(n-1)) {
		return int32(v) - int32(1<<uint(n)) + 1, nil
	}
	return int32(v), nil
}

// HuffTable is a canonical JPEG-style Huffman decode table: codes are
// assigned shortest-first, in value order, per the standard DHT
// algorithm.
type HuffTable struct {
	maxCode  [18]int32
	valPtr   [18]int32
	minCode  [18]int32
	values   []byte
}

// BuildHuffTable constructs a canonical table from the 16 per-length code
// counts (bits[1..16]) and the flattened value list, exactly as a JPEG
// DHT segment encodes it.
func BuildHuffTable(counts [16]int, values []byte) *HuffTable {
	h := &HuffTable{values: values}
	code := int32(0)
	k := int32(0)
	for l := 1; l <= 16; l++ {
		n := counts[l-1]
		if n == 0 {
			h.maxCode[l] = -1
		} else {
			h.valPtr[l] = k
			h.minCode[l] = code
			code += int32(n)
			k += int32(n)
			h.maxCode[l] = code - 1
		}
		code <<= 1
	}
	return h
}

// Decode reads one Huffman-coded symbol (a magnitude category byte).
func (t *HuffTable) Decode(r *Reader) (byte, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		bit, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		code = (code << 1) | int32(bit)
		if t.maxCode[l] >= 0 && code <= t.maxCode[l] {
			idx := t.valPtr[l] + (code - t.minCode[l])
			if int(idx) >= len(t.values) {
				return 0, rawerr.ErrFormat
			}
			return t.values[idx], nil
		}
	}
	return 0, rawerr.ErrFormat
}
