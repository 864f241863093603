// Package pentax implements Pentax's PEF Huffman-coded compression (spec
// §4.13): a stream-embedded Huffman table (read from the MakerNote's
// HuffmanTable tag, or a fixed default), a 13-bit lookup cache for fast
// decode, and horizontal/vertical predictors. Tables deeper than 16 bits
// are rejected as a decompression error (spec Open Question: Pentax
// depth>16 rejection) rather than silently truncated.
package pentax

import (
	"github.com/tacusci/rawkit/internal/decode/bitstream"
	"github.com/tacusci/rawkit/pkg/rawerr"
)

const maxTableDepth = 16
const lookupBits = 13

// Table wraps a bitstream.HuffTable with a 13-bit direct lookup cache: for
// codes no longer than lookupBits, decoding is a single table access
// instead of a bit-at-a-time walk.
type Table struct {
	base    *bitstream.HuffTable
	lookup  [1 << lookupBits]lookupEntry
}

type lookupEntry struct {
	value byte
	bits  uint8 // 0 means "no code of <= lookupBits resolves here"
}

// BuildTable constructs a Pentax Huffman table from its 16 code-length
// counts and flattened value list (the same convention as a JPEG DHT
// segment, spec §4.13), rejecting any table whose longest code exceeds 16
// bits.
func BuildTable(counts [16]int, values []byte) (*Table, error) {
	maxLen := 0
	for l := 16; l >= 1; l-- {
		if counts[l-1] > 0 {
			maxLen = l
			break
		}
	}
	if maxLen > maxTableDepth {
		return nil, rawerr.Decompression("pentax", "Huffman table exceeds the 16-bit depth limit")
	}
	t := &Table{base: bitstream.BuildHuffTable(counts, values)}
	t.buildLookup(counts, values)
	return t, nil
}

func (t *Table) buildLookup(counts [16]int, values []byte) {
	code := uint32(0)
	valIdx := 0
	for l := 1; l <= 16; l++ {
		n := counts[l-1]
		for i := 0; i < n; i++ {
			if l <= lookupBits {
				shifted := code << uint(lookupBits-l)
				span := uint32(1) << uint(lookupBits-l)
				for k := uint32(0); k < span; k++ {
					t.lookup[shifted+k] = lookupEntry{value: values[valIdx], bits: uint8(l)}
				}
			}
			code++
			valIdx++
		}
		code <<= 1
	}
}

// Decode reads one Huffman-coded symbol, using the direct lookup cache
// when the stream's next lookupBits bits resolve a short code, and
// falling back to the bit-at-a-time walk otherwise.
func (t *Table) Decode(r *bitstream.Reader) (byte, error) {
	peeked := r.Peek(lookupBits)
	entry := t.lookup[peeked]
	if entry.bits > 0 {
		r.Consume(int(entry.bits))
		return entry.value, nil
	}
	return t.base.Decode(r)
}

// Predictor selects Pentax's prediction direction, same convention as
// Nikon's (spec §4.13).
type Predictor int

const (
	PredictHorizontal Predictor = iota
	PredictVertical
)

// DecodePlane decodes one component plane using `table` for differences
// and `predictor` to reconstruct absolute sample values.
func DecodePlane(data []byte, table *Table, width, height int, predictor Predictor) ([]int32, error) {
	r := bitstream.NewReader(data)
	out := make([]int32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cat, err := table.Decode(r)
			if err != nil {
				return nil, err
			}
			diff, err := r.ReadSigned(int(cat))
			if err != nil {
				return nil, err
			}
			var pred int32
			switch {
			case x == 0 && y == 0:
				pred = 1 << 13
			case predictor == PredictVertical && y > 0:
				pred = out[(y-1)*width+x]
			case x > 0:
				pred = out[y*width+x-1]
			default:
				pred = out[(y-1)*width+x]
			}
			out[y*width+x] = pred + diff
		}
	}
	return out, nil
}
