// Package olympus implements Olympus's ORF adaptive-predictor compression
// (spec §4.11): a carry-propagated adaptive Rice-like code with no fixed
// Huffman table — the code length for each sample's difference adapts
// from a running bit-count estimate carried from the previous samples in
// the same row, per libopenraw's olympus/decompress.rs.
package olympus

import (
	"github.com/tacusci/rawkit/internal/decode/bitstream"
	"github.com/tacusci/rawkit/pkg/rawerr"
)

// carryState tracks the adaptive predictor's running estimate of the
// per-sample code length, carried across a whole row (spec §4.11).
type carryState struct {
	carry int32
	nbits int32
}

func newCarryState() carryState {
	return carryState{carry: 0, nbits: 2}
}

// adapt updates the running bit estimate from the most recent decoded
// difference, widening or narrowing the next sample's code length — the
// core "adaptive" part of the adaptive predictor.
func (c *carryState) adapt(diff int32) {
	c.carry = (c.carry + abs32(diff)) / 2
	n := int32(1)
	for (int32(1) << uint(n)) < c.carry+1 {
		n++
	}
	if n < 2 {
		n = 2
	}
	if n > 16 {
		n = 16
	}
	c.nbits = n
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// readAdaptive reads one Rice-coded value: a unary prefix (count of 1-bits
// before a terminating 0) giving the high bits, followed by `nbits` raw
// low bits.
func readAdaptive(r *bitstream.Reader, nbits int32) (int32, error) {
	var prefix int32
	for {
		bit, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		prefix++
		if prefix > 32 {
			return 0, rawerr.ErrFormat
		}
	}
	low, err := r.ReadBits(int(nbits))
	if err != nil {
		return 0, err
	}
	v := (prefix << uint(nbits)) | int32(low)
	// Zigzag-style sign recovery: even values are non-negative, odd are
	// negative, matching the encoder's interleaving of +/- differences.
	if v&1 != 0 {
		return -((v + 1) / 2), nil
	}
	return v / 2, nil
}

// DecodePlane decompresses one ORF component plane using the nearest-left
// neighbour as the predictor base and a per-row adaptive carry state reset
// at each row's start (spec §4.11).
func DecodePlane(data []byte, width, height int) ([]int32, error) {
	r := bitstream.NewReader(data)
	out := make([]int32, width*height)
	for y := 0; y < height; y++ {
		state := newCarryState()
		var prev int32
		if y > 0 {
			prev = out[(y-1)*width]
		}
		for x := 0; x < width; x++ {
			diff, err := readAdaptive(r, state.nbits)
			if err != nil {
				return nil, err
			}
			state.adapt(diff)
			var pred int32
			switch {
			case x > 0:
				pred = out[y*width+x-1]
			case y > 0:
				pred = prev
			default:
				pred = 1 << 9
			}
			out[y*width+x] = pred + diff
		}
	}
	return out, nil
}
