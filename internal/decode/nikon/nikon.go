// Package nikon implements Nikon's NEF lossless/lossy compression (spec
// §4.10): a small set of fixed Huffman tables selected per-camera (rather
// than read from the stream like LJPEG's DHT), and a DiffIterator applying
// either a vertical or horizontal predictor depending on scan direction.
package nikon

import (
	"fmt"

	"github.com/tacusci/rawkit/internal/decode/bitstream"
)

// TableID selects one of Nikon's fixed Huffman code tables, as recorded in
// the MakerNote's NEFDecodeTable tag (spec §4.7/§4.10).
type TableID int

const (
	TableLossy12 TableID = iota
	TableLossless12
	TableLossy14
)

// These code-length/value tables are Nikon's fixed, camera-independent
// Huffman tables (the same ones dcraw's nikon_tree ports from Nikon's SDK).
var tableDefs = map[TableID]struct {
	counts [16]int
	values []byte
}{
	TableLossy12: {
		counts: [16]int{0, 1, 5, 1, 1, 1, 1, 1, 1, 2, 0, 0, 0, 0, 0, 0},
		values: []byte{5, 4, 6, 3, 7, 2, 8, 1, 0, 9, 11, 10, 12},
	},
	TableLossless12: {
		counts: [16]int{0, 1, 4, 2, 3, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		values: []byte{0, 1, 5, 4, 6, 3, 7, 2, 8, 9, 11, 10, 12},
	},
	TableLossy14: {
		counts: [16]int{0, 1, 5, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 1},
		values: []byte{5, 4, 6, 3, 7, 2, 8, 1, 9, 0, 10, 11, 12, 13, 14},
	},
}

// BuildTable constructs the canonical Huffman table for a given fixed
// Nikon dialect.
func BuildTable(id TableID) (*bitstream.HuffTable, error) {
	def, ok := tableDefs[id]
	if !ok {
		return nil, fmt.Errorf("nikon: unknown table id %d", id)
	}
	return bitstream.BuildHuffTable(def.counts, def.values), nil
}

// Predictor selects the prediction direction Nikon's scan uses per row
// (spec §4.10): the first sample of a component predicts from a fixed
// seed, vertical predicts from the sample directly above, horizontal from
// the sample directly to the left. Samples without such a neighbour fall
// back: the first row under vertical predicts from the left, and the first
// column under horizontal from the first sample of the row above.
type Predictor int

const (
	PredictVertical Predictor = iota
	PredictHorizontal
)

// DiffIterator decodes one component plane, applying the chosen predictor
// to the Huffman-coded differences (grounded on libopenraw's
// nikon/diffiterator.rs: a streaming cursor that remembers the previous
// value per predictor direction rather than materializing a full
// coefficient grid).
type DiffIterator struct {
	table     *bitstream.HuffTable
	r         *bitstream.Reader
	width     int
	height    int
	predictor Predictor
	vpred     [2]int32 // per-column-parity vertical predictor state
}

// NewDiffIterator builds a diff decoder over the Huffman-coded stream
// starting at the scan data.
func NewDiffIterator(data []byte, table *bitstream.HuffTable, width, height int, predictor Predictor) *DiffIterator {
	return &DiffIterator{
		table:     table,
		r:         bitstream.NewReader(data),
		width:     width,
		height:    height,
		predictor: predictor,
		vpred:     [2]int32{1 << 14, 1 << 14},
	}
}

// Decode reconstructs the full width*height plane.
func (d *DiffIterator) Decode() ([]int32, error) {
	out := make([]int32, d.width*d.height)
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			cat, err := d.table.Decode(d.r)
			if err != nil {
				return nil, err
			}
			diff, err := d.r.ReadSigned(int(cat))
			if err != nil {
				return nil, err
			}
			var pred int32
			switch {
			case x == 0 && y == 0:
				pred = d.vpred[0]
			case d.predictor == PredictVertical && y > 0:
				pred = out[(y-1)*d.width+x]
			case x > 0:
				pred = out[y*d.width+x-1]
			default:
				pred = d.vpred[x%2]
			}
			v := pred + diff
			out[y*d.width+x] = v
			if x < 2 {
				d.vpred[x%2] = v
			}
		}
	}
	return out, nil
}
