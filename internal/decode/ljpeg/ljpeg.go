// Package ljpeg implements the Lossless JPEG (SOF3) decoder used by
// Canon's CR2 and as the base codec several other vendors reuse (spec
// §4.9): Huffman-coded per-component differences, JPEG's seven predictor
// modes, Canon's multi-slice reassembly, and a bounded worker pool for
// decoding independent tiles in parallel.
package ljpeg

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/tacusci/rawkit/internal/decode/bitstream"
	"github.com/tacusci/rawkit/pkg/rawerr"
)

const (
	markerSOI = 0xD8
	markerDHT = 0xC4
	markerSOF3 = 0xC3
	markerSOS = 0xDA
	markerEOI = 0xD9
)

// Frame describes an SOF3 lossless frame.
type Frame struct {
	Precision  int
	Height     int
	Width      int
	Components int
}

// Header is the parsed result of an LJPEG stream up to (not including) the
// entropy-coded scan data.
type Header struct {
	Frame      Frame
	Predictor  int // 1..7, from the SOS scan header
	PointTransform int
	Tables     map[int]*bitstream.HuffTable
	ScanStart  int // byte offset of the first entropy-coded byte within the stream
}

// ParseHeader walks SOI/DHT/SOF3/SOS markers and returns everything needed
// to decode the entropy-coded data that immediately follows SOS.
func ParseHeader(data []byte) (*Header, error) {
	pos := 0
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, fmt.Errorf("ljpeg: missing SOI")
	}
	pos = 2
	h := &Header{Tables: map[int]*bitstream.HuffTable{}}

	for pos < len(data) {
		if data[pos] != 0xFF {
			pos++
			continue
		}
		marker := data[pos+1]
		pos += 2
		if marker == markerSOI || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			continue
		}
		if len(data) < pos+2 {
			return nil, rawerr.ErrUnexpectedEOF
		}
		segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		segStart := pos + 2
		segEnd := pos + segLen
		if segEnd > len(data) {
			return nil, rawerr.ErrUnexpectedEOF
		}

		switch marker {
		case markerDHT:
			if err := parseDHT(data[segStart:segEnd], h); err != nil {
				return nil, err
			}
		case markerSOF3:
			if segEnd-segStart < 6 {
				return nil, rawerr.ErrFormat
			}
			f := data[segStart:segEnd]
			h.Frame = Frame{
				Precision:  int(f[0]),
				Height:     int(binary.BigEndian.Uint16(f[1:3])),
				Width:      int(binary.BigEndian.Uint16(f[3:5])),
				Components: int(f[5]),
			}
		case markerSOS:
			if segEnd-segStart < 4 {
				return nil, rawerr.ErrFormat
			}
			s := data[segStart:segEnd]
			nComp := int(s[0])
			tail := s[1+2*nComp:]
			h.Predictor = int(tail[0])
			h.PointTransform = int(tail[2] & 0x0F)
			h.ScanStart = segEnd
			return h, nil
		}
		pos = segEnd
	}
	return nil, fmt.Errorf("ljpeg: no SOS marker found")
}

func parseDHT(seg []byte, h *Header) error {
	for len(seg) > 0 {
		if len(seg) < 17 {
			return rawerr.ErrFormat
		}
		tableID := int(seg[0] & 0x0F)
		var counts [16]int
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = int(seg[1+i])
			total += counts[i]
		}
		if len(seg) < 17+total {
			return rawerr.ErrFormat
		}
		values := append([]byte(nil), seg[17:17+total]...)
		h.Tables[tableID] = bitstream.BuildHuffTable(counts, values)
		seg = seg[17+total:]
	}
	return nil
}

// applyPredictor implements the seven JPEG lossless predictors (spec
// §4.9), given the left (a), above (b) and above-left (c) neighbours.
func applyPredictor(mode int, a, b, c int32) int32 {
	switch mode {
	case 0:
		return 0
	case 1:
		return a
	case 2:
		return b
	case 3:
		return c
	case 4:
		return a + b - c
	case 5:
		return a + (b-c)/2
	case 6:
		return b + (a-c)/2
	case 7:
		return (a + b) / 2
	default:
		return a
	}
}

// DecodeComponent decodes one component's samples for a single-slice,
// single-component lossless scan of `width`x`height` samples, predicted
// per `header.Predictor` and Huffman-coded with `table`.
func DecodeComponent(r *bitstream.Reader, table *bitstream.HuffTable, width, height, predictor, pointTransform int) ([]int32, error) {
	out := make([]int32, width*height)
	base := int32(1) << uint(pointTransform)
	_ = base
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
			var a, b, c int32
			if x > 0 {
				a = out[y*width+x-1]
			}
			if y > 0 {
				b = out[(y-1)*width+x]
			}
			if x > 0 && y > 0 {
				c = out[(y-1)*width+x-1]
			}
			var pred int32
			switch {
			case x == 0 && y == 0:
				pred = 1 << uint(15) // JPEG lossless default predictor for the first sample
			case y == 0:
				pred = a
			case x == 0:
				pred = b
			default:
				pred = applyPredictor(predictor, a, b, c)
			}
			out[y*width+x] = pred + diff
		}
	}
	return out, nil
}

// DecodeSlices reassembles Canon's multi-slice CR2 layout (spec §4.9):
// `sliceData`/`sliceWidths` give each slice's independent entropy-coded
// byte range and column count, all sharing `height` rows. Slices reset
// predictor state at their own left edge, so each is decoded independently
// (and in parallel, via a bounded worker pool) before being placed side
// by side, left to right, as vertical bands of one row-major image buffer.
func DecodeSlices(sliceData [][]byte, h *Header, sliceWidths []int, height int, maxWorkers int) ([]int32, error) {
	if len(sliceData) != len(sliceWidths) {
		return nil, fmt.Errorf("ljpeg: slice data/width count mismatch: %d vs %d", len(sliceData), len(sliceWidths))
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	table := h.Tables[0]
	if table == nil {
		return nil, fmt.Errorf("ljpeg: no Huffman table 0")
	}

	results := make([][]int32, len(sliceWidths))
	errs := make([]error, len(sliceWidths))

	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	for i, w := range sliceWidths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, w int) {
			defer wg.Done()
			defer func() { <-sem }()
			r := bitstream.NewReader(sliceData[i])
			out, err := DecodeComponent(r, table, w, height, h.Predictor, h.PointTransform)
			results[i] = out
			errs[i] = err
		}(i, w)
	}
	wg.Wait()

	totalWidth := 0
	for _, w := range sliceWidths {
		totalWidth += w
	}
	out := make([]int32, totalWidth*height)
	colOffset := 0
	for i, w := range sliceWidths {
		if errs[i] != nil {
			return nil, fmt.Errorf("ljpeg: slice %d: %w", i, errs[i])
		}
		for y := 0; y < height; y++ {
			copy(out[y*totalWidth+colOffset:y*totalWidth+colOffset+w], results[i][y*w:(y+1)*w])
		}
		colOffset += w
	}
	return out, nil
}
