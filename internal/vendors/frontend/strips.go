package frontend

import (
	"fmt"

	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/unpack"
)

// ReadUnpackedStrips reads every strip named by StripOffsets/
// StripByteCounts in `dir` and unpacks them into a flat row-major sample
// buffer, for the common case of an uncompressed (Compression==1) raw
// SubIFD (spec §4.8). Most vendors' uncompressed paths share this exact
// shape; only the bit order and sample width vary per vendor.
func ReadUnpackedStrips(view *rawio.View, dir *tiff.Dir, width, height, bitsPerSample int, order unpack.Order) ([]uint16, error) {
	offsets := ReadTagIntArray(dir, tiff.TagStripOffsets)
	counts := ReadTagIntArray(dir, tiff.TagStripByteCounts)
	if len(offsets) == 0 || len(offsets) != len(counts) {
		return nil, fmt.Errorf("frontend: missing or mismatched strip offset/count tags")
	}
	rowsPerStrip := ReadTagInt(dir, tiff.TagRowsPerStrip)
	if rowsPerStrip == 0 {
		rowsPerStrip = height
	}

	out := make([]uint16, 0, width*height)
	for i, off := range offsets {
		buf, err := view.BytesAt(int64(off), counts[i])
		if err != nil {
			return nil, fmt.Errorf("frontend: strip %d out of range: %w", i, err)
		}
		rows := rowsPerStrip
		if remaining := height - i*rowsPerStrip; remaining < rows {
			rows = remaining
		}
		if rows <= 0 {
			continue
		}
		samples, err := unpack.UnpackRaw(buf, bitsPerSample, rows*width, order)
		if err != nil {
			return nil, fmt.Errorf("frontend: strip %d unpack: %w", i, err)
		}
		out = append(out, samples...)
	}
	if len(out) < width*height {
		return nil, fmt.Errorf("frontend: decoded %d samples, want %d", len(out), width*height)
	}
	return out[:width*height], nil
}

// DeterminePattern reads the CFA tile dimensions and raw CFAPattern bytes
// of a raw SubIFD. It reports ok=false when either the CFAPattern or the
// CFARepeatPatternDim tag is missing, leaving any default to the caller.
func DeterminePattern(dir *tiff.Dir) (patternWidth, patternHeight int, raw []byte, ok bool) {
	dims := ReadTagIntArray(dir, tiff.TagCFARepeatPatternDim)
	e, hasEntry := dir.Entry(tiff.TagCFAPattern)
	if !hasEntry || len(dims) != 2 {
		return 0, 0, nil, false
	}
	return dims[0], dims[1], e.Bytes(), true
}
