// Package bmff implements just enough of ISO-BMFF box walking to read
// Canon CR3 files (spec §4.4): a flat box tree (size, fourcc, payload),
// descending into "moov"/"uuid" containers to find the CMTn boxes that
// hold embedded TIFF directories and the CRAW/CTBO/THMB boxes that locate
// the actual sensor data and thumbnails.
package bmff

import (
	"encoding/binary"
	"fmt"

	"github.com/tacusci/rawkit/internal/rawio"
)

// FourCC is a 4-byte ISO-BMFF box type.
type FourCC [4]byte

func (f FourCC) String() string { return string(f[:]) }

// containerBoxes are walked recursively; every other box type is a leaf
// whose payload is left for the caller. Nothing in this tree parses the
// CMTn/CRAW/THMB/CTBO payloads.
var containerBoxes = map[FourCC]bool{
	{'m', 'o', 'o', 'v'}: true,
	{'t', 'r', 'a', 'k'}: true,
	{'m', 'd', 'i', 'a'}: true,
	{'m', 'i', 'n', 'f'}: true,
	{'s', 't', 'b', 'l'}: true,
	{'u', 'u', 'i', 'd'}: true,
}

// Box is one parsed ISO-BMFF box: its type, its absolute payload range
// within the file, and (for container boxes) its children.
type Box struct {
	Type     FourCC
	Start    int64 // payload start, absolute offset
	Size     int64 // payload size
	Children []*Box
}

// Parse walks the top-level box list of `view`, descending into known
// container box types.
func Parse(view *rawio.View) ([]*Box, error) {
	return parseBoxes(view, 0, view.Len())
}

func parseBoxes(view *rawio.View, start, end int64) ([]*Box, error) {
	var boxes []*Box
	pos := start
	for pos < end {
		if end-pos < 8 {
			break
		}
		header, err := view.BytesAt(pos, 8)
		if err != nil {
			break
		}
		size := int64(binary.BigEndian.Uint32(header[0:4]))
		var typ FourCC
		copy(typ[:], header[4:8])
		headerSize := int64(8)

		switch size {
		case 0:
			size = end - pos
		case 1:
			// 64-bit extended size follows the fourcc.
			ext, err := view.BytesAt(pos+8, 8)
			if err != nil {
				return boxes, fmt.Errorf("bmff: truncated 64-bit box size at %d: %w", pos, err)
			}
			size = int64(binary.BigEndian.Uint64(ext))
			headerSize = 16
		}
		if size < headerSize || pos+size > end {
			return boxes, fmt.Errorf("bmff: box %q at %d has invalid size %d", typ, pos, size)
		}

		b := &Box{Type: typ, Start: pos + headerSize, Size: size - headerSize}
		if containerBoxes[typ] {
			children, err := parseBoxes(view, b.Start, b.Start+b.Size)
			if err == nil {
				b.Children = children
			}
		}
		boxes = append(boxes, b)
		pos += size
	}
	return boxes, nil
}

// Find returns every box (at any depth) matching a FourCC.
func Find(boxes []*Box, want FourCC) []*Box {
	var out []*Box
	var walk func([]*Box)
	walk = func(bs []*Box) {
		for _, b := range bs {
			if b.Type == want {
				out = append(out, b)
			}
			walk(b.Children)
		}
	}
	walk(boxes)
	return out
}
