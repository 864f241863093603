// Package pentax handles Pentax's PEF raw format (spec §4.7): sensor data
// is either uncompressed or Huffman-coded against a table published in the
// MakerNote's HuffmanTable tag, falling back to a well-known default table
// when the camera omits one.
package pentax

import (
	"fmt"
	"strings"

	pentaxdec "github.com/tacusci/rawkit/internal/decode/pentax"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// tagHuffmanTable is Pentax's MakerNote tag publishing the stream's
// Huffman code-length/value table, when present.
const tagHuffmanTable tiff.TagID = 0x0029

const compressionHuffman = 65535

// defaultCounts/defaultValues are Pentax's commonly-used default Huffman
// table, used when a camera's MakerNote omits an explicit one.
var defaultCounts = [16]int{0, 2, 2, 3, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
var defaultValues = []byte{3, 4, 2, 5, 1, 6, 0, 7, 8}

type Frontend struct{}

func New() frontend.Frontend { return &Frontend{} }

func (Frontend) Name() string { return "pentax" }

func (Frontend) Matches(main *tiff.Dir) bool {
	return strings.Contains(strings.ToUpper(frontend.ReadString(main, tiff.TagMake)), "PENTAX")
}

func rawSubDir(main *tiff.Dir) *tiff.Dir {
	subs := main.SubDirsOfType(tiff.IfdSubIfd)
	for _, s := range subs {
		if _, ok := s.Entry(tiff.TagCFAPattern); ok {
			return s
		}
	}
	if len(subs) > 0 {
		return subs[len(subs)-1]
	}
	return main
}

func makerNoteDir(main *tiff.Dir) *tiff.Dir {
	dirs := main.SubDirsOfType(tiff.IfdMakerNote)
	if len(dirs) == 0 {
		return nil
	}
	return dirs[0]
}

func huffmanTable(mn *tiff.Dir) (*pentaxdec.Table, error) {
	if mn != nil {
		if e, ok := mn.Entry(tagHuffmanTable); ok {
			raw := e.Bytes()
			if len(raw) >= 16 {
				var counts [16]int
				for i := 0; i < 16; i++ {
					counts[i] = int(raw[i])
				}
				values := raw[16:]
				return pentaxdec.BuildTable(counts, values)
			}
		}
	}
	return pentaxdec.BuildTable(defaultCounts, defaultValues)
}

func (Frontend) RawData(c *tiff.Container, view *rawio.View, main *tiff.Dir) (*rawimage.RawImage, error) {
	dir := rawSubDir(main)
	width := frontend.ReadTagInt(dir, tiff.TagImageWidth)
	height := frontend.ReadTagInt(dir, tiff.TagImageLength)
	bits := frontend.ReadTagInt(dir, tiff.TagBitsPerSample)
	if bits == 0 {
		bits = 12
	}
	compression := frontend.ReadTagInt(dir, tiff.TagCompression)

	var samples []uint16
	if compression == compressionHuffman {
		offsets := frontend.ReadTagIntArray(dir, tiff.TagStripOffsets)
		counts := frontend.ReadTagIntArray(dir, tiff.TagStripByteCounts)
		if len(offsets) == 0 {
			return nil, fmt.Errorf("pentax: no strip offsets for compressed PEF")
		}
		data, err := view.BytesAt(int64(offsets[0]), counts[0])
		if err != nil {
			return nil, fmt.Errorf("pentax: strip out of range: %w", err)
		}
		table, err := huffmanTable(makerNoteDir(main))
		if err != nil {
			return nil, err
		}
		plane, err := pentaxdec.DecodePlane(data, table, width, height, pentaxdec.PredictHorizontal)
		if err != nil {
			return nil, fmt.Errorf("pentax: Huffman decode: %w", err)
		}
		samples = make([]uint16, len(plane))
		for i, v := range plane {
			if v < 0 {
				v = 0
			}
			samples[i] = uint16(v)
		}
	} else {
		raw, err := frontend.ReadUnpackedStrips(view, dir, width, height, bits, unpack.MSBFirst)
		if err != nil {
			return nil, fmt.Errorf("pentax: uncompressed strips: %w", err)
		}
		samples = raw
	}

	pattern := rawimage.NewBayerPattern(rawimage.PatternRGGB)
	if w, h, cfa, ok := frontend.DeterminePattern(dir); ok {
		if p, err := rawimage.PatternFromCFABytes(w, h, cfa); err == nil {
			pattern = p
		}
	}

	return &rawimage.RawImage{
		Width:         width,
		Height:        height,
		BitsPerSample: bits,
		DataType:      rawimage.DataTypeRawSensor,
		Data:          samples,
		Pattern:       pattern,
		Compression:   uint16(compression),
		Calib:         frontend.BuildCalibration(dir),
	}, nil
}

func (Frontend) Thumbnails(c *tiff.Container, view *rawio.View, main *tiff.Dir) ([]rawimage.Thumbnail, error) {
	var thumbs []rawimage.Thumbnail
	for _, dir := range append([]*tiff.Dir{main}, c.Dirs...) {
		off := frontend.ReadTagInt(dir, 0x0201)
		length := frontend.ReadTagInt(dir, 0x0202)
		if off == 0 || length == 0 {
			continue
		}
		data, err := view.BytesAt(int64(off), length)
		if err != nil {
			continue
		}
		thumbs = append(thumbs, rawimage.Thumbnail{Format: "jpeg", Data: data})
	}
	return thumbs, nil
}

func (Frontend) ColorMatrix(main *tiff.Dir) ([9]float64, bool) {
	calib := frontend.BuildCalibration(rawSubDir(main))
	if calib.ColorMatrix1 == ([9]float64{}) {
		return [9]float64{}, false
	}
	return calib.ColorMatrix1, true
}
