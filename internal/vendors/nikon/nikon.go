// Package nikon handles Nikon's NEF raw format (spec §4.7): uncompressed
// linear data for older bodies, and Huffman-coded
// lossy/lossless compression selected by the MakerNote's NEFDecodeTable
// tag for newer ones.
package nikon

import (
	"fmt"
	"strings"

	nikondec "github.com/tacusci/rawkit/internal/decode/nikon"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// tagNEFCompression, in the raw SubIFD, distinguishes uncompressed (1),
// lossy-with-curve (34713's legacy meaning) and Huffman-coded variants.
const tagNEFCompression tiff.TagID = 0x0103

// tagNEFDecodeTable is Nikon's MakerNote tag selecting which fixed
// Huffman table a Huffman-coded NEF was coded with.
const tagNEFDecodeTable tiff.TagID = 0x0093

type Frontend struct{}

func New() frontend.Frontend { return &Frontend{} }

func (Frontend) Name() string { return "nikon" }

func (Frontend) Matches(main *tiff.Dir) bool {
	return strings.Contains(strings.ToUpper(frontend.ReadString(main, tiff.TagMake)), "NIKON")
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

func decodeTableID(mn *tiff.Dir) nikondec.TableID {
	if mn == nil {
		return nikondec.TableLossless12
	}
	v := frontend.ReadTagInt(mn, tagNEFDecodeTable)
	switch v {
	case 1:
		return nikondec.TableLossy12
	case 2:
		return nikondec.TableLossy14
	default:
		return nikondec.TableLossless12
	}
}

func (Frontend) RawData(c *tiff.Container, view *rawio.View, main *tiff.Dir) (*rawimage.RawImage, error) {
	dir := rawSubDir(main)
	width := frontend.ReadTagInt(dir, tiff.TagImageWidth)
	height := frontend.ReadTagInt(dir, tiff.TagImageLength)
	bits := frontend.ReadTagInt(dir, tiff.TagBitsPerSample)
	if bits == 0 {
		bits = 12
	}
	compression := frontend.ReadTagInt(dir, tagNEFCompression)

	var samples []uint16
	switch compression {
	case 1, 0:
		raw, err := frontend.ReadUnpackedStrips(view, dir, width, height, bits, unpack.MSBFirst)
		if err != nil {
			return nil, fmt.Errorf("nikon: uncompressed strips: %w", err)
		}
		samples = raw
	default:
		offsets := frontend.ReadTagIntArray(dir, tiff.TagStripOffsets)
		counts := frontend.ReadTagIntArray(dir, tiff.TagStripByteCounts)
		if len(offsets) == 0 {
			return nil, fmt.Errorf("nikon: no strip offsets for compressed NEF")
		}
		data, err := view.BytesAt(int64(offsets[0]), counts[0])
		if err != nil {
			return nil, fmt.Errorf("nikon: strip out of range: %w", err)
		}
		table, err := nikondec.BuildTable(decodeTableID(makerNoteDir(main)))
		if err != nil {
			return nil, err
		}
		it := nikondec.NewDiffIterator(data, table, width, height, nikondec.PredictVertical)
		plane, err := it.Decode()
		if err != nil {
			return nil, fmt.Errorf("nikon: Huffman decode: %w", err)
		}
		samples = make([]uint16, len(plane))
		for i, v := range plane {
			if v < 0 {
				v = 0
			}
			samples[i] = uint16(v)
		}
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
