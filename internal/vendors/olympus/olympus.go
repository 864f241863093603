// Package olympus handles Olympus's ORF raw format (spec §4.7): sensor
// data is either uncompressed or coded with Olympus's adaptive predictor,
// selected by the raw SubIFD's compression tag.
package olympus

import (
	"fmt"
	"strings"

	olympusdec "github.com/tacusci/rawkit/internal/decode/olympus"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// compressionAdaptive is Olympus's private compression value for its
// adaptive-predictor codec, distinct from TIFF's standard 1 (none).
const compressionAdaptive = 0x8769

type Frontend struct{}

func New() frontend.Frontend { return &Frontend{} }

func (Frontend) Name() string { return "olympus" }

func (Frontend) Matches(main *tiff.Dir) bool {
	return strings.Contains(strings.ToUpper(frontend.ReadString(main, tiff.TagMake)), "OLYMPUS")
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
	if compression == compressionAdaptive {
		offsets := frontend.ReadTagIntArray(dir, tiff.TagStripOffsets)
		counts := frontend.ReadTagIntArray(dir, tiff.TagStripByteCounts)
		if len(offsets) == 0 {
			return nil, fmt.Errorf("olympus: no strip offsets for compressed ORF")
		}
		data, err := view.BytesAt(int64(offsets[0]), counts[0])
		if err != nil {
			return nil, fmt.Errorf("olympus: strip out of range: %w", err)
		}
		plane, err := olympusdec.DecodePlane(data, width, height)
		if err != nil {
			return nil, fmt.Errorf("olympus: adaptive decode: %w", err)
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
			return nil, fmt.Errorf("olympus: uncompressed strips: %w", err)
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
