// Package panasonic handles Panasonic's RW2 raw format (spec §4.7):
// sensor data compressed with the RAW1 bit-reversed block scheme, read
// straight from the single strip the format always stores it in (RW2
// ignores RowsPerStrip/StripByteCounts in favour of one strip spanning the
// whole sensor).
package panasonic

import (
	"fmt"
	"strings"

	panasonicdec "github.com/tacusci/rawkit/internal/decode/panasonic"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// compressionRaw1 is Panasonic's private compression value for the RAW1
// bit-reversed block codec.
const compressionRaw1 = 34826

type Frontend struct{}

func New() frontend.Frontend { return &Frontend{} }

func (Frontend) Name() string { return "panasonic" }

func (Frontend) Matches(main *tiff.Dir) bool {
	make := strings.ToUpper(frontend.ReadString(main, tiff.TagMake))
	return strings.Contains(make, "PANASONIC") || strings.Contains(make, "LEICA CAMERA")
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
	offsets := frontend.ReadTagIntArray(dir, tiff.TagStripOffsets)
	if len(offsets) == 0 {
		return nil, fmt.Errorf("panasonic: no strip offset in raw SubIFD")
	}
	// RW2's single strip runs to the end of the sensor data region; without
	// a reliable byte count tag, read to the end of the file view.
	data, err := view.BytesAt(int64(offsets[0]), int(view.Len()-int64(offsets[0])))
	if err != nil {
		return nil, fmt.Errorf("panasonic: strip out of range: %w", err)
	}

	var samples []uint16
	compression := frontend.ReadTagInt(dir, tiff.TagCompression)
	if compression == compressionRaw1 {
		decoded, err := panasonicdec.DecodeRaw1(data)
		if err != nil {
			return nil, fmt.Errorf("panasonic: RAW1 decode: %w", err)
		}
		if len(decoded) > width*height {
			decoded = decoded[:width*height]
		}
		samples = decoded
	} else {
		return nil, fmt.Errorf("panasonic: unsupported compression %d", compression)
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
		BitsPerSample: 12,
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
