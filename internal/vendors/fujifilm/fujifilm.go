// Package fujifilm handles Fujifilm's RAF container (spec §4.5/§4.7): a
// fixed-layout header with its own CFA offset/length pair rather than
// TIFF StripOffsets, wrapping CFA data that for most X-Trans-era bodies is
// stored as plain packed samples. The embedded JPEG preview's Exif block
// is parsed (by the caller, via internal/jpegcontainer) to stand in for
// the "main" IFD the shared frontend.Frontend interface expects, since RAF
// itself carries no top-level TIFF structure.
package fujifilm

import (
	"fmt"
	"strings"

	"github.com/tacusci/rawkit/internal/raf"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// tlvTagRawImageSize publishes [height, width] of the CFA plane; RawData
// fails when the metadata block does not carry it.
const tlvTagRawImageSize = 0x0111
const tlvTagRawBitsPerSample = 0x0112

type Frontend struct{}

func New() frontend.Frontend { return &Frontend{} }

func (Frontend) Name() string { return "fujifilm" }

func (Frontend) Matches(main *tiff.Dir) bool {
	return strings.Contains(strings.ToUpper(frontend.ReadString(main, tiff.TagMake)), "FUJIFILM") ||
		strings.Contains(strings.ToUpper(frontend.ReadString(main, tiff.TagMake)), "FUJI")
}

func (Frontend) RawData(c *tiff.Container, view *rawio.View, main *tiff.Dir) (*rawimage.RawImage, error) {
	header, err := raf.ParseHeader(view)
	if err != nil {
		return nil, fmt.Errorf("fujifilm: header: %w", err)
	}
	entries, _ := raf.ParseMetaTLV(view, header)

	width, height := 0, 0
	bits := 14
	for _, e := range entries {
		switch e.Tag {
		case tlvTagRawImageSize:
			if len(e.Data) >= 4 {
				height = int(e.Data[0])<<8 | int(e.Data[1])
				width = int(e.Data[2])<<8 | int(e.Data[3])
			}
		case tlvTagRawBitsPerSample:
			if len(e.Data) >= 2 {
				bits = int(e.Data[0])<<8 | int(e.Data[1])
			}
		}
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("fujifilm: metadata block did not publish a raw image size")
	}

	cfa, err := view.BytesAt(int64(header.CFAOffset), int(header.CFALength))
	if err != nil {
		return nil, fmt.Errorf("fujifilm: CFA data out of range: %w", err)
	}
	samples, err := unpack.UnpackRaw(cfa, bits, width*height, unpack.MSBFirst)
	if err != nil {
		return nil, fmt.Errorf("fujifilm: unpack: %w", err)
	}

	return &rawimage.RawImage{
		Width:         width,
		Height:        height,
		BitsPerSample: bits,
		DataType:      rawimage.DataTypeRawSensor,
		Data:          samples,
		Pattern:       rawimage.NewBayerPattern(rawimage.PatternRGGB),
		Compression:   0,
		Calib:         frontend.BuildCalibration(main),
	}, nil
}

func (Frontend) Thumbnails(c *tiff.Container, view *rawio.View, main *tiff.Dir) ([]rawimage.Thumbnail, error) {
	header, err := raf.ParseHeader(view)
	if err != nil {
		return nil, fmt.Errorf("fujifilm: header: %w", err)
	}
	if header.JpegLength == 0 {
		return nil, nil
	}
	data, err := view.BytesAt(int64(header.JpegOffset), int(header.JpegLength))
	if err != nil {
		return nil, fmt.Errorf("fujifilm: embedded JPEG out of range: %w", err)
	}
	return []rawimage.Thumbnail{{Format: "jpeg", Data: data}}, nil
}

func (Frontend) ColorMatrix(main *tiff.Dir) ([9]float64, bool) {
	calib := frontend.BuildCalibration(main)
	if calib.ColorMatrix1 == ([9]float64{}) {
		return [9]float64{}, false
	}
	return calib.ColorMatrix1, true
}
