// Package dng implements a generic, specification-literal DNG-style raw
// front-end (spec §4.7's "DNG tag preference order"): it reads
// calibration, dimensions and uncompressed sample data entirely from
// standard DNG/TIFF tags, with no vendor-private decompression of its
// own. Several camera families that deliver uncompressed or simply packed
// sensor data (Sony ARW, Leica DNG, Ricoh, Sigma, Epson and Apple) are
// "lighter-weight variants" of this same reader (spec §9), parameterized
// only by their Make string and native bit order. No variant is registered
// for DNG files whose Make matches none of the vendor front-ends.
package dng

import (
	"fmt"

	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// Generic is a configurable frontend.Frontend for any vendor whose raw
// data is plain, uncompressed (or simply bit-packed) strips.
type Generic struct {
	VendorName string
	MakeMatch  func(make string) bool
	BitOrder   unpack.Order
}

func (g *Generic) Name() string { return g.VendorName }

func (g *Generic) Matches(main *tiff.Dir) bool {
	return g.MakeMatch(frontend.ReadString(main, tiff.TagMake))
}

// rawSubDir picks the SubIFD that actually holds sensor data: the first
// one with a CFAPattern tag, falling back to the first SubIFD, falling
// back to the root directory itself (some older DNGs put raw data there).
func (g *Generic) rawSubDir(main *tiff.Dir) *tiff.Dir {
	subs := main.SubDirsOfType(tiff.IfdSubIfd)
	for _, s := range subs {
		if _, ok := s.Entry(tiff.TagCFAPattern); ok {
			return s
		}
	}
	if len(subs) > 0 {
		return subs[0]
	}
	return main
}

func (g *Generic) RawData(c *tiff.Container, view *rawio.View, main *tiff.Dir) (*rawimage.RawImage, error) {
	dir := g.rawSubDir(main)
	width := frontend.ReadTagInt(dir, tiff.TagImageWidth)
	height := frontend.ReadTagInt(dir, tiff.TagImageLength)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("dng: missing image dimensions")
	}
	bitsPerSample := 16
	if bps := frontend.ReadTagIntArray(dir, tiff.TagBitsPerSample); len(bps) > 0 {
		bitsPerSample = bps[0]
	}
	compression := frontend.ReadTagInt(dir, tiff.TagCompression)
	if compression != 0 && compression != 1 {
		return nil, fmt.Errorf("dng: generic frontend only handles uncompressed data, got compression %d", compression)
	}

	samples, err := frontend.ReadUnpackedStrips(view, dir, width, height, bitsPerSample, g.BitOrder)
	if err != nil {
		return nil, err
	}

	pattern := defaultPattern(dir)
	calib := frontend.BuildCalibration(dir)

	return &rawimage.RawImage{
		Width:         width,
		Height:        height,
		BitsPerSample: bitsPerSample,
		DataType:      rawimage.DataTypeRawSensor,
		Data:          samples,
		Pattern:       pattern,
		Compression:   uint16(compression),
		Calib:         calib,
	}, nil
}

func defaultPattern(dir *tiff.Dir) rawimage.Pattern {
	w, h, raw, ok := frontend.DeterminePattern(dir)
	if ok {
		if p, err := rawimage.PatternFromCFABytes(w, h, raw); err == nil {
			return p
		}
	}
	return rawimage.NewBayerPattern(rawimage.PatternRGGB)
}

func (g *Generic) Thumbnails(c *tiff.Container, view *rawio.View, main *tiff.Dir) ([]rawimage.Thumbnail, error) {
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
		thumbs = append(thumbs, rawimage.Thumbnail{
			Width:  frontend.ReadTagInt(dir, tiff.TagImageWidth),
			Height: frontend.ReadTagInt(dir, tiff.TagImageLength),
			Format: "jpeg",
			Data:   data,
		})
	}
	return thumbs, nil
}

func (g *Generic) ColorMatrix(main *tiff.Dir) ([9]float64, bool) {
	calib := frontend.BuildCalibration(main)
	if calib.ColorMatrix1 == ([9]float64{}) {
		return [9]float64{}, false
	}
	return calib.ColorMatrix1, true
}
