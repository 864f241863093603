// Package canon handles Canon's CR2 (TIFF+LJPEG) raw format (spec §4.7):
// sensor data is a single Lossless-JPEG stream, optionally sliced into
// several independently-predicted vertical bands recorded by Canon's
// private "CR2 slice" tag.
package canon

import (
	"fmt"
	"strings"

	"github.com/tacusci/rawkit/internal/decode/ljpeg"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// tagCR2Slice records [numSlices, sliceWidth, lastSliceWidth] for a sliced
// CR2 LJPEG stream.
const tagCR2Slice tiff.TagID = 0xc640

const maxTileWorkers = 4

type Frontend struct{}

func New() frontend.Frontend { return &Frontend{} }

func (Frontend) Name() string { return "canon" }

func (Frontend) Matches(main *tiff.Dir) bool {
	return strings.Contains(strings.ToUpper(frontend.ReadString(main, tiff.TagMake)), "CANON")
}

func rawSubDir(main *tiff.Dir) *tiff.Dir {
	for _, s := range main.SubDirsOfType(tiff.IfdSubIfd) {
		if _, ok := s.Entry(tiff.TagCFAPattern); ok {
			return s
		}
	}
	subs := main.SubDirsOfType(tiff.IfdSubIfd)
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
	counts := frontend.ReadTagIntArray(dir, tiff.TagStripByteCounts)
	if len(offsets) == 0 {
		return nil, fmt.Errorf("canon: no strip offsets in raw SubIFD")
	}
	raw, err := view.BytesAt(int64(offsets[0]), counts[0])
	if err != nil {
		return nil, fmt.Errorf("canon: strip out of range: %w", err)
	}

	header, err := ljpeg.ParseHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("canon: LJPEG header: %w", err)
	}
	scanData := raw[header.ScanStart:]

	sliceWidths := []int{width}
	if slice := frontend.ReadTagIntArray(dir, tagCR2Slice); len(slice) == 3 && slice[0] > 0 {
		n, sliceWidth, lastWidth := slice[0], slice[1], slice[2]
		widths := make([]int, 0, n+1)
		for i := 0; i < n; i++ {
			widths = append(widths, sliceWidth)
		}
		widths = append(widths, lastWidth)
		sliceWidths = widths
	}

	sliceData := make([][]byte, len(sliceWidths))
	for i := range sliceData {
		// CR2's slices share one continuous entropy stream rather than
		// independent byte ranges; without per-slice byte offsets this
		// decodes every slice from the same start, which is only exact
		// for the common single-slice case. Multi-slice CR2 support is
		// tracked as a follow-up (see DESIGN.md).
		sliceData[i] = scanData
	}

	samples, err := ljpeg.DecodeSlices(sliceData, header, sliceWidths, height, maxTileWorkers)
	if err != nil {
		return nil, fmt.Errorf("canon: LJPEG decode: %w", err)
	}

	out := make([]uint16, len(samples))
	for i, v := range samples {
		out[i] = uint16(v)
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
		BitsPerSample: header.Frame.Precision,
		DataType:      rawimage.DataTypeRawSensor,
		Data:          out,
		Pattern:       pattern,
		Compression:   uint16(frontend.ReadTagInt(dir, tiff.TagCompression)),
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
