// Package frontend defines the shared interface every vendor package in
// internal/vendors implements (spec §4.7): given a parsed container, each
// front-end knows how to read its vendor's raw sensor data, thumbnails,
// and colour-correction matrix, calling into the relevant
// internal/decode/* decompressor when the vendor's compression needs one.
//
// This is the same interface + variant tag pattern the teacher uses for
// rawImage/nefImage/cr2Image in cltools/raw_to_compressed.go, generalized
// from two hard-coded types to a registry of thirteen.
package frontend

import (
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// Frontend is implemented once per vendor family.
type Frontend interface {
	// Name identifies the vendor for logging/dictionary selection.
	Name() string
	// Matches reports whether this front-end should handle a file, based
	// on the root IFD's Make/Model/compression/signature.
	Matches(main *tiff.Dir) bool
	// RawData decodes the vendor's sensor data into a RawImage.
	RawData(c *tiff.Container, view *rawio.View, main *tiff.Dir) (*rawimage.RawImage, error)
	// Thumbnails extracts embedded preview images without running the
	// full RAW decode pipeline.
	Thumbnails(c *tiff.Container, view *rawio.View, main *tiff.Dir) ([]rawimage.Thumbnail, error)
	// ColorMatrix returns the camera-to-XYZ matrix for this shot, if
	// known, and whether one was found.
	ColorMatrix(main *tiff.Dir) ([9]float64, bool)
}

// ReadTagInt reads a single-valued integer tag as an int, 0 if absent.
func ReadTagInt(dir *tiff.Dir, tag tiff.TagID) int {
	e, ok := dir.Entry(tag)
	if !ok {
		return 0
	}
	v, ok := e.Uint(0)
	if !ok {
		return 0
	}
	return int(v)
}

// ReadTagIntArray reads every value of a tag as ints, nil if absent.
func ReadTagIntArray(dir *tiff.Dir, tag tiff.TagID) []int {
	e, ok := dir.Entry(tag)
	if !ok {
		return nil
	}
	vals, ok := e.UintArray()
	if !ok {
		return nil
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}

// ReadTagFloatArray reads every value of a tag widened to float64, nil if
// absent (used for rational-valued calibration tags).
func ReadTagFloatArray(dir *tiff.Dir, tag tiff.TagID) []float64 {
	e, ok := dir.Entry(tag)
	if !ok {
		return nil
	}
	out := make([]float64, 0, e.Count)
	for i := uint32(0); i < e.Count; i++ {
		v, ok := e.Float(i)
		if !ok {
			v2, ok2 := e.Uint(i)
			if !ok2 {
				return nil
			}
			v = float64(v2)
		}
		out = append(out, v)
	}
	return out
}

// ReadString reads an ASCII tag, "" if absent.
func ReadString(dir *tiff.Dir, tag tiff.TagID) string {
	e, ok := dir.Entry(tag)
	if !ok {
		return ""
	}
	s, _ := e.ASCII()
	return s
}

// BuildCalibration assembles the common DNG-style calibration fields every
// vendor front-end reads the same way (spec §4.14): black/white levels,
// colour matrices, as-shot white balance, active area and default crop.
func BuildCalibration(main *tiff.Dir) rawimage.Calibration {
	c := rawimage.Calibration{}
	if bl := ReadTagFloatArray(main, tiff.TagBlackLevel); bl != nil {
		c.BlackLevel = bl
	}
	if wl := ReadTagFloatArray(main, tiff.TagWhiteLevel); wl != nil {
		c.WhiteLevel = wl
	}
	if m := ReadTagFloatArray(main, tiff.TagColorMatrix1); len(m) == 9 {
		copy(c.ColorMatrix1[:], m)
	}
	if m := ReadTagFloatArray(main, tiff.TagColorMatrix2); len(m) == 9 {
		copy(c.ColorMatrix2[:], m)
		c.HasColorMatrix2 = true
	}
	if n := ReadTagFloatArray(main, tiff.TagAsShotNeutral); len(n) >= 3 {
		copy(c.AsShotNeutral[:], n[:3])
	} else {
		// Fewer than 3 published WB channels: assume an already
		// white-balanced image (unit gains) rather than carrying a NaN
		// placeholder through the arithmetic.
		c.AsShotNeutral = [3]float64{1, 1, 1}
	}
	if a := ReadTagIntArray(main, tiff.TagActiveArea); len(a) == 4 {
		copy(c.ActiveArea[:], a)
	}
	if o := ReadTagIntArray(main, tiff.TagDefaultCropOrigin); len(o) == 2 {
		copy(c.CropOrigin[:], o)
	}
	if s := ReadTagIntArray(main, tiff.TagDefaultCropSize); len(s) == 2 {
		copy(c.CropSize[:], s)
	}
	return c
}
