// Package render implements the linearize -> demosaic -> colour-correct
// pipeline (spec §4.14). The bimedian demosaic and its m4 median-of-four
// helper are ported from libopenraw's src/render/demosaic.rs, including
// its pixel-offset arithmetic and the four canonical 2x2 Bayer layouts.
package render

import (
	"fmt"

	"github.com/tacusci/rawkit/pkg/rawimage"
)

// m4 returns the median of two central values out of four, used to
// interpolate a colour plane from its four diagonal or orthogonal
// neighbours.
func m4(a, b, c, d float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		t := c
		c = b
		if a > t {
			b, a = a, t
		} else {
			b = t
		}
	}
	switch {
	case d >= c:
		return (b + c) / 2.0
	case d >= a:
		return (b + d) / 2.0
	default:
		return (a + b) / 2.0
	}
}

func patternNumber(t rawimage.PatternType) (int, error) {
	switch t {
	case rawimage.PatternBGGR:
		return 0, nil
	case rawimage.PatternGRBG:
		return 1, nil
	case rawimage.PatternGBRG:
		return 2, nil
	case rawimage.PatternRGGB:
		return 3, nil
	default:
		return 0, fmt.Errorf("render: bimedian demosaic requires a 2x2 Bayer pattern, got %v", t)
	}
}

// Plane is a single-channel float image in 0..1 range (after linearization).
type Plane struct {
	Width, Height int
	Data          []float64
}

// RGB is an interleaved 3-channel float image in 0..1 range.
type RGB struct {
	Width, Height int
	Data          []float64 // len == Width*Height*3, R,G,B interleaved
}

// Bimedian demosaics a single-plane linearized Bayer image into RGB, using
// the four-neighbour median rule for the two colours each pixel didn't
// sample directly. The output is inset by one pixel on every side (border
// pixels have no full neighbourhood), matching the original.
func Bimedian(input Plane, pattern rawimage.Pattern) (RGB, error) {
	npattern, err := patternNumber(pattern.Type)
	if err != nil {
		return RGB{}, err
	}
	if input.Width < 3 || input.Height < 3 {
		return RGB{}, fmt.Errorf("render: image too small to demosaic: %dx%d", input.Width, input.Height)
	}

	outW := input.Width - 2
	outH := input.Height - 2
	dst := make([]float64, outW*outH*3)

	const dcol = 1
	drow := input.Width
	src := input.Data
	offset := drow + dcol
	doffset := 0

	for y := 1; y < input.Height-1; y++ {
		for x := 1; x < input.Width-1; x++ {
			var red, green, blue float64
			if (y+npattern%2)%2 == 0 {
				if (x+npattern/2)%2 == 1 {
					// GRG / BGB / GRG
					blue = (src[offset-dcol] + src[offset+dcol]) / 2.0
					green = src[offset]
					red = (src[offset-drow] + src[offset+drow]) / 2.0
				} else {
					// RGR / GBG / RGR
					blue = src[offset]
					green = m4(src[offset-drow], src[offset-dcol], src[offset+dcol], src[offset+drow])
					red = m4(src[offset-drow-dcol], src[offset-drow+dcol], src[offset+drow-dcol], src[offset+drow+dcol])
				}
			} else if (x+npattern/2)%2 == 1 {
				// BGB / GRG / BGB
				blue = m4(src[offset-drow-dcol], src[offset-drow+dcol], src[offset+drow-dcol], src[offset+drow+dcol])
				green = m4(src[offset-drow], src[offset-dcol], src[offset+dcol], src[offset+drow])
				red = src[offset]
			} else {
				// GBG / RGR / GBG
				blue = (src[offset-drow] + src[offset+drow]) / 2.0
				green = src[offset]
				red = (src[offset-dcol] + src[offset+dcol]) / 2.0
			}

			dst[doffset*3] = red
			dst[doffset*3+1] = green
			dst[doffset*3+2] = blue

			offset++
			doffset++
		}
		offset += 2
	}

	return RGB{Width: outW, Height: outH, Data: dst}, nil
}
