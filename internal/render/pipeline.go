package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/pkg/rawerr"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// Stage names a point in the rendering pipeline, letting a caller ask for
// an intermediate result (spec §4.14, grounded on libopenraw's
// RenderingStage progression from raw to final RGB).
type Stage int

const (
	StageLinear Stage = iota
	StageDemosaiced
	StageFinal
)

// Options configures a Render call with a fluent builder, mirroring
// libopenraw's RenderingOptions.
type Options struct {
	Stage  Stage
	Target string // "srgb", or "" for no colour-space conversion; other values are unimplemented
	Gamma  float64
}

// DefaultOptions renders through to a gamma-corrected sRGB image.
func DefaultOptions() Options {
	return Options{Stage: StageFinal, Target: "srgb", Gamma: 2.2}
}

func (o Options) WithStage(s Stage) Options {
	o.Stage = s
	return o
}

func (o Options) WithTarget(target string) Options {
	o.Target = target
	return o
}

// Linearize rescales raw sensor samples into 0..1 floats using the
// per-plane black/white levels and, if present, a linearization LUT (spec
// §4.14). Out-of-range raw values clamp rather than wrap.
func Linearize(img *rawimage.RawImage) Plane {
	out := make([]float64, img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			plane := planeIndex(img.Pattern, x, y)
			raw := img.Data[y*img.Width+x]
			v := float64(raw)
			if len(img.Calib.LinearizationLUT) > 0 && int(raw) < len(img.Calib.LinearizationLUT) {
				v = float64(img.Calib.LinearizationLUT[raw])
			}
			black := img.Calib.BlackAt(plane)
			white := img.Calib.WhiteAt(plane, img.BitsPerSample)
			if white <= black {
				logging.Debug("render: white level <= black level, clamping to 0")
				out[y*img.Width+x] = 0
				continue
			}
			norm := (v - black) / (white - black)
			out[y*img.Width+x] = clamp01(norm)
		}
	}
	return Plane{Width: img.Width, Height: img.Height, Data: out}
}

func planeIndex(p rawimage.Pattern, x, y int) int {
	switch p.At(x, y) {
	case rawimage.ColourRed:
		return 0
	case rawimage.ColourGreen:
		return 1
	case rawimage.ColourBlue:
		return 2
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ApplyColorMatrix transforms an RGB plane through a row-major 3x3 camera
// colour matrix (DNG ColorMatrix1/2, or a vendor-published camera->XYZ
// matrix composed with XYZ->sRGB ahead of time by the caller).
func ApplyColorMatrix(img RGB, matrix [9]float64) RGB {
	out := make([]float64, len(img.Data))
	for i := 0; i < len(img.Data); i += 3 {
		r, g, b := img.Data[i], img.Data[i+1], img.Data[i+2]
		out[i] = clamp01(matrix[0]*r + matrix[1]*g + matrix[2]*b)
		out[i+1] = clamp01(matrix[3]*r + matrix[4]*g + matrix[5]*b)
		out[i+2] = clamp01(matrix[6]*r + matrix[7]*g + matrix[8]*b)
	}
	return RGB{Width: img.Width, Height: img.Height, Data: out}
}

// ApplyGamma applies a simple power-law gamma curve, returning a new buffer
// and leaving the input unchanged.
func ApplyGamma(img RGB, gamma float64) RGB {
	if gamma <= 0 {
		gamma = 1
	}
	inv := 1.0 / gamma
	out := make([]float64, len(img.Data))
	for i, v := range img.Data {
		out[i] = math.Pow(clamp01(v), inv)
	}
	return RGB{Width: img.Width, Height: img.Height, Data: out}
}

// Render runs the full linearize -> demosaic -> colour-correct pipeline
// and returns a standard library image.Image, stopping early if Options
// asks for an intermediate Stage.
func Render(img *rawimage.RawImage, matrix [9]float64, opts Options) (image.Image, error) {
	linear := Linearize(img)
	if opts.Stage == StageLinear {
		return planeToGray(linear), nil
	}

	demosaiced, err := Bimedian(linear, img.Pattern)
	if err != nil {
		return nil, err
	}
	if opts.Stage == StageDemosaiced {
		return rgbToImage(demosaiced), nil
	}

	corrected := demosaiced
	switch opts.Target {
	case "":
	case "srgb":
		corrected = ApplyColorMatrix(demosaiced, matrix)
	default:
		return nil, fmt.Errorf("render: colour target %q: %w", opts.Target, rawerr.ErrUnimplemented)
	}
	gamma := opts.Gamma
	if gamma == 0 {
		gamma = 2.2
	}
	final := ApplyGamma(corrected, gamma)
	return rgbToImage(final), nil
}

func planeToGray(p Plane) image.Image {
	img := image.NewGray16(image.Rect(0, 0, p.Width, p.Height))
	for i, v := range p.Data {
		img.SetGray16(i%p.Width, i/p.Width, color.Gray16{Y: uint16(clamp01(v) * 65535)})
	}
	return img
}

func rgbToImage(rgb RGB) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, rgb.Width, rgb.Height))
	for i := 0; i < rgb.Width*rgb.Height; i++ {
		r := uint8(clamp01(rgb.Data[i*3]) * 255)
		g := uint8(clamp01(rgb.Data[i*3+1]) * 255)
		b := uint8(clamp01(rgb.Data[i*3+2]) * 255)
		img.SetRGBA(i%rgb.Width, i/rgb.Width, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return img
}
