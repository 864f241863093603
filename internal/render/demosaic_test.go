package render

import (
	"testing"

	"github.com/tacusci/rawkit/pkg/rawimage"
)

func checkCentrePixel(t *testing.T, buffer []float64, pt rawimage.PatternType, want [3]float64) {
	t.Helper()
	plane := Plane{Width: 8, Height: 8, Data: buffer}
	out, err := Bimedian(plane, rawimage.NewBayerPattern(pt))
	if err != nil {
		t.Fatalf("Bimedian: %v", err)
	}
	if out.Width != 6 || out.Height != 6 {
		t.Fatalf("output size = %dx%d, want 6x6", out.Width, out.Height)
	}
	got := [3]float64{out.Data[0], out.Data[1], out.Data[2]}
	if got != want {
		t.Errorf("pixel(0,0) for %v = %v, want %v", pt, got, want)
	}
}

func TestBimedianXGGX(t *testing.T) {
	buffer := []float64{
		0, 1, 0, 1, 0, 1, 0, 1,
		1, 0, 1, 0, 1, 0, 1, 0,
		0, 1, 0, 1, 0, 1, 0, 1,
		1, 0, 1, 0, 1, 0, 1, 0,
		0, 1, 0, 1, 0, 1, 0, 1,
		1, 0, 1, 0, 1, 0, 1, 0,
		0, 1, 0, 1, 0, 1, 0, 1,
		1, 0, 1, 0, 1, 0, 1, 0,
	}
	checkCentrePixel(t, buffer, rawimage.PatternRGGB, [3]float64{0, 1, 0})
	checkCentrePixel(t, buffer, rawimage.PatternBGGR, [3]float64{0, 1, 0})
}

func TestBimedianGXXG(t *testing.T) {
	buffer := []float64{
		0, 1, 0, 1, 0, 1, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 0, 1, 0, 1, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 0, 1, 0, 1, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 0, 1, 0, 1, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	checkCentrePixel(t, buffer, rawimage.PatternGBRG, [3]float64{0, 0, 1})
	checkCentrePixel(t, buffer, rawimage.PatternGRBG, [3]float64{1, 0, 0})
}

func TestBimedianRejectsNonBayerPattern(t *testing.T) {
	plane := Plane{Width: 8, Height: 8, Data: make([]float64, 64)}
	if _, err := Bimedian(plane, rawimage.Pattern{Type: rawimage.PatternNone}); err == nil {
		t.Error("expected an error for a non-2x2 pattern")
	}
}
