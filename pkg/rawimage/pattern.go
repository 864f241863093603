// Package rawimage is the in-memory RAW data model: sensor geometry, the
// Bayer/X-Trans colour filter pattern, per-shot calibration, and the
// decoded pixel buffer a RawFile hands to the rendering pipeline.
//
// Pattern is grounded on libopenraw's src/mosaic.rs: a fixed-size colour
// sequence parsed from the CFAPattern tag's raw bytes, indexed modulo its
// own width/height rather than carrying a full-size expanded grid.
package rawimage

import "fmt"

// PatternColour is one sensor filter colour.
type PatternColour uint8

const (
	ColourUnknown PatternColour = iota
	ColourRed
	ColourGreen
	ColourBlue
	ColourEmerald // Sony RGBE sensors
)

func (c PatternColour) String() string {
	switch c {
	case ColourRed:
		return "R"
	case ColourGreen:
		return "G"
	case ColourBlue:
		return "B"
	case ColourEmerald:
		return "E"
	default:
		return "?"
	}
}

// PatternType names the well-known 2x2 Bayer arrangements, plus None for
// sensors (Foveon, monochrome) with no colour filter array.
type PatternType uint8

const (
	PatternNone PatternType = iota
	PatternRGGB
	PatternGRBG
	PatternGBRG
	PatternBGGR
)

var namedPatterns = map[PatternType][4]PatternColour{
	PatternRGGB: {ColourRed, ColourGreen, ColourGreen, ColourBlue},
	PatternGRBG: {ColourGreen, ColourRed, ColourBlue, ColourGreen},
	PatternGBRG: {ColourGreen, ColourBlue, ColourRed, ColourGreen},
	PatternBGGR: {ColourBlue, ColourGreen, ColourGreen, ColourRed},
}

// Pattern is a small, fixed colour-filter tile. Most cameras use a 2x2
// Bayer tile; the type also accommodates Fujifilm's 6x6 X-Trans tile via
// Colours/Width/Height.
type Pattern struct {
	Type    PatternType
	Width   int
	Height  int
	Colours []PatternColour // row-major, len == Width*Height
}

// NewBayerPattern builds a Pattern from one of the four standard 2x2
// arrangements.
func NewBayerPattern(t PatternType) Pattern {
	if t == PatternNone {
		return Pattern{Type: PatternNone}
	}
	c := namedPatterns[t]
	return Pattern{Type: t, Width: 2, Height: 2, Colours: c[:]}
}

// PatternFromCFABytes parses a CFAPattern tag's raw byte sequence
// (Exif.Image.CFAPattern with a preceding CFARepeatPatternDim, or DNG's
// CFAPattern2) into a Pattern (spec §3's Pattern type, grounded on
// mosaic.rs's TryFrom<&[u8]> for Pattern).
func PatternFromCFABytes(width, height int, raw []byte) (Pattern, error) {
	if width <= 0 || height <= 0 {
		return Pattern{}, fmt.Errorf("rawimage: invalid CFA dimensions %dx%d", width, height)
	}
	if len(raw) < width*height {
		return Pattern{}, fmt.Errorf("rawimage: CFA pattern data too short: got %d bytes, want %d", len(raw), width*height)
	}
	colours := make([]PatternColour, width*height)
	for i := 0; i < width*height; i++ {
		colours[i] = cfaByteToColour(raw[i])
	}
	return classify(width, height, colours), nil
}

// cfaByteToColour maps the TIFF/Exif CFAPattern colour-index convention
// (0=red,1=green,2=blue,3=cyan,4=magenta,5=yellow,6=white) down to the
// colours this decoder actually renders.
func cfaByteToColour(b byte) PatternColour {
	switch b {
	case 0:
		return ColourRed
	case 1:
		return ColourGreen
	case 2:
		return ColourBlue
	default:
		return ColourUnknown
	}
}

func classify(w, h int, colours []PatternColour) Pattern {
	p := Pattern{Width: w, Height: h, Colours: colours}
	if w == 2 && h == 2 {
		for t, c := range namedPatterns {
			if c[0] == colours[0] && c[1] == colours[1] && c[2] == colours[2] && c[3] == colours[3] {
				p.Type = t
				return p
			}
		}
	}
	return p
}

// At returns the filter colour at sensor coordinate (x, y), wrapping
// modulo the pattern's tile size. A pattern with no tile (zero width or
// height, as NewBayerPattern(PatternNone) builds) always reports
// ColourUnknown.
func (p Pattern) At(x, y int) PatternColour {
	if p.Width == 0 || p.Height == 0 {
		return ColourUnknown
	}
	col := x % p.Width
	row := y % p.Height
	return p.Colours[row*p.Width+col]
}

func (p Pattern) String() string {
	if p.Width == 0 {
		return "none"
	}
	s := ""
	for i, c := range p.Colours {
		if i > 0 && i%p.Width == 0 {
			s += "/"
		}
		s += c.String()
	}
	return s
}
