package rawimage

// DataType tags the concrete representation held by a RawImage's Data
// field, since a camera may deliver either raw sensor samples or, for
// some thumbnail/preview paths, a fully decoded pixmap.
type DataType uint8

const (
	DataTypeUnknown DataType = iota
	DataTypeRawSensor
	DataTypePixmapRGB8
	DataTypePixmapRGB16
)

// Calibration carries the per-shot linearization and colour constants a
// RawImage needs before it can be rendered (spec §4.14): black/white
// levels, the camera-to-XYZ matrices DNG and most vendor MakerNotes
// publish, the as-shot white balance, and the active/crop rectangles.
type Calibration struct {
	BlackLevel       []float64
	WhiteLevel       []float64
	LinearizationLUT []uint16 // optional, DNG TagLinearizationTable
	ColorMatrix1     [9]float64
	ColorMatrix2     [9]float64
	HasColorMatrix2  bool
	AsShotNeutral    [3]float64 // RGB only; {1, 1, 1} when the file publishes fewer than 3 channels
	ActiveArea       [4]int     // top, left, bottom, right
	CropOrigin       [2]int
	CropSize         [2]int
}

// RawImage is the decoded sensor-data model every vendor front-end
// produces and the rendering pipeline consumes (spec §3/§4.14).
type RawImage struct {
	Width, Height int
	BitsPerSample int
	DataType      DataType
	Data          []uint16 // always owned, never aliasing the source view (spec §9)
	Pattern       Pattern
	Compression   uint16
	Calib         Calibration
}

// Thumbnail is an embedded preview image recovered from the container
// without running the RAW decode pipeline (spec §4 "thumbnail_sizes/
// thumbnail").
type Thumbnail struct {
	Width, Height int
	Format        string // "jpeg" or "png"
	Data          []byte
}

// Sample returns the raw value at (x, y), or 0 if out of range.
func (r *RawImage) Sample(x, y int) uint16 {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0
	}
	return r.Data[y*r.Width+x]
}

// BlackAt returns the black level for a given CFA colour plane, falling
// back to index 0 for cameras that publish a single shared value.
func (c Calibration) BlackAt(plane int) float64 {
	if len(c.BlackLevel) == 0 {
		return 0
	}
	if plane >= len(c.BlackLevel) {
		plane = 0
	}
	return c.BlackLevel[plane]
}

// WhiteAt returns the white (saturation) level for a given CFA colour
// plane, falling back to index 0, and finally to the widest value the bit
// depth can represent.
func (c Calibration) WhiteAt(plane int, bitsPerSample int) float64 {
	if len(c.WhiteLevel) == 0 {
		return float64(uint32(1)<<uint(bitsPerSample) - 1)
	}
	if plane >= len(c.WhiteLevel) {
		plane = 0
	}
	return c.WhiteLevel[plane]
}
