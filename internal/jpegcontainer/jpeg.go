// Package jpegcontainer parses the JPEG/APP1-Exif container shape used by
// most DSLR/mirrorless thumbnails and by some RAW-in-JPEG formats (spec
// §4.3): it walks JFIF/APPn segments until an Exif-tagged APP1 is found,
// hands that payload to internal/tiff, and reads the frame's pixel
// dimensions out of the SOFn marker.
package jpegcontainer

import (
	"encoding/binary"
	"fmt"

	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
)

var exifHeader = [6]byte{'E', 'x', 'i', 'f', 0, 0}

// Info is the result of walking a JPEG stream's segments.
type Info struct {
	Width, Height int
	Exif          *tiff.Container // nil if no Exif APP1 segment was found
}

func isSOF(marker byte) bool {
	switch marker {
	case 0xC0, 0xC1, 0xC2, 0xC3, 0xC5, 0xC6, 0xC7, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
		return true
	default:
		return false
	}
}

// Parse walks the segment list of a JPEG stream starting at offset 0,
// stopping at SOS or EOI (scan data itself is never segment-structured,
// spec §4.3).
func Parse(view *rawio.View) (*Info, error) {
	v := view.Clone()
	header, err := v.Bytes(2)
	if err != nil || header[0] != 0xFF || header[1] != markerSOI {
		return nil, fmt.Errorf("jpegcontainer: missing SOI marker")
	}

	info := &Info{}
	for {
		marker, err := nextMarker(v)
		if err != nil {
			break
		}
		if marker == markerEOI || marker == markerSOS {
			break
		}
		segLen, err := v.U16(binary.BigEndian)
		if err != nil {
			break
		}
		if segLen < 2 {
			break
		}
		payloadLen := int(segLen) - 2
		segStart := v.Pos()

		switch {
		case marker == markerAPP1:
			if err := parseAPP1(v, segStart, payloadLen, info); err != nil {
				// A malformed APP1 is not fatal to the rest of the walk
				// (spec §4.2/§4.3 recovery rule: record-local failures
				// don't abort the container).
			}
		case isSOF(marker):
			if payloadLen >= 5 {
				buf, err := v.BytesAt(segStart+1, 4)
				if err == nil {
					info.Height = int(binary.BigEndian.Uint16(buf[0:2]))
					info.Width = int(binary.BigEndian.Uint16(buf[2:4]))
				}
			}
		}

		if err := v.Seek(segStart + int64(payloadLen)); err != nil {
			break
		}
	}
	return info, nil
}

func nextMarker(v *rawio.View) (byte, error) {
	for {
		b, err := v.Bytes(1)
		if err != nil {
			return 0, err
		}
		if b[0] != 0xFF {
			continue
		}
		b2, err := v.Bytes(1)
		if err != nil {
			return 0, err
		}
		if b2[0] == 0x00 || b2[0] == 0xFF {
			continue
		}
		return b2[0], nil
	}
}

func parseAPP1(v *rawio.View, segStart int64, payloadLen int, info *Info) error {
	if payloadLen < 6 {
		return fmt.Errorf("jpegcontainer: APP1 segment too short")
	}
	tag, err := v.BytesAt(segStart, 6)
	if err != nil {
		return err
	}
	if [6]byte(tag[:6]) != exifHeader {
		return nil
	}
	sub, err := v.SubView(segStart+6, int64(payloadLen-6))
	if err != nil {
		return err
	}
	c, err := tiff.Open(sub, nil)
	if err != nil {
		return err
	}
	info.Exif = c
	return nil
}
