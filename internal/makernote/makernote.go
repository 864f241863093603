// Package makernote dispatches the vendor-private MakerNote tag (spec
// §4.6) into a parsed tiff.Dir. Unlike the generic SubIFD/Exif/GPS
// pointers internal/tiff expands automatically, a MakerNote's IFD offsets
// may be relative to the whole file, to the start of the MakerNote data
// itself, or to an embedded mini-TIFF header nested inside it; its byte
// order may also differ from the outer container's. Both are determined
// by sniffing a short vendor signature at the start of the MakerNote
// bytes.
package makernote

import (
	"encoding/binary"
	"fmt"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
)

// OffsetBase selects how a MakerNote dialect's internal IFD offsets are
// anchored (spec §4.6).
type OffsetBase int

const (
	// BaseFile anchors offsets at the start of the whole container (the
	// same base as the outer TIFF's own offsets). Most Canon and Sony
	// MakerNotes use this.
	BaseFile OffsetBase = iota
	// BaseMakerNote anchors offsets at the first byte of the MakerNote
	// tag's own value. Olympus, Pentax and Panasonic use this, usually
	// after a short signature.
	BaseMakerNote
	// BaseEmbeddedTIFF anchors offsets at the start of a nested 8-byte
	// TIFF header embedded within the MakerNote, which may declare its
	// own byte order independent of the outer file. Nikon's format 3 uses
	// this.
	BaseEmbeddedTIFF
)

// sniffResult describes what a dialect's Match function found: how many
// leading bytes to skip before the IFD (or embedded TIFF header) starts,
// and the byte order to parse it with, if the dialect doesn't embed its
// own.
type sniffResult struct {
	skip  int
	order binary.ByteOrder // nil if the dialect carries its own (BaseEmbeddedTIFF)
}

// Dialect is one vendor's MakerNote layout.
type Dialect struct {
	Name  string
	Base  OffsetBase
	Dict  tiff.Dictionary
	Match func(sig []byte, outerOrder binary.ByteOrder) (sniffResult, bool)
}

func hasPrefix(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

// Dialects is the set of known vendor MakerNote layouts, tried in order.
// A real decoder grows this list per-model as quirks are discovered; this
// covers the common case for each vendor family named in spec §4.7.
var Dialects = []Dialect{
	{
		Name: "nikon3",
		Base: BaseEmbeddedTIFF,
		Dict: NikonDictionary,
		Match: func(sig []byte, outer binary.ByteOrder) (sniffResult, bool) {
			if hasPrefix(sig, "Nikon\x00") && len(sig) >= 10 {
				// "Nikon\0" + 2 version bytes + 2 reserved, then an 8-byte
				// TIFF header with its own byte order.
				return sniffResult{skip: 10}, true
			}
			return sniffResult{}, false
		},
	},
	{
		Name: "olympus2",
		Base: BaseMakerNote,
		Dict: OlympusDictionary,
		Match: func(sig []byte, outer binary.ByteOrder) (sniffResult, bool) {
			if hasPrefix(sig, "OLYMPUS\x00") && len(sig) >= 12 {
				return sniffResult{skip: 12, order: outer}, true
			}
			if hasPrefix(sig, "OLYMP\x00") && len(sig) >= 8 {
				return sniffResult{skip: 8, order: outer}, true
			}
			return sniffResult{}, false
		},
	},
	{
		Name: "panasonic",
		Base: BaseMakerNote,
		Dict: PanasonicDictionary,
		Match: func(sig []byte, outer binary.ByteOrder) (sniffResult, bool) {
			if hasPrefix(sig, "Panasonic\x00\x00\x00") {
				return sniffResult{skip: 12, order: binary.LittleEndian}, true
			}
			return sniffResult{}, false
		},
	},
	{
		Name: "pentax",
		Base: BaseMakerNote,
		Dict: PentaxDictionary,
		Match: func(sig []byte, outer binary.ByteOrder) (sniffResult, bool) {
			if hasPrefix(sig, "AOC\x00") {
				return sniffResult{skip: 6, order: outer}, true
			}
			if hasPrefix(sig, "PENTAX \x00") {
				return sniffResult{skip: 8, order: outer}, true
			}
			return sniffResult{}, false
		},
	},
	{
		Name: "fujifilm",
		Base: BaseMakerNote,
		Dict: FujifilmDictionary,
		Match: func(sig []byte, outer binary.ByteOrder) (sniffResult, bool) {
			if hasPrefix(sig, "FUJIFILM") && len(sig) >= 12 {
				// Offset to the IFD (relative to MakerNote start) is a
				// little-endian uint32 at byte 8, regardless of outer order.
				off := binary.LittleEndian.Uint32(sig[8:12])
				return sniffResult{skip: int(off), order: binary.LittleEndian}, true
			}
			return sniffResult{}, false
		},
	},
	{
		// Canon and Sony publish a bare IFD with no signature, offsets
		// relative to the whole file, inheriting the outer byte order.
		Name: "bare",
		Base: BaseFile,
		Dict: nil,
		Match: func(sig []byte, outer binary.ByteOrder) (sniffResult, bool) {
			return sniffResult{skip: 0, order: outer}, true
		},
	},
}

// Dispatch parses the MakerNote tag's value into a tiff.Dir, sniffing the
// vendor dialect from its leading bytes. `fileView` is the whole
// container's view; `mnOffset`/`mnLen` locate the MakerNote tag's raw
// value within it; `outerOrder` is the surrounding TIFF's byte order,
// inherited by dialects that don't carry their own.
func Dispatch(fileView *rawio.View, outerOrder binary.ByteOrder, mnOffset, mnLen int64, make string) (*tiff.Dir, error) {
	mnView, err := fileView.SubView(mnOffset, mnLen)
	if err != nil {
		return nil, fmt.Errorf("makernote: bad MakerNote range: %w", err)
	}
	sigLen := mnLen
	if sigLen > 16 {
		sigLen = 16
	}
	sig, err := mnView.BytesAt(0, int(sigLen))
	if err != nil {
		return nil, fmt.Errorf("makernote: truncated MakerNote: %w", err)
	}

	for _, d := range Dialects {
		res, ok := d.Match(sig, outerOrder)
		if !ok {
			continue
		}
		logging.Debug(fmt.Sprintf("makernote: sniffed dialect %s for make %q", d.Name, make))
		return parseDialect(fileView, mnView, mnOffset, d, res)
	}
	// Unreachable: the "bare" dialect always matches.
	return nil, fmt.Errorf("makernote: no dialect matched")
}

func parseDialect(fileView *rawio.View, mnView *rawio.View, mnOffset int64, d Dialect, res sniffResult) (*tiff.Dir, error) {
	dictFor := func(t tiff.IfdType) tiff.Dictionary {
		if t == tiff.IfdMakerNote {
			return d.Dict
		}
		return tiff.StandardDictionaries(t)
	}

	switch d.Base {
	case BaseEmbeddedTIFF:
		sub, err := mnView.SubView(int64(res.skip), -1)
		if err != nil {
			return nil, fmt.Errorf("makernote: bad embedded-TIFF range: %w", err)
		}
		// Read the embedded header ourselves rather than going through
		// tiff.Open: Open always roots its chain as IfdMain, which would
		// both mistag the result and pick the standard dictionary instead
		// of the vendor's over the MakerNote's own tag space.
		header, err := sub.BytesAt(0, 8)
		if err != nil {
			return nil, fmt.Errorf("makernote: truncated embedded TIFF header: %w", err)
		}
		var order binary.ByteOrder
		switch {
		case header[0] == 'I' && header[1] == 'I':
			order = binary.LittleEndian
		case header[0] == 'M' && header[1] == 'M':
			order = binary.BigEndian
		default:
			return nil, fmt.Errorf("makernote: bad embedded TIFF byte-order mark %q", header[0:2])
		}
		firstIfd := order.Uint32(header[4:8])
		c, err := tiff.OpenAt(sub, order, firstIfd, tiff.IfdMakerNote, dictFor)
		if err != nil {
			return nil, fmt.Errorf("makernote: embedded TIFF parse failed: %w", err)
		}
		if main, ok := c.Main(); ok {
			return main, nil
		}
		return nil, fmt.Errorf("makernote: embedded TIFF has no directories")

	case BaseMakerNote:
		c, err := tiff.OpenAt(mnView, res.order, uint32(res.skip), tiff.IfdMakerNote, dictFor)
		if err != nil {
			return nil, fmt.Errorf("makernote: MakerNote-relative parse failed: %w", err)
		}
		if main, ok := c.Main(); ok {
			return main, nil
		}
		return nil, fmt.Errorf("makernote: no directories parsed")

	default: // BaseFile
		c, err := tiff.OpenAt(fileView, res.order, uint32(mnOffset+int64(res.skip)), tiff.IfdMakerNote, dictFor)
		if err != nil {
			return nil, fmt.Errorf("makernote: file-relative parse failed: %w", err)
		}
		if main, ok := c.Main(); ok {
			return main, nil
		}
		return nil, fmt.Errorf("makernote: no directories parsed")
	}
}
