// Package raf parses Fujifilm's RAF container (spec §4.5): a fixed
// 160-byte ASCII/binary header (magic, model name), an offset table giving
// the embedded JPEG, the TLV-coded metadata block and the CFA data, and
// the metadata block itself. The CFA range is taken from the offset table;
// no TIFF structure is parsed here.
package raf

import (
	"encoding/binary"
	"fmt"

	"github.com/tacusci/rawkit/internal/rawio"
)

const magic = "FUJIFILMCCD-RAW "
const headerSize = 160

// Header is the fixed-layout portion of a RAF file.
type Header struct {
	Model        string
	JpegOffset   uint32
	JpegLength   uint32
	CFAOffset    uint32
	CFALength    uint32
	MetaOffset   uint32
	MetaLength   uint32
}

// TLVEntry is one entry of the metadata TLV table following the fixed
// header.
type TLVEntry struct {
	Tag  uint16
	Data []byte
}

// ParseHeader reads the fixed 160-byte RAF header and the three following
// offset/length pairs (JPEG preview, metadata block, CFA data).
func ParseHeader(view *rawio.View) (*Header, error) {
	buf, err := view.BytesAt(0, headerSize)
	if err != nil {
		return nil, fmt.Errorf("raf: truncated header: %w", err)
	}
	if string(buf[0:16]) != magic {
		return nil, fmt.Errorf("raf: bad magic %q", buf[0:16])
	}
	model := trimNulls(buf[16:48])

	// Offsets live in a fixed table after the 160-byte header in most RAF
	// generations: [jpeg_off, jpeg_len, meta_off, meta_len, cfa_off,
	// cfa_len] as consecutive big-endian uint32s, the meta pair locating
	// the TLV block. Only these six fields are read.
	tail, err := view.BytesAt(headerSize, 32)
	if err != nil {
		return nil, fmt.Errorf("raf: truncated offset table: %w", err)
	}
	h := &Header{
		Model:      model,
		JpegOffset: binary.BigEndian.Uint32(tail[0:4]),
		JpegLength: binary.BigEndian.Uint32(tail[4:8]),
		MetaOffset: binary.BigEndian.Uint32(tail[8:12]),
		MetaLength: binary.BigEndian.Uint32(tail[12:16]),
		CFAOffset:  binary.BigEndian.Uint32(tail[16:20]),
		CFALength:  binary.BigEndian.Uint32(tail[20:24]),
	}
	return h, nil
}

func trimNulls(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}

// ParseMetaTLV reads the TLV-coded metadata block (tag:2, length:2,
// value:length, repeating) that follows the fixed header.
func ParseMetaTLV(view *rawio.View, h *Header) ([]TLVEntry, error) {
	if h.MetaLength == 0 {
		return nil, nil
	}
	sub, err := view.SubView(int64(h.MetaOffset), int64(h.MetaLength))
	if err != nil {
		return nil, fmt.Errorf("raf: bad metadata range: %w", err)
	}
	var entries []TLVEntry
	for sub.Pos() < sub.Len() {
		tag, err := sub.U16(binary.BigEndian)
		if err != nil {
			break
		}
		length, err := sub.U16(binary.BigEndian)
		if err != nil {
			break
		}
		data, err := sub.Bytes(int(length))
		if err != nil {
			break
		}
		entries = append(entries, TLVEntry{Tag: tag, Data: data})
	}
	return entries, nil
}
