package tiff

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/tacusci/rawkit/internal/rawio"
)

// buildIFD appends one IFD at the current end of buf: entry count, entries
// (tag/type/count/value), and next_offset. Entries must already carry
// inline-sized values (<=4 bytes); the offset return lets callers chain
// multiple IFDs back to back.
func buildIFD(buf *bytes.Buffer, order binary.ByteOrder, entries [][4]uint32, next uint32) {
	putU16 := func(v uint16) {
		var b [2]byte
		order.PutUint16(b[:], v)
		buf.Write(b[:])
	}
	putU32 := func(v uint32) {
		var b [4]byte
		order.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	putU16(uint16(len(entries)))
	for _, e := range entries {
		putU16(uint16(e[0]))
		putU16(uint16(e[1]))
		putU32(e[2])
		putU32(e[3])
	}
	putU32(next)
}

func newViewOf(buf []byte) *rawio.View {
	return rawio.NewView(rawio.NewSource(bytes.NewReader(buf), int64(len(buf))))
}

func TestOpenSingleIFD(t *testing.T) {
	order := binary.LittleEndian
	var body bytes.Buffer
	buildIFD(&body, order, [][4]uint32{
		{uint32(TagImageWidth), uint32(Short), 1, 640},
		{uint32(TagImageLength), uint32(Short), 1, 480},
	}, 0)

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, order, uint16(42))
	binary.Write(&buf, order, uint32(8))
	buf.Write(body.Bytes())

	c, err := Open(newViewOf(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	main, ok := c.Main()
	if !ok {
		t.Fatal("expected a Main IFD")
	}
	e, ok := main.Entry(TagImageWidth)
	if !ok {
		t.Fatal("missing ImageWidth entry")
	}
	v, ok := e.Uint(0)
	if !ok || v != 640 {
		t.Errorf("ImageWidth = %v, want 640", v)
	}
}

func TestOpenBadByteOrderMark(t *testing.T) {
	buf := []byte{'X', 'X', 0, 0, 0, 0, 0, 0}
	if _, err := Open(newViewOf(buf), nil); err == nil {
		t.Error("expected an error for a bad byte-order mark")
	}
}

func TestIFDChainStopsOnCycle(t *testing.T) {
	order := binary.LittleEndian
	const ifd1Off = 8
	var ifd1, ifd2 bytes.Buffer
	buildIFD(&ifd1, order, [][4]uint32{{uint32(TagCompression), uint32(Short), 1, 1}}, 0)
	ifd2Off := uint32(ifd1Off + ifd1.Len())
	buildIFD(&ifd2, order, [][4]uint32{{uint32(TagCompression), uint32(Short), 1, 1}}, ifd1Off)

	// Rewrite ifd1's next_offset (last 4 bytes) to point at ifd2, forming a
	// cycle: ifd1 -> ifd2 -> ifd1.
	ifd1Bytes := ifd1.Bytes()
	order.PutUint32(ifd1Bytes[len(ifd1Bytes)-4:], ifd2Off)

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, order, uint16(42))
	binary.Write(&buf, order, uint32(ifd1Off))
	buf.Write(ifd1Bytes)
	buf.Write(ifd2.Bytes())

	c, err := Open(newViewOf(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(c.Dirs) != 2 {
		t.Errorf("expected the chain to stop after detecting the cycle, got %d dirs", len(c.Dirs))
	}
}

func TestDictionaryNameFallsBackToHex(t *testing.T) {
	name := MainDictionary.Name(TagImageWidth)
	if !strings.HasPrefix(name, "Exif.") {
		t.Errorf("ImageWidth name = %q, want an Exif.* name", name)
	}
	unknown := MainDictionary.Name(TagID(0xffee))
	if unknown != "0xffee" {
		t.Errorf("unknown tag name = %q, want hex fallback", unknown)
	}
}
