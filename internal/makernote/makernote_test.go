package makernote

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/tiff"
)

func buildIFDBytes(order binary.ByteOrder, entries [][4]uint32, next uint32) []byte {
	var buf bytes.Buffer
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
		if e[1] == uint32(tiff.Short) && e[2] == 1 {
			// A single Short is left-justified in the 4-byte value field.
			putU16(uint16(e[3]))
			putU16(0)
		} else {
			putU32(e[3])
		}
	}
	putU32(next)
	return buf.Bytes()
}

func TestDispatchBareDialectIsFileRelative(t *testing.T) {
	order := binary.LittleEndian
	ifd := buildIFDBytes(order, [][4]uint32{{0x0001, uint32(tiff.Short), 1, 7}}, 0)

	// Lay the file out as: [8 filler bytes][IFD at offset 8].
	var file bytes.Buffer
	file.Write(make([]byte, 8))
	mnOffset := int64(file.Len())
	file.Write(ifd)

	view := rawio.NewView(rawio.NewSource(bytes.NewReader(file.Bytes()), int64(file.Len())))
	dir, err := Dispatch(view, order, mnOffset, int64(len(ifd)), "Canon")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	e, ok := dir.Entry(0x0001)
	if !ok {
		t.Fatal("expected tag 0x0001 in the dispatched Dir")
	}
	v, _ := e.Uint(0)
	if v != 7 {
		t.Errorf("tag value = %d, want 7", v)
	}
}

func TestDispatchNikon3EmbedsOwnTIFFHeader(t *testing.T) {
	order := binary.BigEndian
	ifd := buildIFDBytes(order, [][4]uint32{{0x0093, uint32(tiff.Short), 1, 2}}, 0)

	var embedded bytes.Buffer
	embedded.WriteString("MM")
	embedded.Write([]byte{0x00, 0x2a})
	var firstIfd [4]byte
	order.PutUint32(firstIfd[:], 8)
	embedded.Write(firstIfd[:])
	embedded.Write(ifd)

	var mn bytes.Buffer
	mn.WriteString("Nikon\x00")
	mn.Write([]byte{0x02, 0x00, 0x00, 0x00})
	mn.Write(embedded.Bytes())

	view := rawio.NewView(rawio.NewSource(bytes.NewReader(mn.Bytes()), int64(mn.Len())))
	dir, err := Dispatch(view, binary.LittleEndian, 0, int64(mn.Len()), "NIKON CORPORATION")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if dir.Type != tiff.IfdMakerNote {
		t.Errorf("dir.Type = %v, want IfdMakerNote", dir.Type)
	}
	e, ok := dir.Entry(0x0093)
	if !ok {
		t.Fatal("expected tag 0x0093 (NEFDecodeTable) in the dispatched Dir")
	}
	v, _ := e.Uint(0)
	if v != 2 {
		t.Errorf("tag value = %d, want 2", v)
	}
}

func TestDispatchPanasonicIsMakerNoteRelative(t *testing.T) {
	order := binary.LittleEndian
	ifd := buildIFDBytes(order, [][4]uint32{{0x0001, uint32(tiff.Short), 1, 3}}, 0)

	var mn bytes.Buffer
	mn.WriteString("Panasonic\x00\x00\x00")
	mn.Write(ifd)

	view := rawio.NewView(rawio.NewSource(bytes.NewReader(mn.Bytes()), int64(mn.Len())))
	dir, err := Dispatch(view, order, 0, int64(mn.Len()), "Panasonic")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	e, ok := dir.Entry(0x0001)
	if !ok {
		t.Fatal("expected tag 0x0001 in the dispatched Dir")
	}
	v, _ := e.Uint(0)
	if v != 3 {
		t.Errorf("tag value = %d, want 3", v)
	}
}
