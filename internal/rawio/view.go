// Package rawio provides a cheap, cloneable random-access byte view over a
// seekable source, the foundation every container (TIFF, JPEG, BMFF, RAF)
// is built on. It generalizes the direct *os.File seek/read calls the
// teacher's raw_to_compressed.go makes inline (readHeaderBytes, readIFDBytes)
// into a reusable, sub-viewable primitive.
package rawio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tacusci/logging"
)

// Source is the minimal random-access byte source a View wraps. *os.File
// and *bytes.Reader both satisfy it.
type Source interface {
	io.ReaderAt
	Size() int64
}

// sectionSource adapts an io.ReaderAt with a known total length.
type sectionSource struct {
	r    io.ReaderAt
	size int64
}

func (s *sectionSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *sectionSource) Size() int64                             { return s.size }

// NewSource wraps an io.ReaderAt plus its total size into a Source.
func NewSource(r io.ReaderAt, size int64) Source {
	return &sectionSource{r: r, size: size}
}

// View is a cheap, cloneable handle onto a Source with a fixed base offset
// and length, and an independent cursor. Concurrent reads from a single View
// are not permitted; each consumer must clone its own (per spec §4.1).
type View struct {
	src    Source
	base   int64
	length int64
	pos    int64
}

// NewView creates a root view spanning the entire source.
func NewView(src Source) *View {
	return &View{src: src, base: 0, length: src.Size()}
}

// Clone returns an independent View over the same byte range with its own
// cursor reset to zero.
func (v *View) Clone() *View {
	return &View{src: v.src, base: v.base, length: v.length}
}

// SubView returns a new View whose offset 0 maps to this view's absolute
// offset `base`, running for `length` bytes (or to the end of this view's
// range if length < 0). Reads never leak outside the parent's byte range.
func (v *View) SubView(base int64, length int64) (*View, error) {
	if base < 0 || base > v.length {
		return nil, fmt.Errorf("rawio: sub-view base %d out of range [0,%d]", base, v.length)
	}
	remaining := v.length - base
	if length < 0 {
		length = remaining
	}
	if length > remaining {
		return nil, fmt.Errorf("rawio: sub-view length %d exceeds parent range (%d remaining)", length, remaining)
	}
	return &View{src: v.src, base: v.base + base, length: length}, nil
}

// Len returns the total byte length of this view.
func (v *View) Len() int64 { return v.length }

// Pos returns the current read cursor, relative to this view's base.
func (v *View) Pos() int64 { return v.pos }

// Seek moves the read cursor to an absolute offset within this view.
func (v *View) Seek(offset int64) error {
	if offset < 0 || offset > v.length {
		return fmt.Errorf("%w: seek to %d outside view of length %d", ioErrRange, offset, v.length)
	}
	v.pos = offset
	return nil
}

var ioErrRange = fmt.Errorf("rawio: out of range")

// ReadExact reads exactly len(buf) bytes at the current cursor, advancing it.
func (v *View) ReadExact(buf []byte) error {
	n, err := v.ReadExactAt(buf, v.pos)
	v.pos += int64(n)
	return err
}

// ReadExactAt reads exactly len(buf) bytes at an absolute offset within this
// view, without moving the cursor.
func (v *View) ReadExactAt(buf []byte, offset int64) (int, error) {
	if offset < 0 || offset+int64(len(buf)) > v.length {
		logging.Debug(fmt.Sprintf("rawio: read past view end at %d+%d (len %d)", offset, len(buf), v.length))
		return 0, io.ErrUnexpectedEOF
	}
	n, err := v.src.ReadAt(buf, v.base+offset)
	if err != nil && err != io.EOF {
		return n, err
	}
	if n != len(buf) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

// U16 reads a 2-byte unsigned integer at the cursor in the given order.
func (v *View) U16(order binary.ByteOrder) (uint16, error) {
	var b [2]byte
	if err := v.ReadExact(b[:]); err != nil {
		return 0, err
	}
	return order.Uint16(b[:]), nil
}

// U32 reads a 4-byte unsigned integer at the cursor in the given order.
func (v *View) U32(order binary.ByteOrder) (uint32, error) {
	var b [4]byte
	if err := v.ReadExact(b[:]); err != nil {
		return 0, err
	}
	return order.Uint32(b[:]), nil
}

// U16At reads a 2-byte unsigned integer at an absolute offset.
func (v *View) U16At(offset int64, order binary.ByteOrder) (uint16, error) {
	var b [2]byte
	if _, err := v.ReadExactAt(b[:], offset); err != nil {
		return 0, err
	}
	return order.Uint16(b[:]), nil
}

// U32At reads a 4-byte unsigned integer at an absolute offset.
func (v *View) U32At(offset int64, order binary.ByteOrder) (uint32, error) {
	var b [4]byte
	if _, err := v.ReadExactAt(b[:], offset); err != nil {
		return 0, err
	}
	return order.Uint32(b[:]), nil
}

// Bytes reads `count` bytes at the current cursor and returns a freshly
// allocated copy (never a borrowed slice, per spec §9's ownership rule for
// data that may outlive the container).
func (v *View) Bytes(count int) ([]byte, error) {
	buf := make([]byte, count)
	if err := v.ReadExact(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// BytesAt reads `count` bytes at an absolute offset and returns a copy.
func (v *View) BytesAt(offset int64, count int) ([]byte, error) {
	buf := make([]byte, count)
	if _, err := v.ReadExactAt(buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}
