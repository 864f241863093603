package tiff

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/tacusci/rawkit/internal/rawio"
)

// entrySize is the on-disk size of one IFD record: tag(2) type(2) count(4)
// value-or-offset(4).
const entrySize = 12

// Entry is one IFD record (spec §3). When unitSize*count <= 4 the value
// bytes are stored inline at construction time; otherwise `data` holds the
// external offset until first access, at which point it is replaced by the
// resolved bytes. The external bytes are read at most once; later accesses
// reuse them.
type Entry struct {
	Tag   TagID
	Type  Type
	Count uint32

	inline   bool
	data     []byte // inline value bytes, or (pre-resolution) a 4-byte offset
	resolved bool
	order    binary.ByteOrder
	view     *rawio.View // nil once resolved or if inline

	pendingOffset int64
	pendingSize   int
}

// readEntry parses one 12-byte IFD record at the view's current cursor.
// Corruption (bad type, count overflow) degrades the entry to Invalid
// rather than aborting the directory (spec §4.2 failure semantics).
func readEntry(v *rawio.View, order binary.ByteOrder) (Entry, error) {
	raw, err := v.Bytes(entrySize)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Tag:   TagID(order.Uint16(raw[0:2])),
		Type:  Type(order.Uint16(raw[2:4])),
		Count: order.Uint32(raw[4:8]),
		order: order,
	}
	unit := e.Type.UnitSize()
	if unit == 0 {
		// Unrecognized type: keep the raw 4 bytes, but mark Invalid so the
		// caller can surface a warning without aborting the IFD.
		e.Type = Invalid
		e.inline = true
		e.data = append([]byte(nil), raw[8:12]...)
		e.resolved = true
		return e, nil
	}
	total, overflow := mulOverflows(unit, e.Count)
	if overflow {
		e.Type = Invalid
		e.inline = true
		e.data = append([]byte(nil), raw[8:12]...)
		e.resolved = true
		return e, nil
	}
	if total <= 4 {
		e.inline = true
		e.data = append([]byte(nil), raw[8:8+total]...)
		e.resolved = true
	} else {
		offset := order.Uint32(raw[8:12])
		sub, err := v.SubView(0, -1)
		if err != nil {
			return Entry{}, err
		}
		e.data = raw[8:12]
		e.view = sub
		e.pendingOffset = int64(offset)
		e.pendingSize = int(total)
	}
	return e, nil
}

func mulOverflows(unit uint32, count uint32) (uint32, bool) {
	total := uint64(unit) * uint64(count)
	if total > math.MaxUint32 {
		return 0, true
	}
	return uint32(total), false
}

// resolve lazily reads the external value bytes on first access. Once the
// entry is resolved, further calls return immediately and keep the bytes
// already read.
func (e *Entry) resolve() {
	if e.resolved {
		return
	}
	if e.view == nil {
		panic("tiff: Entry resolved twice")
	}
	buf, err := e.view.BytesAt(e.pendingOffset, e.pendingSize)
	if err != nil {
		// A bad offset degrades to Invalid rather than panicking: this is a
		// record-local failure (spec §4.2).
		e.Type = Invalid
		e.data = nil
		e.resolved = true
		e.view = nil
		return
	}
	e.data = buf
	e.resolved = true
	e.view = nil
}

// Bytes returns the raw value bytes, resolving the external offset on first
// call.
func (e *Entry) Bytes() []byte {
	e.resolve()
	return e.data
}

// IsInvalid reports whether this entry degraded to the Invalid sentinel.
func (e *Entry) IsInvalid() bool { return e.Type == Invalid }

// valueAt decodes the value at index i per its declared type. The concrete
// Go type returned follows Type (e.g. uint16 for Short, uint32 for Long,
// [2]uint32 for Rational), without widening. Prefer the typed accessors
// below for known types.
func (e *Entry) valueAt(i uint32, order binary.ByteOrder) (any, bool) {
	e.resolve()
	unit := e.Type.UnitSize()
	if unit == 0 {
		return nil, false
	}
	start := i * unit
	if start+unit > uint32(len(e.data)) {
		return nil, false
	}
	b := e.data[start : start+unit]
	switch e.Type {
	case Byte, Undefined:
		return b[0], true
	case SByte:
		return int8(b[0]), true
	case Short:
		return order.Uint16(b), true
	case SShort:
		return int16(order.Uint16(b)), true
	case Long:
		return order.Uint32(b), true
	case SLong:
		return int32(order.Uint32(b)), true
	case Rational:
		return [2]uint32{order.Uint32(b[0:4]), order.Uint32(b[4:8])}, true
	case SRational:
		return [2]int32{int32(order.Uint32(b[0:4])), int32(order.Uint32(b[4:8]))}, true
	case Float:
		return math.Float32frombits(order.Uint32(b)), true
	case Double:
		return math.Float64frombits(order.Uint64(b)), true
	default:
		return nil, false
	}
}

// Uint returns the i-th value widened to uint64, for any integral type.
// Mismatch of the requested access against the stored type yields (0,false)
// without failing the whole parse (spec §4.2).
func (e *Entry) Uint(i uint32) (uint64, bool) {
	v, ok := e.valueAt(i, e.order)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case byte:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	default:
		return 0, false
	}
}

// Int returns the i-th value widened to int64, for any signed integral type.
func (e *Entry) Int(i uint32) (int64, bool) {
	v, ok := e.valueAt(i, e.order)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}

// Float returns the i-th value widened to float64, from Float, Double, or a
// rational reduced to its quotient.
func (e *Entry) Float(i uint32) (float64, bool) {
	v, ok := e.valueAt(i, e.order)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case [2]uint32:
		if n[1] == 0 {
			return 0, false
		}
		return float64(n[0]) / float64(n[1]), true
	case [2]int32:
		if n[1] == 0 {
			return 0, false
		}
		return float64(n[0]) / float64(n[1]), true
	default:
		return 0, false
	}
}

// UintArray returns every value widened to uint64.
func (e *Entry) UintArray() ([]uint64, bool) {
	out := make([]uint64, 0, e.Count)
	for i := uint32(0); i < e.Count; i++ {
		v, ok := e.Uint(i)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// ASCII returns the entry's value as a string, trimmed at the first NUL;
// trailing garbage after the NUL is discarded (spec §4.2).
func (e *Entry) ASCII() (string, bool) {
	if e.Type != Ascii {
		return "", false
	}
	e.resolve()
	if idx := indexByte(e.data, 0); idx >= 0 {
		return string(e.data[:idx]), true
	}
	return string(e.data), true
}

func indexByte(b []byte, c byte) int {
	return strings.IndexByte(string(b), c)
}

// Size returns data_size = unit_size * count.
func (e *Entry) Size() uint32 {
	return e.Type.UnitSize() * e.Count
}

// Inline reports whether the value is stored inline (data_size <= 4).
func (e *Entry) Inline() bool { return e.inline }

// Offset returns the file-relative byte offset of an external (non-inline)
// entry's value, for callers such as the MakerNote dispatcher that need to
// reinterpret the raw bytes under a different set of rules than the
// generic type system. Returns (0, false) for inline entries, which have
// no file offset of their own.
func (e *Entry) Offset() (int64, bool) {
	if e.inline {
		return 0, false
	}
	if e.resolved {
		return 0, false
	}
	return e.pendingOffset, true
}

func (e *Entry) String() string {
	return fmt.Sprintf("tag=0x%04x type=%s count=%d", uint16(e.Tag), e.Type, e.Count)
}
