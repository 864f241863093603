package ljpeg

import (
	"testing"

	"github.com/tacusci/rawkit/internal/decode/bitstream"
)

func TestApplyPredictorModes(t *testing.T) {
	a, b, c := int32(10), int32(20), int32(5)
	cases := map[int]int32{
		0: 0,
		1: a,
		2: b,
		3: c,
		4: a + b - c,
		5: a + (b-c)/2,
		6: b + (a-c)/2,
		7: (a + b) / 2,
	}
	for mode, want := range cases {
		if got := applyPredictor(mode, a, b, c); got != want {
			t.Errorf("predictor %d = %d, want %d", mode, got, want)
		}
	}
}

// writeBits packs bit strings (given as counts/values) MSB-first into bytes,
// mirroring what an LJPEG encoder would emit, for building small decode
// fixtures without a real encoder.
type bitWriter struct {
	buf  []byte
	cur  byte
	nbit int
}

func (w *bitWriter) writeBit(b int) {
	w.cur = w.cur<<1 | byte(b&1)
	w.nbit++
	if w.nbit == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nbit = 0
	}
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.writeBit(int(v>>uint(i)) & 1)
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nbit > 0 {
		w.buf = append(w.buf, w.cur<<uint(8-w.nbit))
	}
	return w.buf
}

func TestDecodeComponentSingleValueTable(t *testing.T) {
	// A table where symbol 0 (category 0, i.e. "no difference") has the
	// single 1-bit code "0".
	counts := [16]int{1}
	values := []byte{0}
	table := bitstream.BuildHuffTable(counts, values)

	w := &bitWriter{}
	// 2x2 image, every sample codes category-0 (diff=0).
	for i := 0; i < 4; i++ {
		w.writeBits(0, 1)
	}
	r := bitstream.NewReader(w.bytes())
	out, err := DecodeComponent(r, table, 2, 2, 2, 0)
	if err != nil {
		t.Fatalf("DecodeComponent: %v", err)
	}
	// First sample uses the fixed 1<<15 seed; all others predict from
	// their causal neighbour with zero difference, so every sample should
	// equal the seed.
	want := int32(1 << 15)
	for i, v := range out {
		if v != want {
			t.Errorf("sample %d = %d, want %d", i, v, want)
		}
	}
}

func TestParseHeaderRejectsMissingSOI(t *testing.T) {
	if _, err := ParseHeader([]byte{0x00, 0x01}); err == nil {
		t.Error("expected an error for data without an SOI marker")
	}
}
