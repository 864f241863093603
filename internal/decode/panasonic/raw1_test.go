package panasonic

import "testing"

func TestReverseBitsGet(t *testing.T) {
	var ar reverseBits
	ar[15] = 0x0b
	ar[14] = 0xf0
	ar[13] = 0xc6
	ar[12] = 0x20
	ar[11] = 0x1f

	cases := []struct {
		bitIndex int
		count    uint8
		want     uint8
	}{
		{0, 8, 0x0b},
		{8, 4, 0xf},
		{12, 8, 0x0c},
		{20, 4, 0x6},
		{24, 2, 0x0},
		{26, 8, 0x80},
	}
	for _, c := range cases {
		if got := ar.get(c.bitIndex, c.count); got != c.want {
			t.Errorf("get(%d,%d) = %#x, want %#x", c.bitIndex, c.count, got, c.want)
		}
	}
}

func TestChunkToOffset(t *testing.T) {
	cases := []struct {
		idx  int
		want int
	}{
		{0, 0x1ff8},
		{0x200, 0x3ff8},
		{0x201, 0x8},
		{0x3ff, 0x1fe8},
	}
	for _, c := range cases {
		if got := chunkToOffset(c.idx); got != c.want {
			t.Errorf("chunkToOffset(%#x) = %#x, want %#x", c.idx, got, c.want)
		}
	}
}

func TestDecodeChunk1(t *testing.T) {
	ar := reverseBits{
		0x90, 0x7A, 0x8A, 0x18, 0x02, 0x26, 0x92, 0xC7, 0xB7, 0x48, 0x20, 0x1F, 0x20, 0xC6,
		0xF0, 0x0B,
	}
	got := decodeChunk(ar)
	want := [samplesPerChunk]uint16{0xbf, 0xc6, 0xbf, 0xc2, 0xc0, 0xcd, 0xbc, 0xc6, 0xc5, 0xc6, 0xcb, 0xd0, 0xc5, 0xe0}
	if got != want {
		t.Errorf("decodeChunk = %#x, want %#x", got, want)
	}
}

func TestDecodeChunk2(t *testing.T) {
	ar := reverseBits{
		0x66, 0x73, 0xd2, 0x21, 0x22, 0x1d, 0xc9, 0x24, 0xd2, 0x55, 0x9a, 0x70, 0x7a, 0x4b,
		0xf1, 0x17,
	}
	got := decodeChunk(ar)
	want := [samplesPerChunk]uint16{
		0x17f, 0x14b, 0x251, 0x1cf, 0x223, 0x189, 0x167, 0x121, 0x11f, 0x121, 0x223, 0x1c5,
		0x209, 0x191,
	}
	if got != want {
		t.Errorf("decodeChunk = %#x, want %#x", got, want)
	}
}

func TestDecodeChunk3(t *testing.T) {
	ar := reverseBits{
		0x73, 0x81, 0x7f, 0x40, 0x9a, 0xce, 0xf1, 0x64, 0x0a, 0xcd, 0x1a, 0x82, 0xe8, 0x01,
		0x90, 0x14,
	}
	got := decodeChunk(ar)
	want := [samplesPerChunk]uint16{
		0x149, 0x0, 0x143, 0x208, 0x12e, 0x258, 0x154, 0x227, 0x147, 0x24d, 0x157, 0x24c,
		0x158, 0x23f,
	}
	if got != want {
		t.Errorf("decodeChunk = %#x, want %#x", got, want)
	}
}

func TestDecodeRaw1RejectsNonBlockMultiple(t *testing.T) {
	if _, err := DecodeRaw1(make([]byte, 100)); err == nil {
		t.Error("expected an error for a length that isn't a multiple of 0x4000")
	}
}

func TestDecodeRaw1SingleBlockSize(t *testing.T) {
	data := make([]byte, blockSize)
	out, err := DecodeRaw1(data)
	if err != nil {
		t.Fatalf("DecodeRaw1: %v", err)
	}
	wantLen := blockSize / chunkSize * samplesPerChunk
	if len(out) != wantLen {
		t.Errorf("len(out) = %d, want %d", len(out), wantLen)
	}
}
