package unpack

import "testing"

func TestUnpackRaw12BitMSB(t *testing.T) {
	// Two 12-bit samples (0xABC, 0x123) packed MSB-first into 3 bytes.
	data := []byte{0xAB, 0xC1, 0x23}
	got, err := UnpackRaw(data, 12, 2, MSBFirst)
	if err != nil {
		t.Fatalf("UnpackRaw: %v", err)
	}
	want := []uint16{0xABC, 0x123}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestUnpackScalesToSixteenBits(t *testing.T) {
	data := []byte{0xFF, 0xF0}
	got, err := Unpack(data, 12, 1, MSBFirst)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got[0] != 0xFFF0 {
		t.Errorf("scaled sample = %#x, want 0xfff0", got[0])
	}
}

func TestUnpackTruncatedInput(t *testing.T) {
	data := []byte{0x00}
	if _, err := UnpackRaw(data, 12, 2, MSBFirst); err == nil {
		t.Error("expected an error reading past the end of the buffer")
	}
}

func TestPackedSize(t *testing.T) {
	if got := PackedSize(12, 2); got != 3 {
		t.Errorf("PackedSize(12,2) = %d, want 3", got)
	}
	if got := PackedSize(10, 1); got != 2 {
		t.Errorf("PackedSize(10,1) = %d, want 2", got)
	}
}
