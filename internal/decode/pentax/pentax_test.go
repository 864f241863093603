package pentax

import (
	"errors"
	"testing"

	"github.com/tacusci/rawkit/pkg/rawerr"
)

func TestBuildTableAcceptsMaxDepthTable(t *testing.T) {
	var counts [16]int
	counts[15] = 1 // one code of length 16 is fine
	if _, err := BuildTable(counts, []byte{0}); err != nil {
		t.Fatalf("unexpected error for a 16-bit-deep table: %v", err)
	}
}

func TestBuildTableAcceptsShallowTable(t *testing.T) {
	counts := [16]int{1} // one code of length 1
	table, err := BuildTable(counts, []byte{0})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table == nil {
		t.Fatal("expected a non-nil table")
	}
}

func TestDecompressionErrorIsDetectable(t *testing.T) {
	// Simulate a 17-length table by hand: BuildTable only accepts a
	// [16]int so "deeper than 16" is actually unrepresentable by
	// construction; assert the sentinel machinery itself still works for
	// whatever Decompression error this package does raise.
	err := rawerr.Decompression("pentax", "Huffman table exceeds the 16-bit depth limit")
	if !rawerr.IsDecompression(err) {
		t.Error("IsDecompression should recognize a freshly constructed DecompressionError")
	}
	if !errors.As(err, new(*rawerr.DecompressionError)) {
		t.Error("expected errors.As to match *DecompressionError")
	}
}
