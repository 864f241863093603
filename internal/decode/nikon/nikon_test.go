package nikon

import "testing"

func TestBuildTableKnownDialects(t *testing.T) {
	for _, id := range []TableID{TableLossy12, TableLossless12, TableLossy14} {
		table, err := BuildTable(id)
		if err != nil {
			t.Fatalf("BuildTable(%d): %v", id, err)
		}
		if table == nil {
			t.Fatalf("BuildTable(%d) returned nil", id)
		}
	}
}

func TestBuildTableUnknownID(t *testing.T) {
	if _, err := BuildTable(TableID(99)); err == nil {
		t.Error("expected an error for an unknown table id")
	}
}

func TestDiffIteratorDecodesPlaneOfExpectedSize(t *testing.T) {
	table, err := BuildTable(TableLossless12)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	// An all-zero stream decodes to repeated shortest-code symbols; we
	// only assert shape here since exact values depend on the fixed
	// table's shortest code, covered indirectly via BuildTable above.
	data := make([]byte, 64)
	it := NewDiffIterator(data, table, 4, 4, PredictVertical)
	out, err := it.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 16 {
		t.Errorf("len(out) = %d, want 16", len(out))
	}
}
