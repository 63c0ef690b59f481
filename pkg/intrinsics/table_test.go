package intrinsics_test

import (
	"testing"

	"bali.dev/procedure-compiler/pkg/intrinsics"
)

func TestNewTableIndexZeroReserved(t *testing.T) {
	table := intrinsics.NewTable()
	if table[0].Name != "" || table[0].Impl != nil {
		t.Errorf("index 0 should be a zero Entry, got %+v", table[0])
	}
}

func TestNewTableIndexOfStable(t *testing.T) {
	table := intrinsics.NewTable()
	cases := []struct {
		name string
		want int
	}{
		{"$sum", 1},
		{"$difference", 2},
		{"$isMatchedBy", 10},
		{"$setParameters", 33},
	}
	for _, c := range cases {
		index, ok := table.IndexOf(c.name)
		if !ok {
			t.Errorf("%s: not found", c.name)
			continue
		}
		if index != c.want {
			t.Errorf("%s: index = %d, want %d", c.name, index, c.want)
		}
	}
}

func TestNewTableIndexOfUnknown(t *testing.T) {
	table := intrinsics.NewTable()
	if _, ok := table.IndexOf("$bogus"); ok {
		t.Error("expected $bogus to be absent from the table")
	}
}

func TestNewTableByIndexRoundTrip(t *testing.T) {
	table := intrinsics.NewTable()
	index, ok := table.IndexOf("$product")
	if !ok {
		t.Fatal("$product not found")
	}
	entry, ok := table.ByIndex(index)
	if !ok {
		t.Fatalf("ByIndex(%d) not found", index)
	}
	if entry.Name != "$product" {
		t.Errorf("entry.Name = %q, want $product", entry.Name)
	}
}

func TestNewTableByIndexOutOfRange(t *testing.T) {
	table := intrinsics.NewTable()
	if _, ok := table.ByIndex(0); ok {
		t.Error("index 0 should be reserved, not resolvable")
	}
	if _, ok := table.ByIndex(len(table)); ok {
		t.Error("out-of-range index should not resolve")
	}
}

func TestNewTableInvoke(t *testing.T) {
	table := intrinsics.NewTable()
	result, err := table.Invoke("$sum", []intrinsics.Value{
		intrinsics.Number{Value: 2}, intrinsics.Number{Value: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != (intrinsics.Number{Value: 5}) {
		t.Errorf("result = %+v, want Number{5}", result)
	}
}
