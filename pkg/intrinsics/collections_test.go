package intrinsics_test

import (
	"testing"

	"bali.dev/procedure-compiler/pkg/intrinsics"
)

func TestListBuiltUpByAddItem(t *testing.T) {
	list, err := invoke(t, "$list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range []float64{1, 2, 3} {
		list, err = invoke(t, "$addItem", list, intrinsics.Number{Value: n})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got := list.(intrinsics.List)
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}
	if got.Items[1] != (intrinsics.Number{Value: 2}) {
		t.Errorf("Items[1] = %+v, want Number{2}", got.Items[1])
	}
}

func TestSetDedupsOnAddItem(t *testing.T) {
	set, _ := invoke(t, "$set")
	set, _ = invoke(t, "$addItem", set, intrinsics.Number{Value: 1})
	set, _ = invoke(t, "$addItem", set, intrinsics.Number{Value: 1})
	set, _ = invoke(t, "$addItem", set, intrinsics.Number{Value: 2})

	got := set.(intrinsics.Set)
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 distinct items, got %d: %+v", len(got.Items), got.Items)
	}
}

func TestCatalogBuiltUpByAssociationAndAddItem(t *testing.T) {
	catalog, _ := invoke(t, "$catalog")
	assoc, err := invoke(t, "$association", intrinsics.Symbol{Value: "key"}, intrinsics.Number{Value: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	catalog, err = invoke(t, "$addItem", catalog, assoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := catalog.(intrinsics.Catalog)
	if len(got.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got.Entries))
	}
	if got.Entries[0].Value != (intrinsics.Number{Value: 42}) {
		t.Errorf("entry value = %+v, want Number{42}", got.Entries[0].Value)
	}
}

func TestCatalogAddItemRejectsNonAssociation(t *testing.T) {
	catalog, _ := invoke(t, "$catalog")
	_, err := invoke(t, "$addItem", catalog, intrinsics.Number{Value: 1})
	assertKind(t, err, intrinsics.ArgumentType)
}

func TestRangeProducesInclusiveSequence(t *testing.T) {
	got, err := invoke(t, "$range", intrinsics.Number{Value: 1}, intrinsics.Number{Value: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := got.(intrinsics.List)
	want := []intrinsics.Value{
		intrinsics.Number{Value: 1}, intrinsics.Number{Value: 2},
		intrinsics.Number{Value: 3}, intrinsics.Number{Value: 4},
	}
	if len(list.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(list.Items), len(want))
	}
	for i := range want {
		if list.Items[i] != want[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, list.Items[i], want[i])
		}
	}
}

func TestParametersWrapsArguments(t *testing.T) {
	got, err := invoke(t, "$parameters", intrinsics.Number{Value: 1}, intrinsics.Text{Value: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := got.(intrinsics.List)
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
}

func TestIteratorProtocol(t *testing.T) {
	list, _ := invoke(t, "$list")
	list, _ = invoke(t, "$addItem", list, intrinsics.Number{Value: 10})
	list, _ = invoke(t, "$addItem", list, intrinsics.Number{Value: 20})

	iterator, err := intrinsics.GetIterator(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seen []intrinsics.Value
	for {
		has, err := intrinsics.HasNext(iterator)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !has.(intrinsics.Boolean).Value {
			break
		}
		var item intrinsics.Value
		item, iterator, err = intrinsics.GetNext(iterator)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen = append(seen, item)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 items, got %d", len(seen))
	}
	if seen[0] != (intrinsics.Number{Value: 10}) || seen[1] != (intrinsics.Number{Value: 20}) {
		t.Errorf("seen = %+v, want [10, 20]", seen)
	}
}

func TestGetNextExhausted(t *testing.T) {
	list, _ := invoke(t, "$list")
	iterator, _ := intrinsics.GetIterator(list)
	_, _, err := intrinsics.GetNext(iterator)
	assertKind(t, err, intrinsics.ArgumentValue)
}

func TestSubcomponentAccessOnList(t *testing.T) {
	list, _ := invoke(t, "$list")
	list, _ = invoke(t, "$addItem", list, intrinsics.Number{Value: 1})
	list, _ = invoke(t, "$addItem", list, intrinsics.Number{Value: 2})

	got, err := intrinsics.GetSubcomponent(list, intrinsics.Number{Value: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (intrinsics.Number{Value: 2}) {
		t.Errorf("got %+v, want Number{2}", got)
	}

	updated, err := intrinsics.SetSubcomponent(list, intrinsics.Number{Value: 2}, intrinsics.Number{Value: 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = intrinsics.GetSubcomponent(updated, intrinsics.Number{Value: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (intrinsics.Number{Value: 99}) {
		t.Errorf("got %+v, want Number{99}", got)
	}
}

func TestSubcomponentAccessOutOfRange(t *testing.T) {
	list, _ := invoke(t, "$list")
	_, err := intrinsics.GetSubcomponent(list, intrinsics.Number{Value: 1})
	assertKind(t, err, intrinsics.ArgumentValue)
}
