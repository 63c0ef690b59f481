package intrinsics_test

import (
	"testing"

	"bali.dev/procedure-compiler/pkg/intrinsics"
)

func TestComparisonIntrinsics(t *testing.T) {
	cases := []struct {
		name string
		args []intrinsics.Value
		want bool
	}{
		{"$isLessThan", []intrinsics.Value{intrinsics.Number{Value: 1}, intrinsics.Number{Value: 2}}, true},
		{"$isLessThan", []intrinsics.Value{intrinsics.Number{Value: 2}, intrinsics.Number{Value: 1}}, false},
		{"$isMoreThan", []intrinsics.Value{intrinsics.Number{Value: 2}, intrinsics.Number{Value: 1}}, true},
		{"$isEqualTo", []intrinsics.Value{intrinsics.Text{Value: "a"}, intrinsics.Text{Value: "a"}}, true},
		{"$isEqualTo", []intrinsics.Value{intrinsics.Text{Value: "a"}, intrinsics.Text{Value: "b"}}, false},
		{"$isEqualTo", []intrinsics.Value{intrinsics.Number{Value: 1}, intrinsics.Text{Value: "1"}}, false},
		{"$isSameAs", []intrinsics.Value{intrinsics.Number{Value: 1}, intrinsics.Number{Value: 1}}, true},
		{"$isSameAs", []intrinsics.Value{intrinsics.Number{Value: 1}, intrinsics.Text{Value: "1"}}, false},
		{"$isMatchedBy", []intrinsics.Value{intrinsics.Text{Value: "hello world"}, intrinsics.Text{Value: "world"}}, true},
		{"$isMatchedBy", []intrinsics.Value{intrinsics.Text{Value: "hello"}, intrinsics.Text{Value: "world"}}, false},
	}

	for _, c := range cases {
		got, err := invoke(t, c.name, c.args...)
		if err != nil {
			t.Errorf("%s(%v): unexpected error: %v", c.name, c.args, err)
			continue
		}
		b, ok := got.(intrinsics.Boolean)
		if !ok {
			t.Errorf("%s: result is %T, want Boolean", c.name, got)
			continue
		}
		if b.Value != c.want {
			t.Errorf("%s(%v): got %v, want %v", c.name, c.args, b.Value, c.want)
		}
	}
}

func TestIsLessThanWrongType(t *testing.T) {
	_, err := invoke(t, "$isLessThan", intrinsics.Text{Value: "a"}, intrinsics.Number{Value: 1})
	assertKind(t, err, intrinsics.ArgumentType)
}
