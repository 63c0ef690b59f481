package intrinsics_test

import (
	"testing"

	"bali.dev/procedure-compiler/pkg/intrinsics"
)

func TestLogicalIntrinsics(t *testing.T) {
	cases := []struct {
		name string
		a, b bool
		want bool
	}{
		{"$and", true, true, true},
		{"$and", true, false, false},
		{"$or", false, false, false},
		{"$or", false, true, true},
		{"$xor", true, true, false},
		{"$xor", true, false, true},
		{"$sans", true, false, true},
		{"$sans", true, true, false},
	}

	for _, c := range cases {
		got, err := invoke(t, c.name, intrinsics.Boolean{Value: c.a}, intrinsics.Boolean{Value: c.b})
		if err != nil {
			t.Errorf("%s(%v,%v): unexpected error: %v", c.name, c.a, c.b, err)
			continue
		}
		if got != (intrinsics.Boolean{Value: c.want}) {
			t.Errorf("%s(%v,%v): got %+v, want %v", c.name, c.a, c.b, got, c.want)
		}
	}
}

func TestAndWrongType(t *testing.T) {
	_, err := invoke(t, "$and", intrinsics.Number{Value: 1}, intrinsics.Boolean{Value: true})
	assertKind(t, err, intrinsics.ArgumentType)
}
