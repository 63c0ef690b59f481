package intrinsics_test

import (
	"errors"
	"testing"

	"bali.dev/procedure-compiler/pkg/intrinsics"
)

func invoke(t *testing.T, name string, args ...intrinsics.Value) (intrinsics.Value, error) {
	t.Helper()
	return intrinsics.NewTable().Invoke(name, args)
}

func TestArithmeticIntrinsics(t *testing.T) {
	cases := []struct {
		name string
		args []intrinsics.Value
		want intrinsics.Value
	}{
		{"$sum", []intrinsics.Value{intrinsics.Number{Value: 2}, intrinsics.Number{Value: 3}}, intrinsics.Number{Value: 5}},
		{"$difference", []intrinsics.Value{intrinsics.Number{Value: 5}, intrinsics.Number{Value: 3}}, intrinsics.Number{Value: 2}},
		{"$product", []intrinsics.Value{intrinsics.Number{Value: 4}, intrinsics.Number{Value: 3}}, intrinsics.Number{Value: 12}},
		{"$quotient", []intrinsics.Value{intrinsics.Number{Value: 9}, intrinsics.Number{Value: 3}}, intrinsics.Number{Value: 3}},
		{"$remainder", []intrinsics.Value{intrinsics.Number{Value: 7}, intrinsics.Number{Value: 2}}, intrinsics.Number{Value: 1}},
		{"$exponential", []intrinsics.Value{intrinsics.Number{Value: 2}, intrinsics.Number{Value: 10}}, intrinsics.Number{Value: 1024}},
		{"$factorial", []intrinsics.Value{intrinsics.Number{Value: 5}}, intrinsics.Number{Value: 120}},
		{"$complement", []intrinsics.Value{intrinsics.Boolean{Value: true}}, intrinsics.Boolean{Value: false}},
		{"$inverse", []intrinsics.Value{intrinsics.Number{Value: 4}}, intrinsics.Number{Value: -4}},
		{"$reciprocal", []intrinsics.Value{intrinsics.Number{Value: 4}}, intrinsics.Number{Value: 0.25}},
		{"$conjugate", []intrinsics.Value{intrinsics.Number{Value: 4}}, intrinsics.Number{Value: 4}},
		{"$magnitude", []intrinsics.Value{intrinsics.Number{Value: -4}}, intrinsics.Number{Value: 4}},
		{"$default", []intrinsics.Value{intrinsics.NoneValue{}, intrinsics.Number{Value: 7}}, intrinsics.Number{Value: 7}},
		{"$default", []intrinsics.Value{intrinsics.Number{Value: 2}, intrinsics.Number{Value: 7}}, intrinsics.Number{Value: 2}},
	}

	for _, c := range cases {
		got, err := intrinsics.NewTable().Invoke(c.name, c.args)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestQuotientByZero(t *testing.T) {
	_, err := invoke(t, "$quotient", intrinsics.Number{Value: 1}, intrinsics.Number{Value: 0})
	assertKind(t, err, intrinsics.ArgumentValue)
}

func TestFactorialOfNegative(t *testing.T) {
	_, err := invoke(t, "$factorial", intrinsics.Number{Value: -1})
	assertKind(t, err, intrinsics.ArgumentValue)
}

func TestSumWrongType(t *testing.T) {
	_, err := invoke(t, "$sum", intrinsics.Text{Value: "x"}, intrinsics.Number{Value: 1})
	assertKind(t, err, intrinsics.ArgumentType)
}

func assertKind(t *testing.T, err error, want intrinsics.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var intrinsicErr *intrinsics.IntrinsicError
	if !errors.As(err, &intrinsicErr) {
		t.Fatalf("expected *intrinsics.IntrinsicError, got %T: %v", err, err)
	}
	if intrinsicErr.Kind != want {
		t.Errorf("kind = %v, want %v", intrinsicErr.Kind, want)
	}
}
