package validator

import (
	"math"
	"testing"
)

func TestValidator_KeepsFirstMessage(t *testing.T) {
	v := New()
	v.Check(false, "passenger_count", "must be provided")
	v.Check(false, "passenger_count", "must be between 1 and 6")
	v.Check(true, "pickup_latitude", "never added")

	if v.Valid() {
		t.Fatal("validator should be invalid")
	}
	if got := v.Errors["passenger_count"]; got != "must be provided" {
		t.Fatalf("unexpected message: %q", got)
	}
	if _, ok := v.Errors["pickup_latitude"]; ok {
		t.Fatal("passing check must not add an error")
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("created_at", "created_at", "fare") {
		t.Fatal("created_at should be permitted")
	}
	if PermittedValue(7, 1, 2, 3) {
		t.Fatal("7 should not be permitted")
	}
}

func TestBetween(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		want  bool
	}{
		{"lower bound", -90, true},
		{"upper bound", 90, true},
		{"below", -90.0001, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Between(tc.value, -90, 90); got != tc.want {
				t.Fatalf("Between(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
