package hasher

import "testing"

func TestHash_Deterministic(t *testing.T) {
	in := "same input"
	h1 := Hash(in)
	h2 := Hash(in)
	if h1 != h2 {
		t.Fatalf("hash must be deterministic, got %s vs %s", h1, h2)
	}
}

func TestHash_KnownVector(t *testing.T) {
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := Hash("hello")
	if got != want {
		t.Fatalf("unexpected hash: got %s want %s", got, want)
	}
}

func TestKey_PartBoundaries(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Fatal("keys with different part boundaries must differ")
	}
	if Key("v1", "5.19") != Key("v1", "5.19") {
		t.Fatal("key must be deterministic")
	}
}

func TestFloats_FullPrecision(t *testing.T) {
	got := Floats([]float64{5.1875931407704705, 15, 0})
	want := []string{"5.1875931407704705", "15", "0"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Floats()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func BenchmarkKey(b *testing.B) {
	parts := Floats([]float64{5.1875931407704705, 15, 1, 0})

	for b.Loop() {
		_ = Key(parts...)
	}
}
