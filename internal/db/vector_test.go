package db

import "testing"

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 3e-8, 0}
	b := VectorToBytes(in)
	if len(b) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(b))
	}
	out, err := BytesToVector(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: %v != %v", i, in[i], out[i])
		}
	}
}

func TestBytesToVector_BadLength(t *testing.T) {
	if _, err := BytesToVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error")
	}
}
