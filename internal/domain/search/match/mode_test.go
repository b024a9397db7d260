package match

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   Mode
		wantOK bool
	}{
		{"", Partial, true},
		{"   ", Partial, true},
		{"partial", Partial, true},
		{"EXACT", Exact, true},
		{" exact ", Exact, true},
		{"fuzzy", Mode("fuzzy"), false},
	}
	for _, tc := range tests {
		got, ok := Parse(tc.raw)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !Partial.IsValid() || !Exact.IsValid() {
		t.Error("expected built-in modes to be valid")
	}
	if Mode("semantic").IsValid() {
		t.Error("unexpected valid mode")
	}
}
