package noise

import (
	"testing"
	"unicode"
)

// fixedSampler always returns the same index, clamped to n.
type fixedSampler int

func (f fixedSampler) IntN(n int) int { return min(int(f), n-1) }

func TestNewPoolDefault(t *testing.T) {
	if got := NewPool("").String(); got != DefaultCharacters {
		t.Errorf("NewPool(\"\") = %q, want %q", got, DefaultCharacters)
	}
	if got := NewPool("ab").String(); got != "ab" {
		t.Errorf("NewPool(\"ab\") = %q", got)
	}
}

func TestSpaced(t *testing.T) {
	tests := []struct {
		pool string
		n    int
		want string
	}{
		{"/*+#", 1, "/ * + #"},
		{"/*+#", 2, "/  *  +  #"},
		{"/*+#", 0, "/*+#"},
		{"#", 3, "#"},
		{"▒░█", 1, "▒ ░ █"},
	}
	for _, tt := range tests {
		if got := NewPool(tt.pool).Spaced(tt.n).String(); got != tt.want {
			t.Errorf("Spaced(%q, %d) = %q, want %q", tt.pool, tt.n, got, tt.want)
		}
	}
}

func TestDense(t *testing.T) {
	tests := []struct {
		pool string
		want string
	}{
		{"▒ ░ █", "▒░█"},
		{"/*+#", "/*+#"},
		{"   ", DefaultCharacters},
	}
	for _, tt := range tests {
		if got := Pool([]rune(tt.pool)).Dense().String(); got != tt.want {
			t.Errorf("Dense(%q) = %q, want %q", tt.pool, got, tt.want)
		}
	}
}

func TestScrambleLeavesBlanks(t *testing.T) {
	row := []rune(" ab  c ")
	Scramble(row, NewPool("#"), fixedSampler(0))
	if got := string(row); got != " ##  # " {
		t.Errorf("Scramble() = %q, want %q", got, " ##  # ")
	}
}

func TestScrambleSpacedNeverResurrects(t *testing.T) {
	s := NewSampler(7)
	pool := NewPool("").Spaced(2)
	for i := 0; i < 100; i++ {
		row := []rune("  XXXX  XX  ")
		blank := make([]bool, len(row))
		for j, r := range row {
			blank[j] = unicode.IsSpace(r)
		}
		Scramble(row, pool, s)
		for j, r := range row {
			if blank[j] && !unicode.IsSpace(r) {
				t.Fatalf("cell %d resurrected: %q", j, string(row))
			}
		}
	}
}

func TestSamplerDeterministic(t *testing.T) {
	a, b := NewSampler(42), NewSampler(42)
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(100), b.IntN(100); x != y {
			t.Fatalf("samplers with equal seeds diverged at %d: %d != %d", i, x, y)
		}
	}
}

func TestPickInPool(t *testing.T) {
	s := NewSampler(1)
	pool := NewPool("ab")
	for i := 0; i < 50; i++ {
		if r := Pick(pool, s); r != 'a' && r != 'b' {
			t.Fatalf("Pick() = %q, not in pool", r)
		}
	}
}
