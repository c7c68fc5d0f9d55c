// Package noise implements the noise-character policy used by the frame
// generator: which runes may fill a "static" cell and how they are sampled.
//
// All randomness flows through a single [Sampler], so callers (and tests) can
// swap in a deterministic source and reason about which cells are blank
// without caring which noise rune was picked.
package noise

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
)

// DefaultCharacters is the noise pool used when none is configured.
const DefaultCharacters = "/*+#"

// DefaultSpacing is the number of blanks inserted between characters of
// the spaced pool.
const DefaultSpacing = 1

// Sampler picks an index in [0, n). It must not be called with n <= 0.
type Sampler interface {
	IntN(n int) int
}

// NewSampler returns a PCG-backed sampler. The same non-zero seed always
// yields the same sequence; a zero seed is replaced by the current time.
func NewSampler(seed uint64) Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Pool is a set of runes noise is drawn from.
type Pool []rune

// NewPool builds a pool from a character string, falling back to
// DefaultCharacters when chars is empty.
func NewPool(chars string) Pool {
	if chars == "" {
		chars = DefaultCharacters
	}
	return Pool([]rune(chars))
}

// Dense returns the pool without whitespace, so every sample is visible.
// If nothing printable remains the default set is used.
func (p Pool) Dense() Pool {
	out := make(Pool, 0, len(p))
	for _, r := range p {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return NewPool(DefaultCharacters)
	}
	return out
}

// Spaced returns the pool with n blanks inserted between consecutive
// characters. Sampling from it leaves roughly n/(n+1) of cells empty, which
// is what gives spaced rows their sparse look.
func (p Pool) Spaced(n int) Pool {
	if n <= 0 || len(p) < 2 {
		return append(Pool(nil), p...)
	}
	sep := []rune(strings.Repeat(" ", n))
	out := make(Pool, 0, len(p)+(len(p)-1)*n)
	for i, r := range p {
		if i > 0 {
			out = append(out, sep...)
		}
		out = append(out, r)
	}
	return out
}

// String returns the pool as a string.
func (p Pool) String() string { return string(p) }

// Pick samples one rune from the pool.
func Pick(p Pool, s Sampler) rune {
	return p[s.IntN(len(p))]
}

// Scramble replaces every non-blank cell of row in place with a rune drawn
// from the pool. Blank cells are left untouched.
func Scramble(row []rune, p Pool, s Sampler) {
	for i, r := range row {
		if unicode.IsSpace(r) {
			continue
		}
		row[i] = Pick(p, s)
	}
}
