package cache

import "time"

// TTLs for cached values.
const (
	// GridTTL applies to rendered grids. Fonts do not change, so this is long.
	GridTTL = 30 * 24 * time.Hour

	// ProgramTTL applies to generated animation programs.
	ProgramTTL = 7 * 24 * time.Hour
)

// DefaultKeyer produces "grid:<hash>" and "program:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GridKey hashes the text and font into a grid key.
func (DefaultKeyer) GridKey(text, font string) string {
	return keyOf("grid", gridKey{Text: text, Font: font})
}

// ProgramKey hashes the grids hash and generation options into a program key.
func (DefaultKeyer) ProgramKey(gridsHash string, opts ProgramKeyOpts) string {
	return keyOf("program", programKey{Grids: gridsHash, Opts: opts})
}
