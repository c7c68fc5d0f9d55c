package errors

import (
	"strings"
	"unicode"
)

// Limits applied to user-supplied input before it reaches the grid source.
const (
	MaxTextEntries    = 64
	MaxTextLength     = 256
	MaxCharacterPool  = 64
	MaxSpacing        = 16
	maxFontNameLength = 500
)

// ValidateText validates the ordered list of text entries.
//
// The validation rules are intentionally conservative:
//   - At least one entry
//   - No more than MaxTextEntries entries
//   - Each entry at most MaxTextLength characters
//   - No control characters other than line breaks, which split an entry
//     into stacked lines
func ValidateText(entries []string) error {
	if len(entries) == 0 {
		return New(ErrCodeInvalidInput, "text is required")
	}
	if len(entries) > MaxTextEntries {
		return New(ErrCodeInvalidInput, "too many text entries (max %d)", MaxTextEntries)
	}
	for i, e := range entries {
		if len([]rune(e)) > MaxTextLength {
			return New(ErrCodeInvalidInput, "text entry %d too long (max %d characters)", i, MaxTextLength)
		}
		for _, r := range e {
			if unicode.IsControl(r) && r != '\n' {
				return New(ErrCodeInvalidInput, "text entry %d contains control characters", i)
			}
		}
	}
	return nil
}

// ValidateCharacters validates a noise character pool.
// An empty pool is valid and means "use the default set".
func ValidateCharacters(pool string) error {
	if len([]rune(pool)) > MaxCharacterPool {
		return New(ErrCodeInvalidCharacters, "character pool too long (max %d characters)", MaxCharacterPool)
	}
	for _, r := range pool {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCharacters, "character pool contains control characters")
		}
	}
	if pool != "" && strings.TrimSpace(pool) == "" {
		return New(ErrCodeInvalidCharacters, "character pool must contain at least one printable character")
	}
	return nil
}

// ValidateSpacing validates the blank separator count between spaced noise characters.
func ValidateSpacing(n int) error {
	if n < 0 || n > MaxSpacing {
		return New(ErrCodeInvalidOptions, "character spacing must be between 0 and %d", MaxSpacing)
	}
	return nil
}

// ValidateFontName validates a font identifier for safety.
// Font identifiers are either a built-in font name or a path to a .flf file.
func ValidateFontName(name string) error {
	if len(name) > maxFontNameLength {
		return New(ErrCodeInvalidInput, "font name too long (max %d characters)", maxFontNameLength)
	}
	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "font name contains invalid characters")
		}
	}
	return nil
}
