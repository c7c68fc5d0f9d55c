// Package fonts resolves font identifiers for the glyph renderer.
//
// An identifier is one of:
//   - empty, meaning [Default];
//   - [Plain], meaning the text is already ASCII art and is used verbatim;
//   - an http or https URL of a FIGlet font file;
//   - a path to a FIGlet font file (anything ending in ".flf" or containing
//     a path separator);
//   - a font name, looked up as "<name>.flf" in the configured font
//     directories and otherwise treated as a built-in FIGlet font.
package fonts

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/asciiwipe/pkg/errors"
)

// Default is the font used when none is configured.
const Default = "standard"

// Plain passes text through unchanged, one grid row per line.
const Plain = "plain"

// Ext is the FIGlet font file extension.
const Ext = ".flf"

// builtin lists the bundled FIGlet fonts offered in listings. The renderer
// accepts any font it ships, this is the curated subset.
var builtin = []string{
	"banner",
	"big",
	"block",
	"bubble",
	"digital",
	"doom",
	"isometric1",
	"larry3d",
	"lean",
	"mini",
	"script",
	"shadow",
	"slant",
	"small",
	"speed",
	"standard",
	"starwars",
	"stop",
	"thin",
}

// Builtin returns the names of the bundled fonts, sorted.
func Builtin() []string {
	return slices.Clone(builtin)
}

// IsBuiltin reports whether name is one of the listed bundled fonts.
func IsBuiltin(name string) bool {
	_, ok := slices.BinarySearch(builtin, strings.ToLower(name))
	return ok
}

// Font is a resolved font identifier.
type Font struct {
	// Name is the font name (file base name for font files).
	Name string
	// Path is set for fonts loaded from a file.
	Path string
	// URL is set for fonts downloaded over HTTP.
	URL string
}

// IsPlain reports whether f passes text through unchanged.
func (f Font) IsPlain() bool { return f.Name == Plain && f.Path == "" && f.URL == "" }

// IsFile reports whether f is loaded from a font file.
func (f Font) IsFile() bool { return f.Path != "" }

// IsRemote reports whether f is downloaded from a URL.
func (f Font) IsRemote() bool { return f.URL != "" }

// IsURL reports whether id is an http or https URL.
func IsURL(id string) bool {
	lower := strings.ToLower(id)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsPath reports whether id names a local font file rather than a font.
func IsPath(id string) bool {
	if IsURL(id) {
		return false
	}
	return strings.HasSuffix(strings.ToLower(id), Ext) || strings.ContainsRune(id, os.PathSeparator) || strings.ContainsRune(id, '/')
}

// Resolve maps a font identifier to a Font. Explicit paths must exist;
// names are searched in dirs before falling back to the bundled fonts.
func Resolve(id string, dirs ...string) (Font, error) {
	id = strings.TrimSpace(id)
	if err := errors.ValidateFontName(id); err != nil {
		return Font{}, err
	}
	switch {
	case id == "":
		return Font{Name: Default}, nil
	case strings.EqualFold(id, Plain):
		return Font{Name: Plain}, nil
	case IsURL(id):
		return Font{Name: strings.TrimSuffix(path.Base(id), Ext), URL: id}, nil
	case IsPath(id):
		if _, err := os.Stat(id); err != nil {
			return Font{}, errors.Wrap(errors.ErrCodeFontLoad, err, "failed to load font %q", id)
		}
		return Font{Name: strings.TrimSuffix(filepath.Base(id), Ext), Path: id}, nil
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, id+Ext)
		if _, err := os.Stat(p); err == nil {
			return Font{Name: id, Path: p}, nil
		}
	}
	return Font{Name: strings.ToLower(id)}, nil
}

// List returns the bundled fonts followed by the font files found in dirs.
// Missing directories are skipped.
func List(dirs ...string) []string {
	out := Builtin()
	for _, dir := range dirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*"+Ext))
		for _, m := range matches {
			name := strings.TrimSuffix(filepath.Base(m), Ext)
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}
