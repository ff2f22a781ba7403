package img2ascii

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrUnknownFont is returned when a font name resolves to neither a
	// built-in font, a font file, nor a file in the font directories.
	ErrUnknownFont = errors.New("img2ascii: unknown font")

	// ErrMissingGlyph is returned when a font has no glyph for a rune.
	ErrMissingGlyph = errors.New("img2ascii: font has no glyph for rune")
)

// loadedFont renders runes of one parsed font at any square size.
type loadedFont interface {
	render(r rune, size int) (*Glyph, error)
}

// builtinFonts are keyed by normalized name, see normalizeFontName.
var builtinFonts = map[string]func() (loadedFont, error){
	"gomono":      trueTypeBytes(gomono.TTF),
	"goregular":   trueTypeBytes(goregular.TTF),
	"gobold":      trueTypeBytes(gobold.TTF),
	"inconsolata": fixedFace(inconsolata.Regular8x16),
}

// FontRasterizer renders glyphs from TrueType, OpenType and built-in
// bitmap fonts. Parsed fonts and rendered glyphs are memoized, so a
// FontRasterizer should be shared rather than recreated per call. It is
// safe for concurrent use.
type FontRasterizer struct {
	// FontDirs are searched, recursively, for a font file whose base
	// name matches a font family name.
	FontDirs []string

	mu     sync.Mutex
	fonts  map[string]loadedFont
	glyphs map[glyphKey]*Glyph
}

type glyphKey struct {
	r    rune
	font string
	size int
}

// NewFontRasterizer returns a FontRasterizer searching dirs for font
// files, or DefaultFontDirs when none are given.
func NewFontRasterizer(dirs ...string) *FontRasterizer {
	if len(dirs) == 0 {
		dirs = DefaultFontDirs()
	}
	return &FontRasterizer{
		FontDirs: dirs,
		fonts:    make(map[string]loadedFont),
		glyphs:   make(map[glyphKey]*Glyph),
	}
}

// DefaultFontDirs returns the usual system and per-user font directories
// of Linux, macOS and Windows. Directories that do not exist are skipped
// when searching.
func DefaultFontDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
		`C:\Windows\Fonts`,
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, "Library", "Fonts"),
		)
	}
	return dirs
}

// Rasterize renders r in the named font into a size x size glyph.
func (fr *FontRasterizer) Rasterize(r rune, fontName string, size int) (*Glyph, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid glyph size %d", size)
	}

	key := glyphKey{r: r, font: fontName, size: size}
	fr.mu.Lock()
	g, ok := fr.glyphs[key]
	fr.mu.Unlock()
	if ok {
		return g, nil
	}

	f, err := fr.font(fontName)
	if err != nil {
		return nil, err
	}
	g, err = f.render(r, size)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", fontName, err)
	}

	fr.mu.Lock()
	fr.glyphs[key] = g
	fr.mu.Unlock()
	return g, nil
}

// font returns the parsed font for name, loading it on first use.
func (fr *FontRasterizer) font(name string) (loadedFont, error) {
	fr.mu.Lock()
	f, ok := fr.fonts[name]
	fr.mu.Unlock()
	if ok {
		return f, nil
	}

	f, err := fr.resolve(name)
	if err != nil {
		return nil, err
	}

	fr.mu.Lock()
	fr.fonts[name] = f
	fr.mu.Unlock()
	return f, nil
}

// resolve tries, in order: a built-in font, a font file path, and a
// family name looked up in the font directories.
func (fr *FontRasterizer) resolve(name string) (loadedFont, error) {
	if load, ok := builtinFonts[normalizeFontName(name)]; ok {
		return load()
	}

	if isFontFile(name) {
		if _, err := os.Stat(name); err == nil {
			return loadFontFile(name)
		}
	}

	path, err := findFontFile(fr.FontDirs, name)
	if err != nil {
		return nil, err
	}
	return loadFontFile(path)
}

// normalizeFontName lowercases name and drops spaces, dashes and
// underscores, so "Go Mono", "go-mono" and "GoMono" are the same font.
func normalizeFontName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc":
		return true
	}
	return false
}

// findFontFile walks dirs in order and returns the first font file whose
// base name matches family.
func findFontFile(dirs []string, family string) (string, error) {
	want := normalizeFontName(family)
	var found string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable or missing directories are not fatal
				return nil
			}
			if d.IsDir() || !isFontFile(path) {
				return nil
			}
			base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if normalizeFontName(base) == want {
				found = path
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFont, family)
}

// loadFontFile parses a TrueType file with freetype, falling back to the
// sfnt based opentype parser for OpenType, collections and TrueType files
// freetype cannot read.
func loadFontFile(path string) (loadedFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".ttf") {
		if ttf, err := freetype.ParseFont(data); err == nil {
			return &trueTypeFont{ttf: ttf}, nil
		}
	}

	f, err := parseOpenType(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return f, nil
}

func parseOpenType(data []byte) (loadedFont, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if coll.NumFonts() == 0 {
		return nil, errors.New("font collection is empty")
	}
	otf, err := coll.Font(0)
	if err != nil {
		return nil, err
	}
	return &faceFont{
		newFace: func(size int) (font.Face, error) {
			return opentype.NewFace(otf, &opentype.FaceOptions{
				Size:    float64(size),
				DPI:     72,
				Hinting: font.HintingFull,
			})
		},
	}, nil
}

func trueTypeBytes(data []byte) func() (loadedFont, error) {
	return func() (loadedFont, error) {
		ttf, err := freetype.ParseFont(data)
		if err != nil {
			return nil, err
		}
		return &trueTypeFont{ttf: ttf}, nil
	}
}

func fixedFace(face font.Face) func() (loadedFont, error) {
	return func() (loadedFont, error) {
		return &faceFont{
			newFace: func(int) (font.Face, error) { return face, nil },
			shared:  true,
		}, nil
	}
}

// baseline returns the y coordinate that vertically centers the face's
// ascent and descent in a size pixel cell.
func baseline(size int, m font.Metrics) int {
	return (size + m.Ascent.Round() - m.Descent.Round()) / 2
}

// trueTypeFont draws with the freetype rasterizer.
type trueTypeFont struct {
	ttf *truetype.Font
}

func (f *trueTypeFont) render(r rune, size int) (*Glyph, error) {
	if f.ttf.Index(r) == 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingGlyph, r)
	}

	face := truetype.NewFace(f.ttf, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	// Alpha holds raw coverage, which is what the ink threshold expects
	img := image.NewAlpha(image.Rect(0, 0, size, size))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f.ttf)
	ctx.SetFontSize(float64(size))
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	x := 0
	if adv, ok := face.GlyphAdvance(r); ok {
		x = (size - adv.Round()) / 2
	}
	if _, err := ctx.DrawString(string(r), freetype.Pt(x, baseline(size, face.Metrics()))); err != nil {
		return nil, err
	}

	return glyphFromAlpha(r, img), nil
}

// faceFont draws any font.Face with a font.Drawer. Used for OpenType
// faces and fixed-size bitmap faces.
type faceFont struct {
	newFace func(size int) (font.Face, error)
	// shared faces are package-level values and must not be closed
	shared bool
}

func (f *faceFont) render(r rune, size int) (*Glyph, error) {
	face, err := f.newFace(size)
	if err != nil {
		return nil, err
	}
	if !f.shared {
		defer face.Close()
	}

	adv, ok := face.GlyphAdvance(r)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingGlyph, r)
	}

	img := image.NewAlpha(image.Rect(0, 0, size, size))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P((size-adv.Round())/2, baseline(size, face.Metrics())),
	}
	d.DrawString(string(r))

	return glyphFromAlpha(r, img), nil
}
