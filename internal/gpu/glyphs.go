package gpu

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"
)

// Font is a parsed TrueType or OpenType font, usable both for shaping and
// for rasterising glyph outlines.
type Font struct {
	shape   *gtfont.Font
	outline *sfnt.Font
}

// ParseFont parses font file data.
func ParseFont(data []byte) (*Font, error) {
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font for shaping: %w", err)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font outlines: %w", err)
	}
	return &Font{shape: face.Font, outline: f}, nil
}

var defaultFont = sync.OnceValues(func() (*Font, error) {
	return ParseFont(goregular.TTF)
})

// DefaultFont returns the Go Regular font.
func DefaultFont() (*Font, error) { return defaultFont() }

// placedGlyph is a glyph positioned on the baseline, in pixels.
type placedGlyph struct {
	id   sfnt.GlyphIndex
	x, y float32
}

// glyphKey identifies a rasterised glyph. Sizes are quantised to quarter
// pixels.
type glyphKey struct {
	id   sfnt.GlyphIndex
	size int32
}

// glyphImage locates a rasterised glyph in the atlas. left and top give the
// offset of the image's top-left corner from the glyph origin.
type glyphImage struct {
	region    AtlasRegion
	left, top int
}

// glyphCache shapes text and rasterises glyphs into an atlas.
type glyphCache struct {
	font    *Font
	atlas   *GlyphAtlas
	images  map[glyphKey]glyphImage
	shaper  shaping.HarfbuzzShaper
	buf     sfnt.Buffer
	raster  vector.Rasterizer
	scratch *image.Alpha
}

func newGlyphCache(f *Font, atlasSize int) *glyphCache {
	return &glyphCache{
		font:   f,
		atlas:  NewGlyphAtlas(atlasSize),
		images: make(map[glyphKey]glyphImage),
	}
}

// reset empties the atlas and forgets every rasterised glyph.
func (gc *glyphCache) reset() {
	gc.atlas.Reset()
	clear(gc.images)
}

func quantizeSize(size float32) int32 {
	return int32(math.Round(float64(size) * 4))
}

// lineMetrics returns the ascent and line height at size pixels.
func (gc *glyphCache) lineMetrics(size float32) (ascent, height float32) {
	m, err := gc.font.outline.Metrics(&gc.buf, fixed.Int26_6(size*64), font.HintingNone)
	if err != nil {
		return size, size * 1.2
	}
	return float32(m.Ascent) / 64, float32(m.Height) / 64
}

// layout shapes text with its first line's top-left corner at origin.
// Lines are split on '\n' and each line is split into runs of uniform
// direction, placed left to right in visual order.
func (gc *glyphCache) layout(text string, size float32, origin Vec2, out []placedGlyph) []placedGlyph {
	ascent, height := gc.lineMetrics(size)
	face := gtfont.NewFace(gc.font.shape)
	baseline := origin.Y + ascent
	for _, line := range strings.Split(text, "\n") {
		pen := origin.X
		for _, run := range visualRuns(line) {
			out, pen = gc.shapeRun(face, run, size, pen, baseline, out)
		}
		baseline += height
	}
	return out
}

type textRun struct {
	runes []rune
	rtl   bool
}

// visualRuns splits a line into directional runs in visual order.
func visualRuns(line string) []textRun {
	runes := []rune(line)
	if len(runes) == 0 {
		return nil
	}
	p := bidi.Paragraph{}
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return []textRun{{runes: runes}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []textRun{{runes: runes}}
	}
	runs := make([]textRun, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		// Pos is inclusive, in runes.
		start, end := run.Pos()
		if start < 0 || end >= len(runes) || start > end {
			continue
		}
		runs = append(runs, textRun{runes: runes[start : end+1], rtl: run.Direction() == bidi.RightToLeft})
	}
	return runs
}

func (gc *glyphCache) shapeRun(face *gtfont.Face, run textRun, size, pen, baseline float32, out []placedGlyph) ([]placedGlyph, float32) {
	dir := di.DirectionLTR
	if run.rtl {
		dir = di.DirectionRTL
	}
	output := gc.shaper.Shape(shaping.Input{
		Text:      run.runes,
		RunStart:  0,
		RunEnd:    len(run.runes),
		Direction: dir,
		Face:      face,
		Size:      fixed.Int26_6(size * 64),
		Script:    runScript(run.runes),
		Language:  language.NewLanguage("en"),
	})
	for _, g := range output.Glyphs {
		out = append(out, placedGlyph{
			id: sfnt.GlyphIndex(g.GlyphID), //nolint:gosec // glyph ids fit uint16
			x:  pen + float32(g.XOffset)/64,
			// Shaper offsets are y-up.
			y: baseline - float32(g.YOffset)/64,
		})
		pen += float32(g.Advance) / 64
	}
	return out, pen
}

// runScript returns the script of the first non-space rune.
func runScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// glyph returns the atlas image of id at size, rasterising it on first use.
// ok is false for glyphs without an outline and for glyphs too large for
// the atlas. ErrAtlasFull is returned when the atlas has no room left.
func (gc *glyphCache) glyph(id sfnt.GlyphIndex, size float32) (img glyphImage, ok bool, err error) {
	key := glyphKey{id, quantizeSize(size)}
	if img, ok := gc.images[key]; ok {
		return img, img.region.IsValid(), nil
	}

	ppem := fixed.Int26_6(key.size * 16)
	segs, err := gc.font.outline.LoadGlyph(&gc.buf, id, ppem, nil)
	if err != nil || len(segs) == 0 {
		gc.images[key] = glyphImage{}
		return glyphImage{}, false, nil
	}

	b := segs.Bounds()
	x0, y0 := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-x0, b.Max.Y.Ceil()-y0
	if w <= 0 || h <= 0 {
		gc.images[key] = glyphImage{}
		return glyphImage{}, false, nil
	}
	if !gc.atlas.Fits(w, h) {
		slogger().Debug("ggui: glyph larger than atlas", "glyph", id, "size", size, "w", w, "h", h)
		gc.images[key] = glyphImage{}
		return glyphImage{}, false, nil
	}

	gc.rasterize(segs, x0, y0, w, h)
	region, err := gc.atlas.Insert(w, h, gc.scratch.Stride, gc.scratch.Pix)
	if err != nil {
		return glyphImage{}, false, err
	}
	img = glyphImage{region: region, left: x0, top: y0}
	gc.images[key] = img
	return img, true, nil
}

// rasterize fills gc.scratch with the coverage of segs, translated so that
// (x0, y0) maps to the image origin.
func (gc *glyphCache) rasterize(segs sfnt.Segments, x0, y0, w, h int) {
	gc.raster.Reset(w, h)
	dx, dy := float32(-x0), float32(-y0)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := pt(s.Args[0])
			gc.raster.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			gc.raster.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			gc.raster.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(s.Args[0])
			c2x, c2y := pt(s.Args[1])
			x, y := pt(s.Args[2])
			gc.raster.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	gc.raster.ClosePath()

	if gc.scratch == nil || gc.scratch.Rect.Dx() < w || gc.scratch.Rect.Dy() < h {
		gc.scratch = image.NewAlpha(image.Rect(0, 0, max(w, 64), max(h, 64)))
	}
	clear(gc.scratch.Pix)
	dst := gc.scratch.SubImage(image.Rect(0, 0, w, h)).(*image.Alpha)
	gc.raster.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
}
