package gpu

import (
	"errors"
	"fmt"
)

// ErrAtlasFull is returned when the glyph atlas cannot fit a glyph.
var ErrAtlasFull = errors.New("gpu: glyph atlas is full")

const (
	// DefaultAtlasSize is the default glyph atlas dimension.
	DefaultAtlasSize = 1024

	// MinAtlasSize is the minimum glyph atlas dimension.
	MinAtlasSize = 256

	// glyphPadding separates neighbouring glyphs so nearest sampling at a
	// glyph edge never reads its neighbour.
	glyphPadding = 1
)

// AtlasRegion is a rectangular region of the atlas.
type AtlasRegion struct {
	X, Y          int
	Width, Height int
}

// IsValid reports whether the region has a positive size.
func (r AtlasRegion) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r AtlasRegion) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip of the atlas holding items of similar height.
type shelf struct {
	y      int
	height int
	nextX  int
}

// RectAllocator packs rectangles into a fixed area using shelves: each item
// goes on the first shelf with room for it, or on a new shelf below the last.
type RectAllocator struct {
	width, height int
	padding       int
	shelves       []shelf
	used          int
}

// NewRectAllocator creates an allocator for a width×height area.
func NewRectAllocator(width, height, padding int) *RectAllocator {
	return &RectAllocator{
		width:   max(width, MinAtlasSize),
		height:  max(height, MinAtlasSize),
		padding: max(padding, 0),
	}
}

// Allocate reserves a width×height region. It returns an invalid region if
// the request is empty or does not fit.
func (a *RectAllocator) Allocate(width, height int) AtlasRegion {
	if width <= 0 || height <= 0 {
		return AtlasRegion{}
	}
	pw, ph := width+a.padding, height+a.padding
	if pw > a.width || ph > a.height {
		return AtlasRegion{}
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.nextX+pw > a.width {
			continue
		}
		// A shelf may only grow while it is empty.
		if ph > s.height && s.nextX > 0 {
			continue
		}
		r := AtlasRegion{X: s.nextX, Y: s.y, Width: width, Height: height}
		s.nextX += pw
		s.height = max(s.height, ph)
		a.used += width * height
		return r
	}

	y := 0
	if n := len(a.shelves); n > 0 {
		y = a.shelves[n-1].y + a.shelves[n-1].height
	}
	if y+ph > a.height {
		return AtlasRegion{}
	}
	a.shelves = append(a.shelves, shelf{y: y, height: ph, nextX: pw})
	a.used += width * height
	return AtlasRegion{X: 0, Y: y, Width: width, Height: height}
}

// Reset frees every allocation.
func (a *RectAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.used = 0
}

// Utilization returns the fraction of the area in use.
func (a *RectAllocator) Utilization() float64 {
	return float64(a.used) / float64(a.width*a.height)
}

// GlyphAtlas is an 8-bit coverage image with a shelf allocator. Rows
// written since the last upload are tracked so only they are re-sent.
type GlyphAtlas struct {
	Width, Height int
	Pix           []byte

	alloc            *RectAllocator
	dirtyLo, dirtyHi int
}

// NewGlyphAtlas creates an empty size×size atlas. size is raised to
// MinAtlasSize and rounded up to a multiple of 4 so rows pack into words.
func NewGlyphAtlas(size int) *GlyphAtlas {
	size = (max(size, MinAtlasSize) + 3) &^ 3
	return &GlyphAtlas{
		Width:  size,
		Height: size,
		Pix:    make([]byte, size*size),
		alloc:  NewRectAllocator(size, size, glyphPadding),
	}
}

// Insert copies a w×h coverage image with the given row stride into the
// atlas and returns its region.
func (ga *GlyphAtlas) Insert(w, h, stride int, pix []byte) (AtlasRegion, error) {
	r := ga.alloc.Allocate(w, h)
	if !r.IsValid() {
		return r, ErrAtlasFull
	}
	for y := 0; y < h; y++ {
		dst := ga.Pix[(r.Y+y)*ga.Width+r.X:]
		copy(dst[:w], pix[y*stride:y*stride+w])
	}
	ga.markDirty(r.Y, r.Y+h)
	return r, nil
}

// Fits reports whether a w×h image could ever be placed in the atlas.
func (ga *GlyphAtlas) Fits(w, h int) bool {
	return w <= ga.Width && h <= ga.Height
}

// Reset clears the atlas contents and allocations.
func (ga *GlyphAtlas) Reset() {
	clear(ga.Pix)
	ga.alloc.Reset()
	ga.markDirty(0, ga.Height)
}

func (ga *GlyphAtlas) markDirty(lo, hi int) {
	if ga.dirtyLo == ga.dirtyHi {
		ga.dirtyLo, ga.dirtyHi = lo, hi
		return
	}
	ga.dirtyLo = min(ga.dirtyLo, lo)
	ga.dirtyHi = max(ga.dirtyHi, hi)
}

// takeDirty returns the byte range written since the last call, and marks
// the atlas clean. The range is empty if nothing changed.
func (ga *GlyphAtlas) takeDirty() (offset int, data []byte) {
	lo, hi := ga.dirtyLo, ga.dirtyHi
	ga.dirtyLo, ga.dirtyHi = 0, 0
	if lo == hi {
		return 0, nil
	}
	return lo * ga.Width, ga.Pix[lo*ga.Width : hi*ga.Width]
}
