// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package draw defines the drawing contracts consumed by the widget and
// theme layers, and the extension contract for custom GPU pipes.
//
// All drawing calls take a Region identifying the clip region (and hence the
// render pass) the primitive belongs to. Region 0 is always the whole
// window; further regions are created per frame with Draw.AddClipRegion.
//
// Geometry is in pixel coordinates. Malformed geometry (empty rectangles,
// radii outside their documented range, mis-nested frames) never produces
// an error: it is clamped or collapsed, or simply draws nothing.
package draw

import "github.com/gogpu/ggui/geom"

// Region identifies a clip region, and so the render pass, within the
// current frame. Region values are only valid until the end of the frame in
// which they were created.
type Region int

// WindowRegion is the clip region covering the whole window.
const WindowRegion Region = 0

// Pass returns the render pass index of the region.
func (r Region) Pass() int { return int(r) }

// Draw is the base drawing interface.
type Draw interface {
	// AddClipRegion adds a new clip region for the current frame and returns
	// its handle. The rectangle is not validated against any parent region;
	// mis-nested regions merely scissor differently.
	AddClipRegion(rect geom.Rect) Region

	// Rect draws a flat rectangle.
	Rect(region Region, rect geom.Rect, col Colour)

	// Frame draws a flat frame: the area of outer not covered by inner.
	Frame(region Region, outer, inner geom.Rect, col Colour)
}

// DrawRounded extends Draw with anti-aliased rounded shapes.
type DrawRounded interface {
	Draw

	// RoundedLine draws a line of half-width radius with round end caps.
	RoundedLine(region Region, p1, p2 geom.Coord, radius float32, col Colour)

	// Circle draws a circle or ring inscribed in rect. innerRadius in [0, 1]
	// is the fraction of the radius left unfilled; 0 draws a disc.
	Circle(region Region, rect geom.Rect, innerRadius float32, col Colour)

	// RoundedFrame draws a frame between outer and inner whose corners are
	// rounded. innerRadius in [0, 1] rounds the inner edge of each corner.
	RoundedFrame(region Region, outer, inner geom.Rect, innerRadius float32, col Colour)
}

// Norm is a pair of surface normal magnitudes for shaded primitives: the
// first applies at the outer edge, the second at the inner edge. Values
// are in [-1, 1]; positive values slope outwards.
type Norm [2]float32

// DrawShaded extends Draw with primitives lit by the toolkit's light
// direction.
type DrawShaded interface {
	Draw

	// ShadedSquare draws a raised (or sunken) square.
	ShadedSquare(region Region, rect geom.Rect, norm Norm, col Colour)

	// ShadedCircle draws a raised (or sunken) circle inscribed in rect.
	ShadedCircle(region Region, rect geom.Rect, norm Norm, col Colour)

	// ShadedSquareFrame draws a shaded frame with square corners.
	ShadedSquareFrame(region Region, outer, inner geom.Rect, norm Norm, col Colour)

	// ShadedRoundFrame draws a shaded frame with rounded corners.
	ShadedRoundFrame(region Region, outer, inner geom.Rect, norm Norm, col Colour)
}

// DrawText queues text. Text is drawn after all clip regions, over the whole
// window.
type DrawText interface {
	// Text draws text with its top-left corner at rect.Pos, using a font
	// size of size pixels.
	Text(region Region, rect geom.Rect, text string, size float32, col Colour)
}
