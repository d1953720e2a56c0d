// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package geom provides the integer pixel geometry shared by the draw
// contracts: points, sizes and axis-aligned rectangles.
//
// Sizes are signed. A negative or zero width or height is a valid value
// describing an empty rectangle; drawing code treats such rectangles as
// producing no geometry rather than as errors.
package geom

import "fmt"

// Coord is a point in pixel coordinates. The origin is the top-left corner
// of the window with Y increasing downwards.
type Coord struct {
	X, Y int32
}

// Uniform returns a Coord with both components set to v.
func Uniform(v int32) Coord { return Coord{v, v} }

// Add returns c+o.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y} }

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y} }

// AddSize returns c offset by s.
func (c Coord) AddSize(s Size) Coord { return Coord{c.X + s.W, c.Y + s.H} }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Size is a width and height in pixels.
type Size struct {
	W, H int32
}

// Square returns a Size with both dimensions set to v.
func Square(v int32) Size { return Size{v, v} }

// Empty reports whether s has a non-positive dimension.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Pos  Coord
	Size Size
}

// R is shorthand for a Rect at (x, y) with size w×h.
func R(x, y, w, h int32) Rect {
	return Rect{Pos: Coord{x, y}, Size: Size{w, h}}
}

// Max returns the bottom-right corner (exclusive).
func (r Rect) Max() Coord { return r.Pos.AddSize(r.Size) }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.Size.Empty() }

// Intersect returns the largest rectangle contained in both r and o.
// If they do not overlap the result is empty with a zero size.
func (r Rect) Intersect(o Rect) Rect {
	a, b := r.Max(), o.Max()
	x0, y0 := max(r.Pos.X, o.Pos.X), max(r.Pos.Y, o.Pos.Y)
	x1, y1 := min(a.X, b.X), min(a.Y, b.Y)
	if x1 <= x0 || y1 <= y0 {
		return Rect{Pos: Coord{x0, y0}}
	}
	return Rect{Pos: Coord{x0, y0}, Size: Size{x1 - x0, y1 - y0}}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	a, b := r.Max(), o.Max()
	return o.Pos.X >= r.Pos.X && o.Pos.Y >= r.Pos.Y && b.X <= a.X && b.Y <= a.Y
}

func (r Rect) String() string { return fmt.Sprintf("%v+%v", r.Pos, r.Size) }
