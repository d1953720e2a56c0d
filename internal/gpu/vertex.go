package gpu

import (
	"math"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"golang.org/x/exp/constraints"
)

// Vec2 is a 2D float vector in pixel space.
type Vec2 struct {
	X, Y float32
}

// Splat returns a Vec2 with both components set to v.
func Splat(v float32) Vec2 { return Vec2{v, v} }

// VecFromCoord converts an integer coordinate.
func VecFromCoord(c geom.Coord) Vec2 { return Vec2{float32(c.X), float32(c.Y)} }

// VecFromSize converts an integer size.
func VecFromSize(s geom.Size) Vec2 { return Vec2{float32(s.W), float32(s.H)} }
                                        
func (v Vec2) Add(o Vec2) Vec2          { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2          { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2          { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Div(o Vec2) Vec2          { return Vec2{v.X / o.X, v.Y / o.Y} }
func (v Vec2) AddScalar(s float32) Vec2 { return Vec2{v.X + s, v.Y + s} }
func (v Vec2) SubScalar(s float32) Vec2 { return Vec2{v.X - s, v.Y - s} }
func (v Vec2) MulScalar(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) DivScalar(s float32) Vec2 { return Vec2{v.X / s, v.Y / s} }
func (v Vec2) Neg() Vec2                { return Vec2{-v.X, -v.Y} }
func (v Vec2) Len() float32             { return float32(math.Hypot(float64(v.X), float64(v.Y))) }
func (v Vec2) Eq(o Vec2) bool           { return v.X == o.X && v.Y == o.Y }
func (v Vec2) Lt(o Vec2) bool           { return v.X < o.X && v.Y < o.Y }
func (v Vec2) Le(o Vec2) bool           { return v.X <= o.X && v.Y <= o.Y }
func (v Vec2) Min(o Vec2) Vec2          { return Vec2{min(v.X, o.X), min(v.Y, o.Y)} }
func (v Vec2) Max(o Vec2) Vec2          { return Vec2{max(v.X, o.X), max(v.Y, o.Y)} }
func (v Vec2) Mid(o Vec2) Vec2          { return v.Add(o).MulScalar(0.5) }

// Sign returns the component-wise sign, treating zero (and -0) as its IEEE
// sign bit: +0 yields 1.
func (v Vec2) Sign() Vec2 {
	return Vec2{sign(v.X), sign(v.Y)}
}

func sign(x float32) float32 {
	return float32(math.Copysign(1, float64(x)))
}

func clamp[T constraints.Float | constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rgb is a linear RGB colour as uploaded to the GPU.
type Rgb struct {
	R, G, B float32
}

// RgbFrom drops the alpha channel of c.
func RgbFrom(c draw.Colour) Rgb { return Rgb{c.R, c.G, c.B} }

// rectCorners returns the min and max corners of r.
func rectCorners(r geom.Rect) (Vec2, Vec2) {
	aa := VecFromCoord(r.Pos)
	return aa, aa.Add(VecFromSize(r.Size))
}
