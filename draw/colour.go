// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package draw

import "honnef.co/go/color"

// Colour is a linear-space RGBA colour as supplied by the theme layer.
// The draw pipelines use only the RGB channels; alpha is carried for
// collaborators such as the text layer.
type Colour struct {
	R, G, B, A float32
}

// Predefined colours.
var (
	Black = Colour{0, 0, 0, 1}
	White = Colour{1, 1, 1, 1}
)

// Grey returns an opaque grey of linear intensity v.
func Grey(v float32) Colour { return Colour{v, v, v, 1} }

// FromColor converts a colour in any colour space to a linear-sRGB Colour.
func FromColor(c *color.Color) Colour {
	cc := c.Convert(color.LinearSRGB)
	return Colour{
		R: float32(cc.Values[0]),
		G: float32(cc.Values[1]),
		B: float32(cc.Values[2]),
		A: float32(cc.Values[3]),
	}
}

// RGB8 converts 8-bit sRGB-encoded components to an opaque linear Colour.
func RGB8(r, g, b uint8) Colour {
	c := color.Make(color.SRGB, float64(r)/255, float64(g)/255, float64(b)/255, 1)
	return FromColor(&c)
}
