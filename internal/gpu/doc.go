// Package gpu implements the draw pipes behind ggui windows on the
// gogpu/wgpu HAL.
//
// # Architecture Overview
//
// A DrawPipe owns one instance of each sub-pipeline and a list of clip
// regions for the current frame:
//
//	DrawPipe
//	  ├── ShadedSquare  solid and normal-shaded rectangles and frames
//	  ├── ShadedRound   normal-shaded circles and rounded frames
//	  ├── CustomPipe    application primitives (draw.CustomPipe)
//	  ├── FlatRound     anti-aliased lines, circles and rounded frames
//	  └── TextPipe      shaped text over a glyph atlas
//
// Every primitive is tessellated on the CPU into triangles appended to the
// vertex list of its clip region. Render opens one render pass per region,
// scissored to the region clamped to the surface, and draws the
// sub-pipelines in the order above. Text is drawn in a final pass that is
// not clipped.
//
// # Rounded Shapes
//
// Rounded shapes carry, per vertex, a direction vector whose length is 1 on
// the outer edge of the rounding and an offset used for four-sample
// anti-aliasing. The fragment shader estimates coverage from the length of
// the interpolated direction against an inner radius.
//
// # Shaders
//
// WGSL sources are embedded and handed to the device directly, or compiled
// to SPIR-V with naga when the device is created in SPIR-V mode.
//
// # Text
//
// Text is shaped with go-text/typesetting after bidi run splitting with
// golang.org/x/text. Glyph outlines come from golang.org/x/image/font/sfnt
// and are rasterised into an alpha atlas held in a storage buffer.
package gpu
