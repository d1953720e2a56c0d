package gpu

import (
	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// DefaultAAOffset is the default anti-aliasing softening distance, in
// pixels, applied by the rounded-shape fragment stage.
const DefaultAAOffset = 0.125

// flatVertex is the vertex format of the flat rounded-shape pipeline.
//
//	pos   (vec2<f32>) location 0
//	col   (vec3<f32>) location 1
//	inner (f32)       location 2
//	dir   (vec2<f32>) location 3
//	off   (vec2<f32>) location 4
type flatVertex struct {
	Pos   Vec2
	Col   Rgb
	Inner float32
	Dir   Vec2
	Off   Vec2
}

const flatVertexStride = 40

func flatVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: flatVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32, Offset: 20, ShaderLocation: 2},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 3},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 4},
		},
	}
}

// FlatRound tessellates flat, anti-aliased rounded shapes: capsule lines,
// circles and rings, and frames with rounded corners.
type FlatRound struct {
	// AAOffset is the anti-aliasing softening distance in pixels. It is
	// divided by each shape's extent so that the softened band has the same
	// width on screen regardless of shape size.
	AAOffset float32

	pipe   *pipe
	passes passes[flatVertex]
}

// NewFlatRound creates the pipeline for a surface of the given size and
// format.
func NewFlatRound(device hal.Device, queue hal.Queue, shaders *ShaderManager, format gputypes.TextureFormat, size geom.Size) (*FlatRound, error) {
	s := scaleUniform(size.W, size.H)
	p, err := newPipe(device, queue, pipeDesc{
		label:   "flat_round",
		shader:  shaders.FlatRound,
		format:  format,
		layout:  flatVertexLayout(),
		uniform: []float32{s[0], s[1], 0, 0},
	})
	if err != nil {
		return nil, err
	}
	return &FlatRound{AAOffset: DefaultAAOffset, pipe: p}, nil
}

// Resize records an update of the pixel-to-clip scale into encoder.
func (fr *FlatRound) Resize(encoder hal.CommandEncoder, size geom.Size) {
	s := scaleUniform(size.W, size.H)
	fr.pipe.writeUniforms(encoder, []float32{s[0], s[1], 0, 0})
}

// Render draws the vertices queued for pass and clears the queue. A pass
// with nothing queued is a no-op.
func (fr *FlatRound) Render(pass int, rp hal.RenderPassEncoder) {
	v := fr.passes.get(pass)
	if len(v) == 0 {
		return
	}
	fr.pipe.draw(pass, rp, safeish.SliceCast[[]byte](v), len(v))
	fr.passes.clear(pass)
}

// Queued returns the number of vertices queued for pass.
func (fr *FlatRound) Queued(pass int) int { return len(fr.passes.get(pass)) }

// Destroy releases the pipeline's GPU resources.
func (fr *FlatRound) Destroy() { fr.pipe.destroy() }

func (fr *FlatRound) add(pass int, col Rgb, inner float32, vs []shapeVertex) {
	for _, v := range vs {
		fr.passes.add(pass, flatVertex{Pos: v.pos, Col: col, Inner: inner, Dir: v.dir, Off: v.off})
	}
}

// Line draws a capsule of half-width radius along p1–p2. When p1 == p2 it
// draws Circle over the 2·radius square centred on p1, passing radius as
// the inner radius. A non-positive radius draws nothing.
func (fr *FlatRound) Line(pass int, p1, p2 geom.Coord, radius float32, col draw.Colour) {
	if radius <= 0 {
		return
	}
	if p1 == p2 {
		r := int32(radius)
		rect := geom.Rect{Pos: p1.Sub(geom.Uniform(r)), Size: geom.Square(int32(radius * 2))}
		fr.Circle(pass, rect, radius, col)
		return
	}

	a, b := VecFromCoord(p1), VecFromCoord(p2)
	vx := b.Sub(a)
	vx = vx.MulScalar(radius / vx.Len())
	vy := Vec2{-vx.Y, vx.X}

	nb := vx.Add(vy).Sign()
	na := nb.Neg()

	// Distances from the midline are all radius, so the offset is uniform.
	p := Splat(fr.AAOffset / radius)

	ma1 := shapeVertex{a.Sub(vy), Vec2{0, na.Y}, p}
	mb1 := shapeVertex{a.Add(vy), Vec2{0, nb.Y}, p}
	aa1 := shapeVertex{ma1.pos.Sub(vx), Vec2{na.X, na.Y}, p}
	ab1 := shapeVertex{mb1.pos.Sub(vx), Vec2{na.X, nb.Y}, p}
	ma2 := shapeVertex{b.Sub(vy), Vec2{0, na.Y}, p}
	mb2 := shapeVertex{b.Add(vy), Vec2{0, nb.Y}, p}
	ba2 := shapeVertex{ma2.pos.Add(vx), Vec2{nb.X, na.Y}, p}
	bb2 := shapeVertex{mb2.pos.Add(vx), Vec2{nb.X, nb.Y}, p}
	c1 := shapeVertex{a, Vec2{}, p}
	c2 := shapeVertex{b, Vec2{}, p}

	fr.add(pass, RgbFrom(col), 0, []shapeVertex{
		ab1, c1, mb1,
		aa1, c1, ab1,
		ma1, c1, aa1,
		mb1, c1, mb2,
		mb2, c1, c2,
		mb2, c2, bb2,
		bb2, c2, ba2,
		ba2, c2, ma2,
		ma2, c2, c1,
		c1, ma1, ma2,
	})
}

// Circle draws the ellipse inscribed in rect. innerRadius is clamped to
// [0, 1]; zero fills the disc, larger values leave a hole of that relative
// radius. An empty rect draws nothing.
func (fr *FlatRound) Circle(pass int, rect geom.Rect, innerRadius float32, col draw.Colour) {
	aa, bb := rectCorners(rect)
	vs, ok := circleTriangles(aa, bb, fr.AAOffset)
	if !ok {
		return
	}
	fr.add(pass, RgbFrom(col), clamp(innerRadius, 0, 1), vs[:])
}

// RoundedFrame draws the frame between outer and inner with each corner
// rounded about the matching inner corner. innerRadius is clamped to
// [0, 1]. A mis-nested inner rect is collapsed rather than rejected; an
// empty outer rect draws nothing.
func (fr *FlatRound) RoundedFrame(pass int, outer, inner geom.Rect, innerRadius float32, col draw.Colour) {
	aa, bb := rectCorners(outer)
	cc, dd := rectCorners(inner)
	cc, dd = sanitizeFrame(aa, bb, cc, dd)
	vs, ok := frameTriangles(aa, bb, cc, dd, fr.AAOffset)
	if !ok {
		return
	}
	fr.add(pass, RgbFrom(col), clamp(innerRadius, 0, 1), vs[:])
}
