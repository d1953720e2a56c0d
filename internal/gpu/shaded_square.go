package gpu

import (
	"math"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// DefaultLightDirection is the default light direction (a, b): a is the
// angle from the surface normal, b the bearing clockwise from up.
var DefaultLightDirection = [2]float64{0.3, 0.4}

// LightNorm converts a light direction (a, b) to the vector used by the
// shaded pipelines. The z component is fixed at 1 so that a flat surface
// keeps its base colour. a must lie in [0, π/2).
func LightNorm(a, b float64) [3]float32 {
	t := math.Tan(a)
	return [3]float32{float32(math.Sin(b) * t), float32(-math.Cos(b) * t), 1}
}

// shadedUniform lays out the shared uniform block of the shaded pipelines:
// scale, padding, then the light vector.
func shadedUniform(size geom.Size, light [3]float32) []float32 {
	s := scaleUniform(size.W, size.H)
	return []float32{s[0], s[1], 0, 0, light[0], light[1], light[2], 0}
}

// squareVertex is the vertex format of the shaded square pipeline.
type squareVertex struct {
	Pos  Vec2
	Col  Rgb
	Norm Vec2
}

const squareVertexStride = 28

func squareVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: squareVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 20, ShaderLocation: 2},
		},
	}
}

// ShadedSquare draws axis-aligned rectangles and frames, either flat or
// shaded as bevels by the light direction.
type ShadedSquare struct {
	light  [3]float32
	pipe   *pipe
	passes passes[squareVertex]
}

// NewShadedSquare creates the pipeline for a surface of the given size and
// format, lit from light (see LightNorm).
func NewShadedSquare(device hal.Device, queue hal.Queue, shaders *ShaderManager, format gputypes.TextureFormat, size geom.Size, light [3]float32) (*ShadedSquare, error) {
	p, err := newPipe(device, queue, pipeDesc{
		label:   "shaded_square",
		shader:  shaders.ShadedSquare,
		format:  format,
		layout:  squareVertexLayout(),
		uniform: shadedUniform(size, light),
	})
	if err != nil {
		return nil, err
	}
	return &ShadedSquare{light: light, pipe: p}, nil
}

// Resize records an update of the pixel-to-clip scale into encoder.
func (ss *ShadedSquare) Resize(encoder hal.CommandEncoder, size geom.Size) {
	ss.pipe.writeUniforms(encoder, shadedUniform(size, ss.light))
}

// Render draws the vertices queued for pass and clears the queue.
func (ss *ShadedSquare) Render(pass int, rp hal.RenderPassEncoder) {
	v := ss.passes.get(pass)
	if len(v) == 0 {
		return
	}
	ss.pipe.draw(pass, rp, safeish.SliceCast[[]byte](v), len(v))
	ss.passes.clear(pass)
}

// Queued returns the number of vertices queued for pass.
func (ss *ShadedSquare) Queued(pass int) int { return len(ss.passes.get(pass)) }

// Destroy releases the pipeline's GPU resources.
func (ss *ShadedSquare) Destroy() { ss.pipe.destroy() }

// quad queues the box aa–bb as two triangles with a uniform normal.
func (ss *ShadedSquare) quad(pass int, aa, bb Vec2, col Rgb, n Vec2) {
	if !aa.Lt(bb) {
		return
	}
	ab := Vec2{aa.X, bb.Y}
	ba := Vec2{bb.X, aa.Y}
	ss.passes.add(pass,
		squareVertex{aa, col, n}, squareVertex{ba, col, n}, squareVertex{ab, col, n},
		squareVertex{ab, col, n}, squareVertex{ba, col, n}, squareVertex{bb, col, n},
	)
}

// Rect draws a flat rectangle.
func (ss *ShadedSquare) Rect(pass int, rect geom.Rect, col draw.Colour) {
	aa, bb := rectCorners(rect)
	ss.quad(pass, aa, bb, RgbFrom(col), Vec2{})
}

// Frame draws the flat frame between outer and inner.
func (ss *ShadedSquare) Frame(pass int, outer, inner geom.Rect, col draw.Colour) {
	aa, bb := rectCorners(outer)
	if !aa.Lt(bb) {
		return
	}
	cc, dd := rectCorners(inner)
	cc, dd = sanitizeFrame(aa, bb, cc, dd)
	c := RgbFrom(col)
	ss.quad(pass, aa, Vec2{bb.X, cc.Y}, c, Vec2{})
	ss.quad(pass, Vec2{aa.X, dd.Y}, bb, c, Vec2{})
	ss.quad(pass, Vec2{aa.X, cc.Y}, Vec2{cc.X, dd.Y}, c, Vec2{})
	ss.quad(pass, Vec2{dd.X, cc.Y}, Vec2{bb.X, dd.Y}, c, Vec2{})
}

// Outward normals of the four sides, in the order top, right, bottom, left.
var sideNormals = [4]Vec2{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// ShadedRect draws a rectangle as a four-sided pyramid: each side slopes
// from normal magnitude norm[0] at the edge to norm[1] at the centre.
func (ss *ShadedSquare) ShadedRect(pass int, rect geom.Rect, norm draw.Norm, col draw.Colour) {
	aa, bb := rectCorners(rect)
	if !aa.Lt(bb) {
		return
	}
	c := RgbFrom(col)
	mid := aa.Mid(bb)
	corners := [4]Vec2{aa, {bb.X, aa.Y}, bb, {aa.X, bb.Y}}
	for i, n := range sideNormals {
		p, q := corners[i], corners[(i+1)%4]
		no, ni := n.MulScalar(norm[0]), n.MulScalar(norm[1])
		ss.passes.add(pass, squareVertex{p, c, no}, squareVertex{q, c, no}, squareVertex{mid, c, ni})
	}
}

// ShadedFrame draws the frame between outer and inner as four bevelled
// sides, sloping from norm[0] at the outer edge to norm[1] at the inner edge.
func (ss *ShadedSquare) ShadedFrame(pass int, outer, inner geom.Rect, norm draw.Norm, col draw.Colour) {
	aa, bb := rectCorners(outer)
	if !aa.Lt(bb) {
		return
	}
	cc, dd := rectCorners(inner)
	cc, dd = sanitizeFrame(aa, bb, cc, dd)
	c := RgbFrom(col)
	outerC := [4]Vec2{aa, {bb.X, aa.Y}, bb, {aa.X, bb.Y}}
	innerC := [4]Vec2{cc, {dd.X, cc.Y}, dd, {cc.X, dd.Y}}
	for i, n := range sideNormals {
		j := (i + 1) % 4
		no, ni := n.MulScalar(norm[0]), n.MulScalar(norm[1])
		o1 := squareVertex{outerC[i], c, no}
		o2 := squareVertex{outerC[j], c, no}
		i1 := squareVertex{innerC[i], c, ni}
		i2 := squareVertex{innerC[j], c, ni}
		ss.passes.add(pass, o1, o2, i2, o1, i2, i1)
	}
}
