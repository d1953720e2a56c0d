package gpu

import (
	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// roundVertex is the vertex format of the shaded round pipeline. Norm holds
// the normal magnitudes at the outer and inner edges.
type roundVertex struct {
	Pos  Vec2
	Col  Rgb
	Norm Vec2
	Dir  Vec2
	Off  Vec2
}

const roundVertexStride = 44

func roundVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: roundVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 20, ShaderLocation: 2},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 28, ShaderLocation: 3},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 4},
		},
	}
}

// ShadedRound draws circles and round-cornered frames shaded by the light
// direction.
type ShadedRound struct {
	// AAOffset is the anti-aliasing softening distance in pixels.
	AAOffset float32

	light  [3]float32
	pipe   *pipe
	passes passes[roundVertex]
}

// NewShadedRound creates the pipeline for a surface of the given size and
// format, lit from light (see LightNorm).
func NewShadedRound(device hal.Device, queue hal.Queue, shaders *ShaderManager, format gputypes.TextureFormat, size geom.Size, light [3]float32) (*ShadedRound, error) {
	p, err := newPipe(device, queue, pipeDesc{
		label:   "shaded_round",
		shader:  shaders.ShadedRound,
		format:  format,
		layout:  roundVertexLayout(),
		uniform: shadedUniform(size, light),
	})
	if err != nil {
		return nil, err
	}
	return &ShadedRound{AAOffset: DefaultAAOffset, light: light, pipe: p}, nil
}

// Resize records an update of the pixel-to-clip scale into encoder.
func (sr *ShadedRound) Resize(encoder hal.CommandEncoder, size geom.Size) {
	sr.pipe.writeUniforms(encoder, shadedUniform(size, sr.light))
}

// Render draws the vertices queued for pass and clears the queue.
func (sr *ShadedRound) Render(pass int, rp hal.RenderPassEncoder) {
	v := sr.passes.get(pass)
	if len(v) == 0 {
		return
	}
	sr.pipe.draw(pass, rp, safeish.SliceCast[[]byte](v), len(v))
	sr.passes.clear(pass)
}

// Queued returns the number of vertices queued for pass.
func (sr *ShadedRound) Queued(pass int) int { return len(sr.passes.get(pass)) }

// Destroy releases the pipeline's GPU resources.
func (sr *ShadedRound) Destroy() { sr.pipe.destroy() }

func (sr *ShadedRound) add(pass int, col Rgb, norm draw.Norm, vs []shapeVertex) {
	n := Vec2{norm[0], norm[1]}
	for _, v := range vs {
		sr.passes.add(pass, roundVertex{Pos: v.pos, Col: col, Norm: n, Dir: v.dir, Off: v.off})
	}
}

// Circle draws the shaded ellipse inscribed in rect. The normal slopes from
// norm[0] at the rim to norm[1] at the centre.
func (sr *ShadedRound) Circle(pass int, rect geom.Rect, norm draw.Norm, col draw.Colour) {
	aa, bb := rectCorners(rect)
	vs, ok := circleTriangles(aa, bb, sr.AAOffset)
	if !ok {
		return
	}
	sr.add(pass, RgbFrom(col), norm, vs[:])
}

// Frame draws the shaded frame between outer and inner with rounded
// corners. The normal slopes from norm[0] at the outer edge to norm[1] at
// the inner edge.
func (sr *ShadedRound) Frame(pass int, outer, inner geom.Rect, norm draw.Norm, col draw.Colour) {
	aa, bb := rectCorners(outer)
	cc, dd := rectCorners(inner)
	cc, dd = sanitizeFrame(aa, bb, cc, dd)
	vs, ok := frameTriangles(aa, bb, cc, dd, sr.AAOffset)
	if !ok {
		return
	}
	sr.add(pass, RgbFrom(col), norm, vs[:])
}
