package gpu

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// textVertex is the vertex format of the text pipeline. UV is in atlas
// pixels.
type textVertex struct {
	Pos Vec2
	UV  Vec2
	Col [4]float32
}

const textVertexStride = 32

func textVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: textVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
		},
	}
}

// textSection is a piece of queued text.
type textSection struct {
	pos  Vec2
	text string
	size float32
	col  draw.Colour
}

// TextPipe lays out queued text and draws it in a single pass over the
// whole surface after every clip region has been drawn.
type TextPipe struct {
	queue    hal.Queue
	pipe     *pipe
	atlasBuf hal.Buffer
	glyphs   *glyphCache

	sections []textSection
	placed   []placedGlyph
	vertices []textVertex
}

// NewTextPipe creates the text pipeline for a surface of the given size and
// format, drawing with font f.
func NewTextPipe(device hal.Device, queue hal.Queue, shaders *ShaderManager, format gputypes.TextureFormat, size geom.Size, f *Font, atlasSize int) (*TextPipe, error) {
	glyphs := newGlyphCache(f, atlasSize)
	atlasLen := uint64(len(glyphs.atlas.Pix))
	atlasBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "text_atlas",
		Size:  atlasLen,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create text atlas buffer: %w", err)
	}

	p, err := newPipe(device, queue, pipeDesc{
		label:   "text",
		shader:  shaders.Text,
		format:  format,
		layout:  textVertexLayout(),
		uniform: textUniform(size, glyphs.atlas.Width),
		extraLayout: []gputypes.BindGroupLayoutEntry{{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		}},
		extraEntries: []gputypes.BindGroupEntry{{
			Binding:  1,
			Resource: gputypes.BufferBinding{Buffer: atlasBuf.NativeHandle(), Offset: 0, Size: atlasLen},
		}},
	})
	if err != nil {
		device.DestroyBuffer(atlasBuf)
		return nil, err
	}
	return &TextPipe{queue: queue, pipe: p, atlasBuf: atlasBuf, glyphs: glyphs}, nil
}

func textUniform(size geom.Size, atlasWidth int) []float32 {
	s := scaleUniform(size.W, size.H)
	return []float32{s[0], s[1], math.Float32frombits(uint32(atlasWidth)), 0} //nolint:gosec // atlas width is small
}

// MaxTextSize is the largest text size, in pixels, that Queue accepts.
const MaxTextSize = 4096

// Queue adds text with its top-left corner at rect.Pos. Empty text and
// sizes outside (0, MaxTextSize] are ignored.
func (tp *TextPipe) Queue(rect geom.Rect, text string, size float32, col draw.Colour) {
	if text == "" || !(size > 0 && size <= MaxTextSize) {
		return
	}
	tp.sections = append(tp.sections, textSection{
		pos:  VecFromCoord(rect.Pos),
		text: text,
		size: size,
		col:  col,
	})
}

// Queued returns the number of queued text sections.
func (tp *TextPipe) Queued() int { return len(tp.sections) }

// Resize records an update of the pixel-to-clip scale into encoder.
func (tp *TextPipe) Resize(encoder hal.CommandEncoder, size geom.Size) {
	tp.pipe.writeUniforms(encoder, textUniform(size, tp.glyphs.atlas.Width))
}

// Render opens one render pass over the whole surface, loading its
// contents, and draws all queued text. The pass is opened even when nothing
// is queued. The queue is cleared afterwards.
func (tp *TextPipe) Render(encoder hal.CommandEncoder, view hal.TextureView, size geom.Size) {
	tp.prepare()
	tp.uploadAtlas()

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "text_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	rp.SetScissorRect(0, 0, uint32(max(size.W, 0)), uint32(max(size.H, 0))) //nolint:gosec // clamped to non-negative
	tp.pipe.draw(0, rp, safeish.SliceCast[[]byte](tp.vertices), len(tp.vertices))
	rp.End()

	tp.sections = tp.sections[:0]
	tp.vertices = tp.vertices[:0]
}

// prepare lays out every queued section into tp.vertices. If the atlas
// fills up, it is reset and the frame laid out once more; glyphs that still
// do not fit are dropped.
func (tp *TextPipe) prepare() {
	if err := tp.build(); errors.Is(err, ErrAtlasFull) {
		slogger().Warn("ggui: glyph atlas full, resetting", "utilization", tp.glyphs.atlas.alloc.Utilization())
		tp.glyphs.reset()
		if err := tp.build(); err != nil {
			slogger().Warn("ggui: text dropped", "err", err)
		}
	}
}

func (tp *TextPipe) build() error {
	tp.vertices = tp.vertices[:0]
	var full error
	for _, s := range tp.sections {
		tp.placed = tp.glyphs.layout(s.text, s.size, s.pos, tp.placed[:0])
		col := [4]float32{s.col.R, s.col.G, s.col.B, s.col.A}
		for _, g := range tp.placed {
			img, ok, err := tp.glyphs.glyph(g.id, s.size)
			if err != nil {
				full = err
				continue
			}
			if !ok {
				continue
			}
			tp.quad(g, img, col)
		}
	}
	return full
}

func (tp *TextPipe) quad(g placedGlyph, img glyphImage, col [4]float32) {
	r := img.region
	x0 := float32(math.Round(float64(g.x))) + float32(img.left)
	y0 := float32(math.Round(float64(g.y))) + float32(img.top)
	x1, y1 := x0+float32(r.Width), y0+float32(r.Height)
	u0, v0 := float32(r.X), float32(r.Y)
	u1, v1 := u0+float32(r.Width), v0+float32(r.Height)

	aa := textVertex{Vec2{x0, y0}, Vec2{u0, v0}, col}
	ba := textVertex{Vec2{x1, y0}, Vec2{u1, v0}, col}
	ab := textVertex{Vec2{x0, y1}, Vec2{u0, v1}, col}
	bb := textVertex{Vec2{x1, y1}, Vec2{u1, v1}, col}
	tp.vertices = append(tp.vertices, aa, ba, ab, ab, ba, bb)
}

func (tp *TextPipe) uploadAtlas() {
	off, data := tp.glyphs.atlas.takeDirty()
	if len(data) == 0 {
		return
	}
	tp.queue.WriteBuffer(tp.atlasBuf, uint64(off), data) //nolint:gosec // offset is non-negative
}

// Destroy releases the pipeline's GPU resources.
func (tp *TextPipe) Destroy() {
	tp.pipe.destroy()
	if tp.atlasBuf != nil {
		tp.pipe.device.DestroyBuffer(tp.atlasBuf)
		tp.atlasBuf = nil
	}
}
