package gpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DrawPipeConfig configures the sub-pipelines of a DrawPipe.
type DrawPipeConfig struct {
	// Format is the colour format of the render target.
	Format gputypes.TextureFormat

	// Light is the light vector of the shaded pipelines (see LightNorm).
	Light [3]float32

	// AAOffset is the anti-aliasing softening distance of rounded shapes.
	AAOffset float32

	// Font is the text font. Nil selects DefaultFont.
	Font *Font

	// AtlasSize is the glyph atlas dimension. Zero selects DefaultAtlasSize.
	AtlasSize int
}

// DefaultDrawPipeConfig returns the configuration used when none is given.
func DefaultDrawPipeConfig() DrawPipeConfig {
	return DrawPipeConfig{
		Format:    gputypes.TextureFormatBGRA8Unorm,
		Light:     LightNorm(DefaultLightDirection[0], DefaultLightDirection[1]),
		AAOffset:  DefaultAAOffset,
		AtlasSize: DefaultAtlasSize,
	}
}

// DrawPipe is the per-window draw target. Drawing calls are routed to the
// sub-pipeline for each primitive and queued by clip region; Render then
// draws one render pass per region, followed by a single text pass.
//
// A DrawPipe is not safe for concurrent use.
type DrawPipe[P any] struct {
	device hal.Device

	regions      []geom.Rect
	shadedSquare *ShadedSquare
	shadedRound  *ShadedRound
	custom       draw.CustomPipe[P]
	flatRound    *FlatRound
	text         *TextPipe
}

var (
	_ draw.DrawRounded              = (*DrawPipe[draw.NoParam])(nil)
	_ draw.DrawShaded               = (*DrawPipe[draw.NoParam])(nil)
	_ draw.DrawText                 = (*DrawPipe[draw.NoParam])(nil)
	_ draw.DrawCustom[draw.NoParam] = (*DrawPipe[draw.NoParam])(nil)
)

// NewDrawPipe creates the sub-pipelines for a surface of the given size and
// builds the custom pipe.
func NewDrawPipe[P any](device hal.Device, queue hal.Queue, shaders *ShaderManager, builder draw.CustomPipeBuilder[P], cfg DrawPipeConfig, size geom.Size) (*DrawPipe[P], error) {
	if cfg.Font == nil {
		f, err := DefaultFont()
		if err != nil {
			return nil, err
		}
		cfg.Font = f
	}
	if cfg.AtlasSize == 0 {
		cfg.AtlasSize = DefaultAtlasSize
	}

	dp := &DrawPipe[P]{
		device:  device,
		regions: []geom.Rect{{Size: size}},
	}
	var err error
	if dp.shadedSquare, err = NewShadedSquare(device, queue, shaders, cfg.Format, size, cfg.Light); err != nil {
		return nil, err
	}
	if dp.shadedRound, err = NewShadedRound(device, queue, shaders, cfg.Format, size, cfg.Light); err != nil {
		dp.Destroy()
		return nil, err
	}
	dp.shadedRound.AAOffset = cfg.AAOffset
	if dp.flatRound, err = NewFlatRound(device, queue, shaders, cfg.Format, size); err != nil {
		dp.Destroy()
		return nil, err
	}
	dp.flatRound.AAOffset = cfg.AAOffset
	if dp.text, err = NewTextPipe(device, queue, shaders, cfg.Format, size, cfg.Font, cfg.AtlasSize); err != nil {
		dp.Destroy()
		return nil, err
	}
	if dp.custom, err = builder.Build(device, queue, size); err != nil {
		dp.Destroy()
		return nil, fmt.Errorf("build custom pipe: %w", err)
	}
	return dp, nil
}

// AddClipRegion appends a clip region for the current frame. The region's
// pass index is its position in the list; containment within other regions
// is not checked.
func (dp *DrawPipe[P]) AddClipRegion(rect geom.Rect) draw.Region {
	pass := len(dp.regions)
	dp.regions = append(dp.regions, rect)
	return draw.Region(pass)
}

// RegionCount returns the number of clip regions in the current frame.
func (dp *DrawPipe[P]) RegionCount() int { return len(dp.regions) }

// Size returns the surface size.
func (dp *DrawPipe[P]) Size() geom.Size { return dp.regions[0].Size }

func (dp *DrawPipe[P]) Rect(region draw.Region, rect geom.Rect, col draw.Colour) {
	dp.shadedSquare.Rect(region.Pass(), rect, col)
}

func (dp *DrawPipe[P]) Frame(region draw.Region, outer, inner geom.Rect, col draw.Colour) {
	dp.shadedSquare.Frame(region.Pass(), outer, inner, col)
}

func (dp *DrawPipe[P]) RoundedLine(region draw.Region, p1, p2 geom.Coord, radius float32, col draw.Colour) {
	dp.flatRound.Line(region.Pass(), p1, p2, radius, col)
}

func (dp *DrawPipe[P]) Circle(region draw.Region, rect geom.Rect, innerRadius float32, col draw.Colour) {
	dp.flatRound.Circle(region.Pass(), rect, innerRadius, col)
}

func (dp *DrawPipe[P]) RoundedFrame(region draw.Region, outer, inner geom.Rect, innerRadius float32, col draw.Colour) {
	dp.flatRound.RoundedFrame(region.Pass(), outer, inner, innerRadius, col)
}

func (dp *DrawPipe[P]) ShadedSquare(region draw.Region, rect geom.Rect, norm draw.Norm, col draw.Colour) {
	dp.shadedSquare.ShadedRect(region.Pass(), rect, norm, col)
}

func (dp *DrawPipe[P]) ShadedCircle(region draw.Region, rect geom.Rect, norm draw.Norm, col draw.Colour) {
	dp.shadedRound.Circle(region.Pass(), rect, norm, col)
}

func (dp *DrawPipe[P]) ShadedSquareFrame(region draw.Region, outer, inner geom.Rect, norm draw.Norm, col draw.Colour) {
	dp.shadedSquare.ShadedFrame(region.Pass(), outer, inner, norm, col)
}

func (dp *DrawPipe[P]) ShadedRoundFrame(region draw.Region, outer, inner geom.Rect, norm draw.Norm, col draw.Colour) {
	dp.shadedRound.Frame(region.Pass(), outer, inner, norm, col)
}

// Custom hands param to the custom pipe for the region's pass.
func (dp *DrawPipe[P]) Custom(region draw.Region, rect geom.Rect, param P) {
	dp.custom.Invoke(region.Pass(), rect, param)
}

// Text queues text. Text is not clipped to region: it is drawn over the
// whole surface after every region.
func (dp *DrawPipe[P]) Text(region draw.Region, rect geom.Rect, text string, size float32, col draw.Colour) {
	dp.text.Queue(rect, text, size, col)
}

// Resize sets the surface size and records every sub-pipeline's update into
// a command buffer. The buffer must be submitted before the next Render.
func (dp *DrawPipe[P]) Resize(size geom.Size) (hal.CommandBuffer, error) {
	dp.regions[0].Size = size
	enc, err := dp.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "draw_pipe_resize"})
	if err != nil {
		return nil, fmt.Errorf("create resize encoder: %w", err)
	}
	if err := enc.BeginEncoding("draw_pipe_resize"); err != nil {
		return nil, fmt.Errorf("begin resize encoding: %w", err)
	}
	dp.shadedSquare.Resize(enc, size)
	dp.shadedRound.Resize(enc, size)
	dp.custom.Resize(dp.device, enc, size)
	dp.flatRound.Resize(enc, size)
	dp.text.Resize(enc, size)
	cmd, err := enc.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end resize encoding: %w", err)
	}
	slogger().Debug("ggui: resize recorded", "size", size)
	return cmd, nil
}

// Render records the frame into a command buffer targeting view.
//
// Each clip region gets its own render pass, scissored to the region
// clamped to the surface; the first pass clears to clear and later passes
// load. Within a pass the sub-pipelines draw in a fixed order: shaded
// squares, shaded rounds, the custom pipe, then flat rounded shapes. A final
// pass draws text over the whole surface. Afterwards only the window region
// remains.
func (dp *DrawPipe[P]) Render(view hal.TextureView, clear gputypes.Color) (hal.CommandBuffer, error) {
	enc, err := dp.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "draw_pipe_render"})
	if err != nil {
		return nil, fmt.Errorf("create render encoder: %w", err)
	}
	if err := enc.BeginEncoding("draw_pipe_render"); err != nil {
		return nil, fmt.Errorf("begin render encoding: %w", err)
	}

	size := dp.regions[0].Size
	surface := geom.Rect{Size: size}
	logger := slogger()
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("ggui: render",
			"regions", len(dp.regions),
			"shaded_square", dp.shadedSquare.passes.total(),
			"shaded_round", dp.shadedRound.passes.total(),
			"flat_round", dp.flatRound.passes.total(),
			"text", dp.text.Queued())
	}

	load := gputypes.LoadOpClear
	for pass, region := range dp.regions {
		rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "draw_pipe_region",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			}},
		})
		sc := scissor(region, surface)
		rp.SetScissorRect(uint32(sc.Pos.X), uint32(sc.Pos.Y), uint32(sc.Size.W), uint32(sc.Size.H)) //nolint:gosec // clamped to the surface

		dp.shadedSquare.Render(pass, rp)
		dp.shadedRound.Render(pass, rp)
		dp.custom.Render(dp.device, pass, rp)
		dp.flatRound.Render(pass, rp)
		rp.End()

		load = gputypes.LoadOpLoad
	}

	dp.text.Render(enc, view, size)

	dp.regions = dp.regions[:1]

	cmd, err := enc.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end render encoding: %w", err)
	}
	return cmd, nil
}

// scissor clamps region to the surface. A region entirely outside the
// surface yields a zero-sized rectangle at the origin.
func scissor(region, surface geom.Rect) geom.Rect {
	r := region.Intersect(surface)
	if r.Empty() {
		return geom.Rect{}
	}
	return r
}

// Destroy releases every sub-pipeline and the custom pipe.
func (dp *DrawPipe[P]) Destroy() {
	if dp.custom != nil {
		dp.custom.Destroy()
		dp.custom = nil
	}
	if dp.text != nil {
		dp.text.Destroy()
		dp.text = nil
	}
	if dp.flatRound != nil {
		dp.flatRound.Destroy()
		dp.flatRound = nil
	}
	if dp.shadedRound != nil {
		dp.shadedRound.Destroy()
		dp.shadedRound = nil
	}
	if dp.shadedSquare != nil {
		dp.shadedSquare.Destroy()
		dp.shadedSquare = nil
	}
}
