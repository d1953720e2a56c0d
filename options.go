package ggui

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/ggui/internal/gpu"
	"github.com/gogpu/gputypes"
)

// Option configures a Toolkit during creation.
//
// Example:
//
//	tk, err := ggui.New[draw.NoParam](draw.NoCustom{},
//	    ggui.WithClearColour(gputypes.Color{R: 0.9, G: 0.9, B: 0.9, A: 1}),
//	    ggui.WithLightDirection(0.4, 0.6),
//	)
type Option func(*options)

type options struct {
	backend  gputypes.Backend
	clear    gputypes.Color
	lightA   float64
	lightB   float64
	aaOffset float32
	font     []byte
	spirv    bool
	logger   *slog.Logger
	format   gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		backend:  gputypes.BackendVulkan,
		clear:    gputypes.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		lightA:   gpu.DefaultLightDirection[0],
		lightB:   gpu.DefaultLightDirection[1],
		aaOffset: gpu.DefaultAAOffset,
		format:   gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithBackend selects the HAL backend New opens. The default is Vulkan.
// The backend package must be linked in, usually by a blank import.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithClearColour sets the colour each frame is cleared to.
func WithClearColour(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithLightDirection sets the light used by the shaded pipelines.
// a is the elevation away from the viewing axis and must be in [0, π/2);
// b is the azimuth, measured clockwise from straight up.
func WithLightDirection(a, b float64) Option {
	return func(o *options) {
		o.lightA = a
		o.lightB = b
	}
}

// WithAAOffset sets the distance over which rounded shapes are softened,
// relative to their radius. Values <= 0 are ignored.
func WithAAOffset(f float32) Option {
	return func(o *options) {
		if f > 0 {
			o.aaOffset = f
		}
	}
}

// WithFont sets the TrueType or OpenType font used for text.
// The default is Go Regular.
func WithFont(data []byte) Option {
	return func(o *options) {
		o.font = data
	}
}

// WithSPIRV makes the toolkit hand shaders to the device as SPIR-V compiled
// by naga instead of WGSL source.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithLogger sets the package logger, as SetLogger does, when the toolkit
// is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSurfaceFormat sets the colour format of the window surfaces.
// The default is BGRA8Unorm.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// drawConfig validates the options and converts them into a pipe
// configuration.
func (o *options) drawConfig() (gpu.DrawPipeConfig, error) {
	if !(o.lightA >= 0 && o.lightA < math.Pi/2) {
		return gpu.DrawPipeConfig{}, fmt.Errorf("%w: elevation %v not in [0, π/2)", ErrInvalidLight, o.lightA)
	}
	cfg := gpu.DefaultDrawPipeConfig()
	cfg.Format = o.format
	cfg.Light = gpu.LightNorm(o.lightA, o.lightB)
	cfg.AAOffset = o.aaOffset
	if o.font != nil {
		f, err := gpu.ParseFont(o.font)
		if err != nil {
			return gpu.DrawPipeConfig{}, err
		}
		cfg.Font = f
	}
	return cfg, nil
}
