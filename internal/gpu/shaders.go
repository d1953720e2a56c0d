package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/flat_round.wgsl
var flatRoundShaderSource string

//go:embed shaders/shaded_square.wgsl
var shadedSquareShaderSource string

//go:embed shaders/shaded_round.wgsl
var shadedRoundShaderSource string

//go:embed shaders/text.wgsl
var textShaderSource string

// ErrShaderBuild is returned when a shader module cannot be built.
var ErrShaderBuild = errors.New("gpu: shader build failed")

// ShaderSource is a named embedded WGSL module.
type ShaderSource struct {
	Name string
	WGSL string
}

// ShaderSources lists every embedded shader module in a stable order.
func ShaderSources() []ShaderSource {
	return []ShaderSource{
		{Name: "flat_round", WGSL: flatRoundShaderSource},
		{Name: "shaded_square", WGSL: shadedSquareShaderSource},
		{Name: "shaded_round", WGSL: shadedRoundShaderSource},
		{Name: "text", WGSL: textShaderSource},
	}
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}
	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// ShaderManager holds the shader modules shared by every window of a
// toolkit. All modules are built once, up front.
type ShaderManager struct {
	device hal.Device

	FlatRound    hal.ShaderModule
	ShadedSquare hal.ShaderModule
	ShadedRound  hal.ShaderModule
	Text         hal.ShaderModule
}

// NewShaderManager builds every shader module. When spirv is set, sources
// are compiled to SPIR-V with naga first; otherwise the device consumes WGSL
// directly. Any failure destroys the modules built so far.
func NewShaderManager(device hal.Device, spirv bool) (*ShaderManager, error) {
	m := &ShaderManager{device: device}
	targets := []*hal.ShaderModule{&m.FlatRound, &m.ShadedSquare, &m.ShadedRound, &m.Text}
	for i, src := range ShaderSources() {
		mod, err := buildShader(device, src, spirv)
		if err != nil {
			m.Destroy()
			return nil, err
		}
		*targets[i] = mod
	}
	slogger().Debug("ggui: shaders built", "spirv", spirv, "modules", len(targets))
	return m, nil
}

func buildShader(device hal.Device, src ShaderSource, spirv bool) (hal.ShaderModule, error) {
	desc := &hal.ShaderModuleDescriptor{Label: src.Name + "_shader"}
	if spirv {
		code, err := CompileSPIRV(src.WGSL)
		if err != nil {
			return nil, fmt.Errorf("%w: compile %s: %w", ErrShaderBuild, src.Name, err)
		}
		desc.Source = hal.ShaderSource{SPIRV: code}
	} else {
		desc.Source = hal.ShaderSource{WGSL: src.WGSL}
	}
	mod, err := device.CreateShaderModule(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrShaderBuild, src.Name, err)
	}
	return mod, nil
}

// Destroy releases every module. Safe to call more than once.
func (m *ShaderManager) Destroy() {
	if m.device == nil {
		return
	}
	for _, mod := range []*hal.ShaderModule{&m.FlatRound, &m.ShadedSquare, &m.ShadedRound, &m.Text} {
		if *mod != nil {
			m.device.DestroyShaderModule(*mod)
			*mod = nil
		}
	}
}
