package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// pipe holds the GPU objects shared by the draw pipelines: a render
// pipeline, a uniform block updated on resize and one vertex buffer per
// render pass.
type pipe struct {
	device hal.Device
	queue  hal.Queue
	label  string

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	bindGroup  hal.BindGroup

	uniformSize uint64
	uniformBuf  hal.Buffer
	stagingBuf  hal.Buffer
	// uniform is the value most recently written to the uniform block.
	uniform []float32

	vertexBufs []vertexBuffer
}

type vertexBuffer struct {
	buf  hal.Buffer
	size uint64
}

// pipeDesc describes a pipeline built by newPipe.
type pipeDesc struct {
	label   string
	shader  hal.ShaderModule
	format  gputypes.TextureFormat
	layout  gputypes.VertexBufferLayout
	uniform []float32

	// extra bind group entries beyond the uniform block at binding 0.
	extraLayout  []gputypes.BindGroupLayoutEntry
	extraEntries []gputypes.BindGroupEntry
}

func newPipe(device hal.Device, queue hal.Queue, d pipeDesc) (*pipe, error) {
	p := &pipe{
		device:      device,
		queue:       queue,
		label:       d.label,
		uniformSize: uint64(len(d.uniform) * 4),
		uniform:     d.uniform,
	}
	if err := p.create(d); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipe) create(d pipeDesc) error {
	var err error
	p.uniformBuf, err = p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_uniforms",
		Size:  p.uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s uniform buffer: %w", p.label, err)
	}
	p.queue.WriteBuffer(p.uniformBuf, 0, safeish.SliceCast[[]byte](d.uniform))

	p.stagingBuf, err = p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_uniform_staging",
		Size:  p.uniformSize,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s staging buffer: %w", p.label, err)
	}

	entries := append([]gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}}, d.extraLayout...)
	p.bindLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   p.label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group layout: %w", p.label, err)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", p.label, err)
	}

	if err := p.createBindGroup(d.extraEntries); err != nil {
		return err
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	p.pipeline, err = p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{d.layout},
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline: %w", p.label, err)
	}
	return nil
}

// createBindGroup (re)creates the bind group over the uniform block and any
// extra entries.
func (p *pipe) createBindGroup(extra []gputypes.BindGroupEntry) error {
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	entries := append([]gputypes.BindGroupEntry{{
		Binding:  0,
		Resource: gputypes.BufferBinding{Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: p.uniformSize},
	}}, extra...)
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.label + "_bind_group",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", p.label, err)
	}
	p.bindGroup = bg
	return nil
}

// writeUniforms records an update of the uniform block into encoder. The
// new values become visible to passes recorded after the copy.
func (p *pipe) writeUniforms(encoder hal.CommandEncoder, uniform []float32) {
	p.uniform = uniform
	data := safeish.SliceCast[[]byte](uniform)
	p.queue.WriteBuffer(p.stagingBuf, 0, data)
	encoder.CopyBufferToBuffer(p.stagingBuf, p.uniformBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: uint64(len(data))},
	})
}

// draw uploads data to the vertex buffer of pass and records a draw of
// count vertices.
func (p *pipe) draw(pass int, rp hal.RenderPassEncoder, data []byte, count int) {
	if count == 0 {
		return
	}
	buf, err := p.vertexBuffer(pass, uint64(len(data)))
	if err != nil {
		slogger().Warn("ggui: vertex buffer unavailable", "pipe", p.label, "pass", pass, "err", err)
		return
	}
	p.queue.WriteBuffer(buf, 0, data)
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.SetVertexBuffer(0, buf, 0)
	rp.Draw(uint32(count), 1, 0, 0) //nolint:gosec // vertex counts fit uint32
}

// vertexBuffer returns the vertex buffer of pass, growing it to at least
// size bytes.
func (p *pipe) vertexBuffer(pass int, size uint64) (hal.Buffer, error) {
	for pass >= len(p.vertexBufs) {
		p.vertexBufs = append(p.vertexBufs, vertexBuffer{})
	}
	vb := &p.vertexBufs[pass]
	if vb.buf != nil && vb.size >= size {
		return vb.buf, nil
	}
	if vb.buf != nil {
		p.device.DestroyBuffer(vb.buf)
		vb.buf = nil
	}
	// Round up to limit regrowth as scenes get busier.
	alloc := max(nextPow2(size), 1024)
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("%s_vertices_%d", p.label, pass),
		Size:  alloc,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	slogger().Debug("ggui: vertex buffer grown", "pipe", p.label, "pass", pass, "size", alloc)
	vb.buf, vb.size = buf, alloc
	return buf, nil
}

func nextPow2(v uint64) uint64 {
	n := uint64(1)
	for n < v {
		n <<= 1
	}
	return n
}

// destroy releases all GPU objects in reverse creation order.
func (p *pipe) destroy() {
	if p.device == nil {
		return
	}
	for i := range p.vertexBufs {
		if p.vertexBufs[i].buf != nil {
			p.device.DestroyBuffer(p.vertexBufs[i].buf)
		}
	}
	p.vertexBufs = nil
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.stagingBuf != nil {
		p.device.DestroyBuffer(p.stagingBuf)
		p.stagingBuf = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
}

// scaleUniform returns the clip-space scale for a surface of w×h pixels.
func scaleUniform(w, h int32) [2]float32 {
	return [2]float32{2 / float32(max(w, 1)), 2 / float32(max(h, 1))}
}
