package gpu

import (
	"testing"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestShaders builds the shader modules on device.
func newTestShaders(t *testing.T, device hal.Device) *ShaderManager {
	t.Helper()
	sm, err := NewShaderManager(device, false)
	if err != nil {
		t.Fatalf("NewShaderManager failed: %v", err)
	}
	t.Cleanup(sm.Destroy)
	return sm
}

// recordedPass is one render pass seen by the recording encoder.
type recordedPass struct {
	label   string
	load    gputypes.LoadOp
	scissor [4]uint32
	draws   []uint32
	ended   bool
}

// recorder collects the passes and copies of every encoder created through
// a recordingDevice.
type recorder struct {
	passes []*recordedPass
	copies int
}

// recordingDevice wraps a device so that command encoders record the render
// passes, scissors and draws issued through them.
type recordingDevice struct {
	hal.Device
	rec *recorder
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, rec: d.rec}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	rec *recorder
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	p := &recordedPass{label: desc.Label}
	if len(desc.ColorAttachments) > 0 {
		p.load = desc.ColorAttachments[0].LoadOp
	}
	e.rec.passes = append(e.rec.passes, p)
	return &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), pass: p}
}

func (e *recordingEncoder) CopyBufferToBuffer(src, dst hal.Buffer, regions []hal.BufferCopy) {
	e.rec.copies++
	e.CommandEncoder.CopyBufferToBuffer(src, dst, regions)
}

type recordingPass struct {
	hal.RenderPassEncoder
	pass *recordedPass
}

func (p *recordingPass) SetScissorRect(x, y, w, h uint32) {
	p.pass.scissor = [4]uint32{x, y, w, h}
	p.RenderPassEncoder.SetScissorRect(x, y, w, h)
}

func (p *recordingPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.draws = append(p.pass.draws, vertexCount)
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *recordingPass) End() {
	p.pass.ended = true
	p.RenderPassEncoder.End()
}

// testCustom is a custom pipe that draws three vertices for every pass it
// was invoked on.
type testCustom struct {
	invoked   map[int][]int
	resized   []geom.Size
	destroyed bool
}

type testParam int

func (c *testCustom) Build(hal.Device, hal.Queue, geom.Size) (draw.CustomPipe[testParam], error) {
	c.invoked = make(map[int][]int)
	return c, nil
}

func (c *testCustom) Resize(_ hal.Device, _ hal.CommandEncoder, size geom.Size) {
	c.resized = append(c.resized, size)
}

func (c *testCustom) Invoke(pass int, _ geom.Rect, param testParam) {
	c.invoked[pass] = append(c.invoked[pass], int(param))
}

func (c *testCustom) Render(_ hal.Device, pass int, rp hal.RenderPassEncoder) {
	if len(c.invoked[pass]) == 0 {
		return
	}
	rp.Draw(3, 1, 0, 0)
	delete(c.invoked, pass)
}

func (c *testCustom) Destroy() { c.destroyed = true }
