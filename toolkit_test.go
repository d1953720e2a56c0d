package ggui

import (
	"errors"
	"testing"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
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
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newTestToolkit(t *testing.T, opts ...Option) *Toolkit[draw.NoParam] {
	t.Helper()
	device, queue := createNoopDevice(t)
	tk, err := NewWithDevice[draw.NoParam](device, queue, draw.NoCustom{}, opts...)
	if err != nil {
		t.Fatalf("NewWithDevice failed: %v", err)
	}
	t.Cleanup(tk.Close)
	return tk
}

func newTestView(t *testing.T, device hal.Device, size geom.Size) hal.TextureView {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_surface",
		Size:          hal.Extent3D{Width: uint32(size.W), Height: uint32(size.H), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "test_surface_view"})
	if err != nil {
		t.Fatalf("CreateTextureView failed: %v", err)
	}
	t.Cleanup(func() {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	})
	return view
}

func TestNewWindowInvalidSize(t *testing.T) {
	tk := newTestToolkit(t)
	for _, size := range []geom.Size{{W: 0, H: 10}, {W: 10, H: 0}, {W: -5, H: 5}} {
		if _, err := tk.NewWindow(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewWindow(%v) error = %v, want ErrInvalidSize", size, err)
		}
	}
	if n := tk.WindowCount(); n != 0 {
		t.Errorf("WindowCount = %d, want 0", n)
	}
}

func TestToolkitCloseClosesWindows(t *testing.T) {
	tk := newTestToolkit(t)
	w1, err := tk.NewWindow(geom.Size{W: 64, H: 64})
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	if _, err := tk.NewWindow(geom.Size{W: 32, H: 32}); err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	if n := tk.WindowCount(); n != 2 {
		t.Fatalf("WindowCount = %d, want 2", n)
	}

	tk.Close()
	if n := tk.WindowCount(); n != 0 {
		t.Errorf("WindowCount after Close = %d, want 0", n)
	}
	if _, err := w1.Render(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Close error = %v, want ErrClosed", err)
	}
	if _, err := tk.NewWindow(geom.Size{W: 8, H: 8}); !errors.Is(err, ErrClosed) {
		t.Errorf("NewWindow after Close error = %v, want ErrClosed", err)
	}
	tk.Close()
}

func TestWindowResizeBarrier(t *testing.T) {
	tk := newTestToolkit(t)
	device, _ := tk.Device()
	w, err := tk.NewWindow(geom.Size{W: 100, H: 80})
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	view := newTestView(t, device, geom.Size{W: 200, H: 160})

	if err := w.Resize(geom.Size{W: 200, H: 160}); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if !w.ResizePending() {
		t.Fatal("ResizePending = false after Resize")
	}
	if got := w.Size(); got != (geom.Size{W: 200, H: 160}) {
		t.Errorf("Size = %v, want 200x160", got)
	}
	if _, err := w.Render(view); !errors.Is(err, ErrResizePending) {
		t.Fatalf("Render error = %v, want ErrResizePending", err)
	}

	if err := w.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if w.ResizePending() {
		t.Fatal("ResizePending = true after Submit")
	}

	w.Draw().Rect(draw.WindowRegion, geom.R(0, 0, 10, 10), draw.White)
	cmd, err := w.Render(view)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if err := w.Submit(cmd); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

// failingQueue rejects every submission.
type failingQueue struct {
	hal.Queue
}

var errQueueRejected = errors.New("queue rejected")

func (failingQueue) Submit([]hal.CommandBuffer) (uint64, error) { return 0, errQueueRejected }

func TestWindowSubmitFailureKeepsResize(t *testing.T) {
	device, queue := createNoopDevice(t)
	tk, err := NewWithDevice[draw.NoParam](device, failingQueue{queue}, draw.NoCustom{})
	if err != nil {
		t.Fatalf("NewWithDevice failed: %v", err)
	}
	t.Cleanup(tk.Close)
	w, err := tk.NewWindow(geom.Size{W: 40, H: 30})
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	view := newTestView(t, device, geom.Size{W: 80, H: 60})

	if err := w.Resize(geom.Size{W: 80, H: 60}); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if err := w.Submit(); !errors.Is(err, errQueueRejected) {
		t.Fatalf("Submit error = %v, want errQueueRejected", err)
	}
	if !w.ResizePending() {
		t.Fatal("failed Submit dropped the pending resize")
	}
	if _, err := w.Render(view); !errors.Is(err, ErrResizePending) {
		t.Errorf("Render error = %v, want ErrResizePending", err)
	}
}

func TestWindowResizeInvalid(t *testing.T) {
	tk := newTestToolkit(t)
	w, err := tk.NewWindow(geom.Size{W: 10, H: 10})
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	if err := w.Resize(geom.Size{W: 0, H: 10}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize error = %v, want ErrInvalidSize", err)
	}
	if w.ResizePending() {
		t.Error("invalid Resize left a pending update")
	}
}

func TestWindowFrameRegions(t *testing.T) {
	tk := newTestToolkit(t)
	device, _ := tk.Device()
	w, err := tk.NewWindow(geom.Size{W: 120, H: 90})
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	view := newTestView(t, device, geom.Size{W: 120, H: 90})

	dp := w.Draw()
	r := dp.AddClipRegion(geom.R(10, 10, 50, 50))
	dp.Circle(r, geom.R(10, 10, 20, 20), 0.5, draw.Black)
	dp.Text(draw.WindowRegion, geom.R(0, 0, 120, 20), "ok", 12, draw.Black)
	if n := dp.RegionCount(); n != 2 {
		t.Fatalf("RegionCount = %d, want 2", n)
	}

	cmd, err := w.Render(view)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if n := dp.RegionCount(); n != 1 {
		t.Errorf("RegionCount after Render = %d, want 1", n)
	}
	if err := w.Submit(cmd); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

func TestWindowCloseIdempotent(t *testing.T) {
	tk := newTestToolkit(t)
	w, err := tk.NewWindow(geom.Size{W: 16, H: 16})
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	if err := w.Resize(geom.Size{W: 32, H: 32}); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	w.Close()
	w.Close()
	if n := tk.WindowCount(); n != 0 {
		t.Errorf("WindowCount = %d, want 0", n)
	}
	if err := w.Submit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close error = %v, want ErrClosed", err)
	}
	if err := w.Resize(geom.Size{W: 8, H: 8}); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize after Close error = %v, want ErrClosed", err)
	}
}

func TestNewInvalidLight(t *testing.T) {
	for _, a := range []float64{-0.1, 1.5708, 3} {
		_, err := New[draw.NoParam](draw.NoCustom{}, WithLightDirection(a, 0))
		if !errors.Is(err, ErrInvalidLight) {
			t.Errorf("New(light a=%v) error = %v, want ErrInvalidLight", a, err)
		}
	}
}

func TestNewWithDeviceInvalidFont(t *testing.T) {
	device, queue := createNoopDevice(t)
	_, err := NewWithDevice[draw.NoParam](device, queue, draw.NoCustom{}, WithFont([]byte("not a font")))
	if err == nil {
		t.Fatal("NewWithDevice with a bad font succeeded")
	}
}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

type mockDevice struct{}

func (mockDevice) Poll(bool) {}
func (mockDevice) Destroy()  {}

type mockQueue struct{}

type mockAdapter struct{}

func (m *mockProvider) Device() gpucontext.Device             { return mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock"}
}

// halProvider adds HAL handles to mockProvider.
type halProvider struct {
	mockProvider
	device any
	queue  any
}

func (h *halProvider) HalDevice() any { return h.device }
func (h *halProvider) HalQueue() any  { return h.queue }

func TestNewFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)

	t.Run("not HAL", func(t *testing.T) {
		_, err := NewFromProvider[draw.NoParam](&mockProvider{}, draw.NoCustom{})
		if !errors.Is(err, ErrProviderNotHAL) {
			t.Errorf("error = %v, want ErrProviderNotHAL", err)
		}
	})

	t.Run("wrong types", func(t *testing.T) {
		p := &halProvider{device: "device", queue: queue}
		_, err := NewFromProvider[draw.NoParam](p, draw.NoCustom{})
		if !errors.Is(err, ErrProviderNotHAL) {
			t.Errorf("error = %v, want ErrProviderNotHAL", err)
		}
	})

	t.Run("shared device", func(t *testing.T) {
		p := &halProvider{
			mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm},
			device:       device,
			queue:        queue,
		}
		tk, err := NewFromProvider[draw.NoParam](p, draw.NoCustom{})
		if err != nil {
			t.Fatalf("NewFromProvider failed: %v", err)
		}
		defer tk.Close()
		if tk.cfg.Format != gputypes.TextureFormatRGBA8Unorm {
			t.Errorf("format = %v, want provider format", tk.cfg.Format)
		}
		if tk.owned {
			t.Error("toolkit claims ownership of a shared device")
		}
		if _, err := tk.NewWindow(geom.Size{W: 20, H: 20}); err != nil {
			t.Errorf("NewWindow failed: %v", err)
		}
	})
}
