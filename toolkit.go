// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ggui

import (
	"fmt"
	"sync"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/internal/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Vulkan is the default backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// DrawPipe is the per-window draw target returned by Window.Draw.
type DrawPipe[P any] = gpu.DrawPipe[P]

// Toolkit owns the GPU device and the compiled shaders shared by all of its
// windows. P is the parameter type of the custom pipe.
type Toolkit[P any] struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool

	shaders *gpu.ShaderManager
	builder draw.CustomPipeBuilder[P]
	cfg     gpu.DrawPipeConfig
	clear   gputypes.Color

	windows map[*Window[P]]struct{}
	closed  bool
}

// New opens a GPU device on the configured backend and returns a toolkit
// that owns it. Discrete and integrated GPUs are preferred over other
// adapter types.
func New[P any](builder draw.CustomPipeBuilder[P], opts ...Option) (*Toolkit[P], error) {
	o := applyOptions(opts)
	cfg, err := o.drawConfig()
	if err != nil {
		return nil, err
	}

	backend, ok := hal.GetBackend(o.backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, o.backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrBackendUnavailable, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	Logger().Info("ggui: adapter selected", "name", selected.Info.Name)

	tk, err := newToolkit(openDev.Device, openDev.Queue, builder, o, cfg)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	tk.instance = instance
	tk.owned = true
	return tk, nil
}

// NewWithDevice returns a toolkit drawing with a device owned by the host.
// Close does not destroy the device.
func NewWithDevice[P any](device hal.Device, queue hal.Queue, builder draw.CustomPipeBuilder[P], opts ...Option) (*Toolkit[P], error) {
	o := applyOptions(opts)
	cfg, err := o.drawConfig()
	if err != nil {
		return nil, err
	}
	return newToolkit(device, queue, builder, o, cfg)
}

// NewFromProvider returns a toolkit sharing the device of a host
// application. The provider must expose HalDevice() and HalQueue()
// returning hal.Device and hal.Queue. Its surface format is used unless
// WithSurfaceFormat is given.
func NewFromProvider[P any](provider gpucontext.DeviceProvider, builder draw.CustomPipeBuilder[P], opts ...Option) (*Toolkit[P], error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProviderNotHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHAL)
	}
	opts = append([]Option{WithSurfaceFormat(provider.SurfaceFormat())}, opts...)
	return NewWithDevice(device, queue, builder, opts...)
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	return o
}

func newToolkit[P any](device hal.Device, queue hal.Queue, builder draw.CustomPipeBuilder[P], o options, cfg gpu.DrawPipeConfig) (*Toolkit[P], error) {
	shaders, err := gpu.NewShaderManager(device, o.spirv)
	if err != nil {
		return nil, err
	}
	return &Toolkit[P]{
		device:  device,
		queue:   queue,
		shaders: shaders,
		builder: builder,
		cfg:     cfg,
		clear:   o.clear,
		windows: make(map[*Window[P]]struct{}),
	}, nil
}

// NewWindow creates the draw pipe of a window with the given surface size.
func (tk *Toolkit[P]) NewWindow(size geom.Size) (*Window[P], error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.closed {
		return nil, ErrClosed
	}
	dp, err := gpu.NewDrawPipe(tk.device, tk.queue, tk.shaders, tk.builder, tk.cfg, size)
	if err != nil {
		return nil, fmt.Errorf("create draw pipe: %w", err)
	}
	w := &Window[P]{tk: tk, dp: dp, clear: tk.clear}
	tk.windows[w] = struct{}{}
	Logger().Info("ggui: window created", "size", size)
	return w, nil
}

// WindowCount returns the number of open windows.
func (tk *Toolkit[P]) WindowCount() int {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return len(tk.windows)
}

// Device returns the HAL device and queue used by the toolkit.
func (tk *Toolkit[P]) Device() (hal.Device, hal.Queue) {
	return tk.device, tk.queue
}

// Close closes every open window and releases the shaders. A device opened
// by New is destroyed as well. Close is idempotent.
func (tk *Toolkit[P]) Close() {
	tk.mu.Lock()
	if tk.closed {
		tk.mu.Unlock()
		return
	}
	tk.closed = true
	windows := make([]*Window[P], 0, len(tk.windows))
	for w := range tk.windows {
		windows = append(windows, w)
	}
	tk.mu.Unlock()

	for _, w := range windows {
		w.Close()
	}
	tk.shaders.Destroy()
	if tk.owned {
		tk.device.Destroy()
		if tk.instance != nil {
			tk.instance.Destroy()
		}
	}
}

func (tk *Toolkit[P]) forget(w *Window[P]) {
	tk.mu.Lock()
	delete(tk.windows, w)
	tk.mu.Unlock()
}
