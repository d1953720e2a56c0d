// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package draw

import (
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/wgpu/hal"
)

// DrawCustom gives widgets access to a custom draw pipe.
type DrawCustom[P any] interface {
	// Custom invokes the custom pipe for the given region.
	Custom(region Region, rect geom.Rect, param P)
}

// CustomPipeBuilder constructs a CustomPipe once per window.
type CustomPipeBuilder[P any] interface {
	// Build constructs the pipe, sized to the window's initial size.
	Build(device hal.Device, queue hal.Queue, size geom.Size) (CustomPipe[P], error)
}

// CustomPipe is a user-defined draw pipe: its own primitives, shaders,
// textures and pipeline state, drawn within the same per-region render
// passes as the built-in pipes.
//
// Only one custom pipe is supported per toolkit. To use several, implement a
// multiplexer and make P a tagged type selecting between them.
type CustomPipe[P any] interface {
	// Resize is called whenever the window is resized. Any size-dependent
	// resources must be updated, recording GPU copies into encoder.
	Resize(device hal.Device, encoder hal.CommandEncoder, size geom.Size)

	// Invoke queues work for the given pass. It is called from
	// DrawCustom.Custom; param is passed through unexamined.
	Invoke(pass int, rect geom.Rect, param P)

	// Render draws everything queued for pass into rp, then clears that
	// queue. It is called once per region per frame; multiple widgets may
	// have used the same pass.
	Render(device hal.Device, pass int, rp hal.RenderPassEncoder)

	// Destroy releases GPU resources. It is called once, when the window
	// is closed.
	Destroy()
}

// NoParam is the parameter type of NoCustom.
type NoParam struct{}

// NoCustom is a custom pipe that does nothing. It is both the builder and
// the pipe.
type NoCustom struct{}

var (
	_ CustomPipeBuilder[NoParam] = NoCustom{}
	_ CustomPipe[NoParam]        = NoCustom{}
)

func (NoCustom) Build(hal.Device, hal.Queue, geom.Size) (CustomPipe[NoParam], error) {
	return NoCustom{}, nil
}

func (NoCustom) Resize(hal.Device, hal.CommandEncoder, geom.Size) {}
func (NoCustom) Invoke(int, geom.Rect, NoParam)                   {}
func (NoCustom) Render(hal.Device, int, hal.RenderPassEncoder)    {}
func (NoCustom) Destroy()                                         {}
