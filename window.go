package ggui

import (
	"fmt"

	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Window is the draw state of one window surface. A window is used from a
// single goroutine.
type Window[P any] struct {
	tk    *Toolkit[P]
	dp    *DrawPipe[P]
	clear gputypes.Color

	// pending is a recorded resize that has not been submitted.
	pending hal.CommandBuffer
	closed  bool
}

// Draw returns the draw target for the current frame.
func (w *Window[P]) Draw() *DrawPipe[P] { return w.dp }

// Size returns the surface size.
func (w *Window[P]) Size() geom.Size { return w.dp.Size() }

// SetClearColour sets the colour the first pass of each frame clears to.
func (w *Window[P]) SetClearColour(c gputypes.Color) { w.clear = c }

// Resize updates every pipeline for a new surface size. The update is held
// until the next Submit; Render fails with ErrResizePending until then.
// A resize recorded earlier and not yet submitted is replaced.
func (w *Window[P]) Resize(size geom.Size) error {
	if w.closed {
		return ErrClosed
	}
	if size.W <= 0 || size.H <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	cmd, err := w.dp.Resize(size)
	if err != nil {
		return err
	}
	if w.pending != nil {
		w.tk.device.FreeCommandBuffer(w.pending)
	}
	w.pending = cmd
	return nil
}

// ResizePending reports whether a resize is waiting to be submitted.
func (w *Window[P]) ResizePending() bool { return w.pending != nil }

// Render records the frame into a command buffer targeting view and resets
// the clip regions. The buffer is passed to Submit.
func (w *Window[P]) Render(view hal.TextureView) (hal.CommandBuffer, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if w.pending != nil {
		return nil, ErrResizePending
	}
	return w.dp.Render(view, w.clear)
}

// Submit submits a pending resize followed by cmds and frees the command
// buffers. If the queue rejects them nothing is freed and a pending
// resize stays pending.
func (w *Window[P]) Submit(cmds ...hal.CommandBuffer) error {
	if w.closed {
		return ErrClosed
	}
	if w.pending != nil {
		cmds = append([]hal.CommandBuffer{w.pending}, cmds...)
	}
	if len(cmds) == 0 {
		return nil
	}
	if _, err := w.tk.queue.Submit(cmds); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	w.pending = nil
	for _, cmd := range cmds {
		w.tk.device.FreeCommandBuffer(cmd)
	}
	return nil
}

// Close releases the window's pipelines. Close is idempotent.
func (w *Window[P]) Close() {
	if w.closed {
		return
	}
	w.closed = true
	if w.pending != nil {
		w.tk.device.FreeCommandBuffer(w.pending)
		w.pending = nil
	}
	w.dp.Destroy()
	w.tk.forget(w)
}
