// Package ggui is the GPU draw layer of a retained-mode GUI toolkit.
//
// # Overview
//
// Widgets draw through a per-window [DrawPipe]: solid and shaded rectangles,
// anti-aliased rounded lines, circles and frames, text, and primitives from
// an application-supplied custom pipe. Every primitive is queued against a
// clip region; at render time each region becomes its own scissored render
// pass and a final pass draws the text.
//
// # Quick Start
//
//	tk, err := ggui.New[draw.NoParam](draw.NoCustom{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tk.Close()
//
//	win, err := tk.NewWindow(geom.Size{W: 800, H: 600})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer win.Close()
//
//	dp := win.Draw()
//	dp.Rect(draw.WindowRegion, geom.R(10, 10, 200, 40), draw.Grey(0.8))
//	dp.RoundedLine(draw.WindowRegion, geom.Coord{X: 20, Y: 80}, geom.Coord{X: 200, Y: 120}, 3, draw.Black)
//	dp.Text(draw.WindowRegion, geom.R(20, 20, 180, 20), "Hello", 14, draw.Black)
//
//	cmd, err := win.Render(view) // view is the swap-chain texture view
//	if err == nil {
//	    err = win.Submit(cmd)
//	}
//
// # Custom Pipes
//
// Applications add their own GPU primitives by implementing
// [draw.CustomPipeBuilder] and [draw.CustomPipe]. The custom pipe is built
// once per window, receives resize updates with the built-in pipelines, and
// renders inside every clip-region pass after the shaded shapes and before
// the flat rounded shapes. Use [draw.NoCustom] when none is needed.
//
// # Coordinate System
//
// Positions are integer pixels with the origin at the top-left of the
// window, X increasing right and Y increasing down.
//
// # Resizing
//
// [Window.Resize] records the uniform updates of every pipeline into a
// command buffer. The buffer must be submitted with [Window.Submit] before
// the next [Window.Render].
package ggui
