package gpu

import (
	"math"
	"testing"

	"github.com/gogpu/ggui/draw"
	"github.com/gogpu/ggui/geom"
)

func newTestFlatRound(t *testing.T) *FlatRound {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)
	sm := newTestShaders(t, device)
	fr, err := NewFlatRound(device, queue, sm, DefaultDrawPipeConfig().Format, geom.Size{W: 800, H: 600})
	if err != nil {
		t.Fatalf("NewFlatRound failed: %v", err)
	}
	t.Cleanup(fr.Destroy)
	return fr
}

func TestSignOfZero(t *testing.T) {
	got := Vec2{0, float32(math.Copysign(0, -1))}.Sign()
	if got != (Vec2{1, -1}) {
		t.Errorf("Sign(+0, -0) = %v, want (1, -1)", got)
	}
	if got := (Vec2{-3, 2}).Sign(); got != (Vec2{-1, 1}) {
		t.Errorf("Sign(-3, 2) = %v, want (-1, 1)", got)
	}
}

func TestFlatRoundVertexCounts(t *testing.T) {
	col := draw.White
	tests := []struct {
		name string
		fn   func(fr *FlatRound)
		want int
	}{
		{"line", func(fr *FlatRound) { fr.Line(0, geom.Coord{X: 10, Y: 10}, geom.Coord{X: 50, Y: 30}, 4, col) }, 30},
		{"circle", func(fr *FlatRound) { fr.Circle(0, geom.R(0, 0, 20, 20), 0.5, col) }, 12},
		{"rounded_frame", func(fr *FlatRound) { fr.RoundedFrame(0, geom.R(0, 0, 100, 50), geom.R(5, 5, 90, 40), 0.3, col) }, 48},
		{"degenerate_line", func(fr *FlatRound) { fr.Line(0, geom.Coord{X: 7, Y: 7}, geom.Coord{X: 7, Y: 7}, 3, col) }, 12},
		{"empty_circle", func(fr *FlatRound) { fr.Circle(0, geom.R(0, 0, 0, 20), 0, col) }, 0},
		{"negative_circle", func(fr *FlatRound) { fr.Circle(0, geom.R(0, 0, 20, -4), 0, col) }, 0},
		{"empty_outer_frame", func(fr *FlatRound) { fr.RoundedFrame(0, geom.R(0, 0, 10, 0), geom.R(2, 2, 6, 6), 0, col) }, 0},
		{"zero_radius_line", func(fr *FlatRound) { fr.Line(0, geom.Coord{}, geom.Coord{X: 10}, 0, col) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := newTestFlatRound(t)
			tt.fn(fr)
			if got := fr.Queued(0); got != tt.want {
				t.Errorf("queued %d vertices, want %d", got, tt.want)
			}
		})
	}
}

func TestFlatRoundClampsInnerRadius(t *testing.T) {
	tests := []struct {
		in, clamped float32
	}{
		{-0.5, 0},
		{1.5, 1},
		{0.25, 0.25},
	}
	for _, tt := range tests {
		fr := newTestFlatRound(t)
		fr.Circle(0, geom.R(0, 0, 20, 10), tt.in, draw.White)
		fr.Circle(1, geom.R(0, 0, 20, 10), tt.clamped, draw.White)
		fr.RoundedFrame(2, geom.R(0, 0, 40, 40), geom.R(4, 4, 32, 32), tt.in, draw.White)
		fr.RoundedFrame(3, geom.R(0, 0, 40, 40), geom.R(4, 4, 32, 32), tt.clamped, draw.White)
		if !sameVertices(fr.passes.get(0), fr.passes.get(1)) {
			t.Errorf("Circle(inner=%v) differs from Circle(inner=%v)", tt.in, tt.clamped)
		}
		if !sameVertices(fr.passes.get(2), fr.passes.get(3)) {
			t.Errorf("RoundedFrame(inner=%v) differs from RoundedFrame(inner=%v)", tt.in, tt.clamped)
		}
	}
}

func sameVertices(a, b []flatVertex) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFlatRoundLineOffsetsUniform(t *testing.T) {
	fr := newTestFlatRound(t)
	fr.AAOffset = 0.25
	const radius = 5
	fr.Line(0, geom.Coord{X: 0, Y: 0}, geom.Coord{X: 30, Y: 40}, radius, draw.White)
	want := Splat(0.25 / radius)
	for i, v := range fr.passes.get(0) {
		if v.Off != want {
			t.Fatalf("vertex %d offset = %v, want %v", i, v.Off, want)
		}
		if v.Inner != 0 {
			t.Fatalf("vertex %d inner = %v, want 0", i, v.Inner)
		}
	}
}

func TestFlatRoundLineGeometry(t *testing.T) {
	fr := newTestFlatRound(t)
	// Horizontal line: vx = (r, 0), vy = (0, r).
	fr.Line(0, geom.Coord{X: 10, Y: 20}, geom.Coord{X: 40, Y: 20}, 2, draw.White)
	v := fr.passes.get(0)
	// First triangle is ab1, p1, mb1.
	if want := (Vec2{8, 22}); v[0].Pos != want {
		t.Errorf("ab1 = %v, want %v", v[0].Pos, want)
	}
	if want := (Vec2{10, 20}); v[1].Pos != want || v[1].Dir != (Vec2{}) {
		t.Errorf("p1 = %v dir %v, want %v dir 0", v[1].Pos, v[1].Dir, want)
	}
	if want := (Vec2{10, 22}); v[2].Pos != want {
		t.Errorf("mb1 = %v, want %v", v[2].Pos, want)
	}
	for i, vert := range v {
		if math.Abs(float64(vert.Dir.X)) > 1 || math.Abs(float64(vert.Dir.Y)) > 1 {
			t.Errorf("vertex %d dir %v outside unit square", i, vert.Dir)
		}
	}
}

func TestFlatRoundDegenerateLine(t *testing.T) {
	for _, radius := range []float32{0.5, 4} {
		fr := newTestFlatRound(t)
		fr.Line(0, geom.Coord{X: 10, Y: 10}, geom.Coord{X: 10, Y: 10}, radius, draw.White)
		r := int32(radius)
		fr.Circle(1, geom.Rect{Pos: geom.Coord{X: 10 - r, Y: 10 - r}, Size: geom.Square(int32(radius * 2))}, radius, draw.White)
		if !sameVertices(fr.passes.get(0), fr.passes.get(1)) {
			t.Errorf("radius %v: Line(p, p) does not match the circle centred on p", radius)
		}
	}
}

func TestCircleOffsets(t *testing.T) {
	vs, ok := circleTriangles(Vec2{0, 0}, Vec2{20, 10}, 0.125)
	if !ok {
		t.Fatal("circleTriangles reported empty box")
	}
	want := Vec2{0.125 / 10, 0.125 / 5}
	for i, v := range vs {
		if v.off != want {
			t.Errorf("vertex %d offset = %v, want %v", i, v.off, want)
		}
	}
	// The second vertex of every triangle is the midpoint.
	for i := 1; i < len(vs); i += 3 {
		if vs[i].pos != (Vec2{10, 5}) || vs[i].dir != (Vec2{}) {
			t.Errorf("vertex %d = %+v, want midpoint with zero dir", i, vs[i])
		}
	}
}

func TestSanitizeFrame(t *testing.T) {
	aa, bb := Vec2{0, 0}, Vec2{100, 50}
	tests := []struct {
		name           string
		cc, dd         Vec2
		wantCC, wantDD Vec2
	}{
		{"nested", Vec2{10, 10}, Vec2{90, 40}, Vec2{10, 10}, Vec2{90, 40}},
		{"outside", Vec2{200, 200}, Vec2{300, 300}, Vec2{0, 0}, Vec2{0, 0}},
		{"x_outside", Vec2{-5, 10}, Vec2{90, 40}, Vec2{0, 10}, Vec2{0, 40}},
		{"y_overflow", Vec2{10, 10}, Vec2{90, 60}, Vec2{10, 0}, Vec2{90, 0}},
		{"inverted", Vec2{60, 30}, Vec2{40, 20}, Vec2{60, 30}, Vec2{60, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, dd := sanitizeFrame(aa, bb, tt.cc, tt.dd)
			if cc != tt.wantCC || dd != tt.wantDD {
				t.Errorf("sanitizeFrame = %v, %v; want %v, %v", cc, dd, tt.wantCC, tt.wantDD)
			}
		})
	}
}

func TestRoundedFrameInnerOutside(t *testing.T) {
	fr := newTestFlatRound(t)
	outer := geom.R(10, 10, 100, 60)
	fr.RoundedFrame(0, outer, geom.R(500, 500, 20, 20), 0.5, draw.White)
	v := fr.passes.get(0)
	if len(v) != 48 {
		t.Fatalf("queued %d vertices, want 48", len(v))
	}
	// The inner corners collapse onto outer's origin.
	origin := Vec2{10, 10}
	var collapsed int
	for _, vert := range v {
		if vert.Pos == origin && vert.Dir == (Vec2{}) {
			collapsed++
		}
	}
	if collapsed == 0 {
		t.Error("no vertex at the collapsed inner corner")
	}
}

func TestPassesGrowth(t *testing.T) {
	var p passes[int]
	if got := p.get(3); got != nil {
		t.Errorf("get on empty arena = %v, want nil", got)
	}
	p.add(0, 1, 2)
	if p.len() != passBlock {
		t.Errorf("len after first add = %d, want %d", p.len(), passBlock)
	}
	p.add(10, 3)
	if p.len() != 10+passBlock {
		t.Errorf("len after add(10) = %d, want %d", p.len(), 10+passBlock)
	}
	if got := p.total(); got != 3 {
		t.Errorf("total = %d, want 3", got)
	}
	c := cap(p.get(0))
	p.clear(0)
	if len(p.get(0)) != 0 || cap(p.get(0)) != c {
		t.Errorf("clear: len %d cap %d, want 0 and %d", len(p.get(0)), cap(p.get(0)), c)
	}
	p.clear(99) // out of range is a no-op

	p.add(-1, 4)
	if got := p.total(); got != 1 {
		t.Errorf("total after add(-1) = %d, want 1", got)
	}
}

func TestNegativePassIgnored(t *testing.T) {
	fr := newTestFlatRound(t)
	fr.Circle(-1, geom.R(0, 0, 10, 10), 0, draw.White)
	fr.Line(-2, geom.Coord{X: 0, Y: 0}, geom.Coord{X: 10, Y: 10}, 2, draw.White)
	if n := fr.passes.total(); n != 0 {
		t.Errorf("queued %d vertices for negative passes, want 0", n)
	}
}
