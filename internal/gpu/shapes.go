package gpu

// shapeVertex is the geometry of one vertex of a rounded shape. dir is the
// position relative to the rounding centre, scaled so that the rounded edge
// lies at length 1; off is the anti-aliasing offset in the same units.
type shapeVertex struct {
	pos, dir, off Vec2
}

// circleTriangles tessellates the ellipse inscribed in the box aa–bb as a
// fan of four triangles around the midpoint. It reports false if the box is
// empty.
func circleTriangles(aa, bb Vec2, offset float32) ([12]shapeVertex, bool) {
	var out [12]shapeVertex
	if !aa.Lt(bb) {
		return out, false
	}

	ab := Vec2{aa.X, bb.Y}
	ba := Vec2{bb.X, aa.Y}
	mid := aa.Mid(bb)

	nb := bb.Sub(aa).Sign()
	na := nb.Neg()

	// Offsets are uniform since every edge is the same distance from mid.
	p := nb.Div(bb.Sub(mid)).MulScalar(offset)

	vaa := shapeVertex{aa, na, p}
	vab := shapeVertex{ab, Vec2{na.X, nb.Y}, p}
	vba := shapeVertex{ba, Vec2{nb.X, na.Y}, p}
	vbb := shapeVertex{bb, nb, p}
	vmid := shapeVertex{mid, Vec2{}, p}

	out = [12]shapeVertex{
		vba, vmid, vaa,
		vbb, vmid, vba,
		vab, vmid, vbb,
		vaa, vmid, vab,
	}
	return out, true
}

// sanitizeFrame corrects the inner box cc–dd of a frame with outer box
// aa–bb. In each dimension where the inner edges do not lie within the outer
// ones, both inner edges collapse onto the outer min edge; an inverted inner
// box collapses its max onto its min.
func sanitizeFrame(aa, bb, cc, dd Vec2) (Vec2, Vec2) {
	if !(aa.X <= cc.X && dd.X <= bb.X) {
		cc.X, dd.X = aa.X, aa.X
	}
	if !(aa.Y <= cc.Y && dd.Y <= bb.Y) {
		cc.Y, dd.Y = aa.Y, aa.Y
	}
	if cc.X > dd.X {
		dd.X = cc.X
	}
	if cc.Y > dd.Y {
		dd.Y = cc.Y
	}
	return cc, dd
}

// frameTriangles tessellates the frame between outer box aa–bb and inner box
// cc–dd as sixteen triangles. Each corner region is rounded about the
// matching inner corner. The inner box must already be sanitised. It
// reports false if the outer box is empty.
//
// Corner vertices are repeated per adjoining side, with different dir values,
// so that dir interpolates correctly across each bar.
func frameTriangles(aa, bb, cc, dd Vec2, offset float32) ([48]shapeVertex, bool) {
	var out [48]shapeVertex
	if !aa.Lt(bb) {
		return out, false
	}

	ab := Vec2{aa.X, bb.Y}
	ba := Vec2{bb.X, aa.Y}
	cd := Vec2{cc.X, dd.Y}
	dc := Vec2{dd.X, cc.Y}

	nb := bb.Sub(aa).Sign()
	na := nb.Neg()
	nab := Vec2{na.X, nb.Y}
	nba := Vec2{nb.X, na.Y}
	na0 := Vec2{na.X, 0}
	nb0 := Vec2{nb.X, 0}
	n0a := Vec2{0, na.Y}
	n0b := Vec2{0, nb.Y}

	// A zero-width bar yields an infinite offset; the shader then treats its
	// samples as outside.
	paa := na.Div(aa.Sub(cc)).MulScalar(offset)
	pab := nab.Div(ab.Sub(cd)).MulScalar(offset)
	pba := nba.Div(ba.Sub(dc)).MulScalar(offset)
	pbb := nb.Div(bb.Sub(dd)).MulScalar(offset)

	vab := shapeVertex{ab, nab, pab}
	vba := shapeVertex{ba, nba, pba}
	vcd := shapeVertex{cd, Vec2{}, pab}
	vdc := shapeVertex{dc, Vec2{}, pba}

	vac := shapeVertex{Vec2{aa.X, cc.Y}, na0, paa}
	vad := shapeVertex{Vec2{aa.X, dd.Y}, na0, pab}
	vbc := shapeVertex{Vec2{bb.X, cc.Y}, nb0, pba}
	vbd := shapeVertex{Vec2{bb.X, dd.Y}, nb0, pbb}

	vca := shapeVertex{Vec2{cc.X, aa.Y}, n0a, paa}
	vcb := shapeVertex{Vec2{cc.X, bb.Y}, n0b, pab}
	vda := shapeVertex{Vec2{dd.X, aa.Y}, n0a, pba}
	vdb := shapeVertex{Vec2{dd.X, bb.Y}, n0b, pbb}

	vaa := shapeVertex{aa, na, paa}
	vbb := shapeVertex{bb, nb, pbb}
	vcc := shapeVertex{cc, Vec2{}, paa}
	vdd := shapeVertex{dd, Vec2{}, pbb}

	out = [48]shapeVertex{
		// top
		vba, vdc, vda,
		vda, vdc, vca,
		vdc, vcc, vca,
		vca, vcc, vaa,
		// left
		vaa, vcc, vac,
		vac, vcc, vcd,
		vac, vcd, vad,
		vad, vcd, vab,
		// bottom
		vab, vcd, vcb,
		vcb, vcd, vdd,
		vcb, vdd, vdb,
		vdb, vdd, vbb,
		// right
		vbb, vdd, vbd,
		vbd, vdd, vdc,
		vbd, vdc, vbc,
		vbc, vdc, vba,
	}
	return out, true
}
