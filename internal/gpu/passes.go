package gpu

// passBlock is the number of pass slots added when a pass index beyond the
// current length is first used.
const passBlock = 8

// passes holds one vertex list per render pass. Lists are cleared after the
// pass renders but keep their capacity across frames.
type passes[T any] struct {
	lists [][]T
}

// add appends vs to pass. A negative pass is ignored.
func (p *passes[T]) add(pass int, vs ...T) {
	if pass < 0 {
		return
	}
	if pass >= len(p.lists) {
		n := pass + passBlock
		if n > cap(p.lists) {
			grown := make([][]T, n)
			copy(grown, p.lists)
			p.lists = grown
		} else {
			p.lists = p.lists[:n]
		}
	}
	p.lists[pass] = append(p.lists[pass], vs...)
}

// get returns the vertices queued for pass, or nil if the pass is unused.
func (p *passes[T]) get(pass int) []T {
	if pass < 0 || pass >= len(p.lists) {
		return nil
	}
	return p.lists[pass]
}

// clear empties pass, retaining its storage.
func (p *passes[T]) clear(pass int) {
	if pass >= 0 && pass < len(p.lists) {
		p.lists[pass] = p.lists[pass][:0]
	}
}

// len returns the number of allocated pass slots.
func (p *passes[T]) len() int { return len(p.lists) }

// total returns the number of vertices queued across all passes.
func (p *passes[T]) total() int {
	n := 0
	for _, l := range p.lists {
		n += len(l)
	}
	return n
}
