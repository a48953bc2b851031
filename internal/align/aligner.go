package align

import (
	"math"

	"subalign/internal/interval"
	"subalign/internal/subtext"
)

// blockShapes enumerates the candidate block extents tried at each step, as
// extra sentences consumed beyond one on each side: {0,0} is a 1:1 link,
// {0,1} a 1:2, {2,0} a 3:1. Enumeration order is the tie-break, so the order
// here is load-bearing.
var blockShapes = [5][2]int{{0, 0}, {0, 1}, {1, 0}, {0, 2}, {2, 0}}

// Align computes a greedy left-to-right monotonic alignment of the two
// streams from their current derived times. Every sentence of both streams
// appears in exactly one link, in order.
func Align(src, trg []*subtext.Sentence) *Result {
	res := newResult()
	s, t := 0, 0

	for s < len(src) && t < len(trg) {
		ov := interval.Compute(src[s].Start, src[s].End, trg[t].Start, trg[t].End)
		if ov.Common <= 0 && ov.SrcBefore > 0 {
			res.add(Link{Src: []string{src[s].ID}})
			s++
			continue
		}
		if ov.Common <= 0 && ov.TrgBefore > 0 {
			res.add(Link{Trg: []string{trg[t].ID}})
			t++
			continue
		}

		ds, dt := bestShape(src, trg, s, t)
		link := Link{}
		for k := 0; k <= ds; k++ {
			link.Src = append(link.Src, src[s+k].ID)
		}
		for k := 0; k <= dt; k++ {
			link.Trg = append(link.Trg, trg[t+k].ID)
		}
		res.add(link)
		s += ds + 1
		t += dt + 1
	}

	for ; s < len(src); s++ {
		res.add(Link{Src: []string{src[s].ID}})
	}
	for ; t < len(trg); t++ {
		res.add(Link{Trg: []string{trg[t].ID}})
	}
	return res
}

// bestShape picks the block shape with the least non-overlap cost over the
// merged block spans. Shapes running past either stream or covering blocks
// disjoint in time are infeasible; if everything is infeasible the step
// falls back to 1:1.
func bestShape(src, trg []*subtext.Sentence, s, t int) (ds, dt int) {
	bestCost := math.Inf(1)
	for _, shape := range blockShapes {
		if s+shape[0] >= len(src) || t+shape[1] >= len(trg) {
			continue
		}
		srcStart, srcEnd := src[s].Start, src[s+shape[0]].End
		trgStart, trgEnd := trg[t].Start, trg[t+shape[1]].End
		if srcStart >= trgEnd || trgStart >= srcEnd {
			continue
		}
		cost := interval.Compute(srcStart, srcEnd, trgStart, trgEnd).NonCommon
		if cost < bestCost {
			bestCost = cost
			ds, dt = shape[0], shape[1]
		}
	}
	return ds, dt
}
