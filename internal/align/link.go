// Package align computes monotonic sentence alignments between two
// time-stamped streams and searches anchor-pair combinations for the
// best-scoring synchronization.
package align

import (
	"fmt"
	"strings"
)

// Link is one entry of an alignment: an ordered list of source sentence ids
// paired with an ordered list of target sentence ids. Either side may be
// empty (an insertion or deletion), never both.
type Link struct {
	Src []string
	Trg []string
}

// IsEmpty reports whether the link leaves one side unpaired.
func (l Link) IsEmpty() bool {
	return len(l.Src) == 0 || len(l.Trg) == 0
}

// Shape renders the link's block shape, e.g. "1:1" or "2:1".
func (l Link) Shape() string {
	return fmt.Sprintf("%d:%d", len(l.Src), len(l.Trg))
}

// String renders the link in the "source-ids ; target-ids" form used by the
// serialization layer.
func (l Link) String() string {
	return strings.Join(l.Src, " ") + " ; " + strings.Join(l.Trg, " ")
}

// Result is an ordered alignment plus its quality counters and the affine
// transform that produced it (identity for the unsynchronized baseline).
type Result struct {
	Links    []Link
	Empty    int
	NonEmpty int
	Shapes   map[string]int
	Slope    float64
	Offset   float64
}

func newResult() *Result {
	return &Result{Shapes: make(map[string]int), Slope: 1, Offset: 0}
}

func (r *Result) add(l Link) {
	r.Links = append(r.Links, l)
	if l.IsEmpty() {
		r.Empty++
	} else {
		r.NonEmpty++
	}
	r.Shapes[l.Shape()]++
}

// Ratio is the quality score used to compare candidate alignments: the
// nonempty/empty link ratio, add-one smoothed so empty alignments rank.
func (r *Result) Ratio() float64 {
	return float64(r.NonEmpty+1) / float64(r.Empty+1)
}
