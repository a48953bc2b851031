// Package interval provides overlap arithmetic for time intervals.
//
// Every alignment cost in the engine reduces to the question of how much two
// spans of playback time share and how much they do not. The decomposition
// here is the single cost metric used by the sequence aligner and the
// best-align search.
package interval

// Overlap describes how two intervals relate on a shared time axis.
//
// Common is the overlapping duration and may be negative when the intervals
// are disjoint; callers treat Common <= 0 as "no overlap". NonCommon is the
// total duration covered by exactly one of the two intervals.
type Overlap struct {
	SrcBefore float64
	TrgBefore float64
	SrcAfter  float64
	TrgAfter  float64
	Common    float64
	NonCommon float64
}

// Compute decomposes the relation between a source interval
// [srcStart, srcEnd] and a target interval [trgStart, trgEnd].
func Compute(srcStart, srcEnd, trgStart, trgEnd float64) Overlap {
	var ov Overlap

	if srcStart < trgStart {
		ov.SrcBefore = trgStart - srcStart
	} else {
		ov.TrgBefore = srcStart - trgStart
	}
	if srcEnd > trgEnd {
		ov.SrcAfter = srcEnd - trgEnd
	} else {
		ov.TrgAfter = trgEnd - srcEnd
	}

	ov.Common = min(srcEnd, trgEnd) - max(srcStart, trgStart)
	ov.NonCommon = ov.SrcBefore + ov.TrgBefore + ov.SrcAfter + ov.TrgAfter
	return ov
}
