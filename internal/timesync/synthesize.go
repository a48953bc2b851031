// Package timesync derives per-sentence start/end times from sparse time
// markers and corrects time-axis drift between two streams with an affine
// scale/offset transform.
package timesync

import (
	"subalign/internal/subtext"
)

const (
	// floorEpsilon keeps every sentence a hair longer than zero after
	// scale/offset application.
	floorEpsilon = 0.001
	// spanEpsilon substitutes for a zero character span during
	// interpolation.
	spanEpsilon = 1e-6
)

// Synthesize rewrites Start/End for every sentence from its raw markers,
// then applies the given scale and offset. Passing scale 1 and offset 0
// restores the unsynchronized baseline, so repeated calls never compound.
//
// Missing first markers are carried forward from the previous sentence's
// derived end (zero for the very first sentence). Missing last markers are
// taken from the next sentence ahead that defines any marker. A first marker
// sitting exactly on the sentence's character end boundary is treated as the
// sentence's end time instead. Times are projected onto the sentence's true
// character span by linear interpolation between the two known markers.
func Synthesize(sents []*subtext.Sentence, scale, offset float64) {
	carry := subtext.Marker{Time: 0, Pos: 0}

	for i, s := range sents {
		first, last := s.First, s.Last
		if first != nil && last == nil && first.Pos == s.EndPos {
			first, last = nil, first
		}
		if first == nil {
			first = &subtext.Marker{Time: carry.Time, Pos: s.StartPos}
		}
		if last == nil {
			last = nextMarker(sents, i+1)
		}
		if last == nil {
			last = &subtext.Marker{Time: first.Time, Pos: s.EndPos}
		}

		span := float64(last.Pos - first.Pos)
		if span == 0 {
			span = spanEpsilon
		}
		rate := (last.Time - first.Time) / span

		rawStart := first.Time + float64(s.StartPos-first.Pos)*rate
		rawEnd := first.Time + float64(s.EndPos-first.Pos)*rate
		carry = subtext.Marker{Time: rawEnd, Pos: s.EndPos}

		s.Start = scale*rawStart + offset
		s.End = scale*rawEnd + offset
		if s.Start >= s.End {
			s.Start = s.End - floorEpsilon
		}
	}
}

// nextMarker finds the earliest marker defined at or after index i. A first
// marker wins over a last marker within the same sentence.
func nextMarker(sents []*subtext.Sentence, i int) *subtext.Marker {
	for ; i < len(sents); i++ {
		if sents[i].First != nil {
			return sents[i].First
		}
		if sents[i].Last != nil {
			return sents[i].Last
		}
	}
	return nil
}

// Synchronize applies an affine transform to the current derived times of
// every sentence, in place.
func Synchronize(sents []*subtext.Sentence, slope, offset float64) {
	for _, s := range sents {
		s.Start = slope*s.Start + offset
		s.End = slope*s.End + offset
		if s.Start >= s.End {
			s.Start = s.End - floorEpsilon
		}
	}
}
