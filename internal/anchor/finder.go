// Package anchor scans the boundary windows of two sentence streams for
// lexical matches and ranks them as candidate anchor points for time-axis
// synchronization.
package anchor

import (
	"sort"

	"subalign/internal/match"
	"subalign/internal/subtext"
)

// DefaultWindowSize is the number of sentences scanned at each stream
// boundary.
const DefaultWindowSize = 25

// Candidate pairs a source and a target sentence index with a score.
// The score is the inverse distance from the stream boundary, not the
// lexical score: a weak match right at the boundary is a better anchor than
// a strong match far from it.
type Candidate struct {
	Src   int
	Trg   int
	Score float64
}

// Finder locates anchor candidates in the leading and trailing windows of
// a stream pair.
type Finder struct {
	matcher    *match.Matcher
	windowSize int
	maxMatches int
}

// NewFinder builds a finder. windowSize <= 0 selects DefaultWindowSize;
// maxMatches <= 0 leaves the candidate sets uncapped.
func NewFinder(matcher *match.Matcher, windowSize, maxMatches int) *Finder {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Finder{matcher: matcher, windowSize: windowSize, maxMatches: maxMatches}
}

// Find scans both boundary windows and returns leading and trailing
// candidates, each sorted by descending score and capped at the configured
// maximum. Matching compares final tokens only; a sentence whose final token
// was spent in a match is masked out for the rest of its window scan.
func (f *Finder) Find(src, trg []*subtext.Sentence) (leading, trailing []Candidate) {
	if f.matcher == nil || !f.matcher.Enabled() {
		return nil, nil
	}

	w := f.windowSize
	leading = f.scanWindow(headWindow(src, w), headWindow(trg, w), func(s, t int) float64 {
		return 1 / float64(s+t+2)
	})
	trailing = f.scanWindow(tailWindow(src, w), tailWindow(trg, w), func(s, t int) float64 {
		return 1 / float64(2*w-s-t)
	})
	return leading, trailing
}

// scanWindow runs the matcher over every pair in the two windows. The score
// function receives window-local offsets; candidates carry absolute indices.
func (f *Finder) scanWindow(src, trg []*subtext.Sentence, score func(s, t int) float64) []Candidate {
	consumedSrc := make([]bool, len(src))
	consumedTrg := make([]bool, len(trg))

	var cands []Candidate
	for s, srcSent := range src {
		if consumedSrc[s] {
			continue
		}
		for t, trgSent := range trg {
			if consumedTrg[t] {
				continue
			}
			if f.matcher.Match(srcSent, trgSent) <= 0 {
				continue
			}
			cands = append(cands, Candidate{
				Src:   srcSent.Index,
				Trg:   trgSent.Index,
				Score: score(s, t),
			})
			consumedSrc[s] = true
			consumedTrg[t] = true
			break
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
	if f.maxMatches > 0 && len(cands) > f.maxMatches {
		cands = cands[:f.maxMatches]
	}
	return cands
}

func headWindow(sents []*subtext.Sentence, w int) []*subtext.Sentence {
	if len(sents) < w {
		w = len(sents)
	}
	return sents[:w]
}

func tailWindow(sents []*subtext.Sentence, w int) []*subtext.Sentence {
	if len(sents) < w {
		w = len(sents)
	}
	return sents[len(sents)-w:]
}
