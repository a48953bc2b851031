package align

import (
	"context"
	"fmt"
	"log/slog"

	"subalign/internal/alignerr"
	"subalign/internal/anchor"
	"subalign/internal/logging"
	"subalign/internal/match"
	"subalign/internal/subtext"
	"subalign/internal/timesync"
)

// DefaultQualityThreshold is the best-align ratio below which the search
// hands the pair to a configured fallback aligner.
const DefaultQualityThreshold = 2.0

// cognateSweepStep is the threshold decrement of the graduated cognate
// search.
const cognateSweepStep = 0.05

// Fallback is an external aligner the search can cede a pair to when its own
// best result is too poor. Implementations own their output entirely; after
// delegation the search returns no result of its own.
type Fallback interface {
	Align(ctx context.Context) error
}

// AnchorPair is an externally supplied hard correspondence between a source
// and a target sentence id. Hard anchors bypass the lexical window search.
type AnchorPair struct {
	SrcID string
	TrgID string
}

// Options are the engine parameters of one alignment run.
type Options struct {
	Match      match.Config
	WindowSize int
	MaxMatches int

	// BestAlign enables the exhaustive anchor-combination search; when
	// false the single-shot standard mode runs instead.
	BestAlign bool

	// CognateSweep repeats the best-align search over descending cognate
	// thresholds from CognateSweepHigh down to CognateSweepLow.
	CognateSweep     bool
	CognateSweepHigh float64
	CognateSweepLow  float64

	// QualityThreshold is the ratio below which the fallback runs;
	// zero selects DefaultQualityThreshold.
	QualityThreshold float64

	HardAnchors []AnchorPair
}

// Search orchestrates anchor finding, synchronization, and alignment for one
// stream pair. The source stream's derived times are mutated across
// synchronization attempts; on return they reflect the returned result's
// transform.
type Search struct {
	src      *subtext.Stream
	trg      *subtext.Stream
	opts     Options
	logger   *slog.Logger
	fallback Fallback
}

// NewSearch builds a search over one parsed stream pair. logger may be nil;
// fallback may be nil when no external aligner is configured.
func NewSearch(src, trg *subtext.Stream, opts Options, logger *slog.Logger, fallback Fallback) *Search {
	return &Search{
		src:      src,
		trg:      trg,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "align"),
		fallback: fallback,
	}
}

// Run computes the alignment. The delegated return is true when the pair was
// handed to the fallback aligner, in which case no result is returned.
func (s *Search) Run(ctx context.Context) (res *Result, delegated bool, err error) {
	timesync.Synthesize(s.src.Sentences, 1, 0)
	timesync.Synthesize(s.trg.Sentences, 1, 0)

	if len(s.opts.HardAnchors) > 0 {
		return s.hardAnchorAlign()
	}

	matcher := match.New(s.opts.Match, s.src.Frequency, s.trg.Frequency)

	switch {
	case s.opts.CognateSweep:
		res = s.cognateAlign()
	case s.opts.BestAlign:
		res = s.bestAlign(matcher)
	default:
		res = s.standardAlign(matcher)
	}

	if res.Ratio() < s.qualityThreshold() && s.fallback != nil {
		s.logger.Info("alignment quality below threshold, delegating to fallback aligner",
			logging.Float64("ratio", res.Ratio()),
			logging.Float64("threshold", s.qualityThreshold()))
		if err := s.fallback.Align(ctx); err != nil {
			return nil, true, fmt.Errorf("fallback aligner: %w", err)
		}
		return nil, true, nil
	}
	return res, false, nil
}

func (s *Search) qualityThreshold() float64 {
	if s.opts.QualityThreshold > 0 {
		return s.opts.QualityThreshold
	}
	return DefaultQualityThreshold
}

// bestAlign tries every leading/trailing anchor combination and keeps the
// strictly best-scoring alignment. The baseline with unsynchronized times is
// never beaten by a worse candidate, so the returned ratio is at least the
// baseline's.
func (s *Search) bestAlign(matcher *match.Matcher) *Result {
	finder := anchor.NewFinder(matcher, s.opts.WindowSize, s.opts.MaxMatches)
	leading, trailing := finder.Find(s.src.Sentences, s.trg.Sentences)

	timesync.Synthesize(s.src.Sentences, 1, 0)
	best := Align(s.src.Sentences, s.trg.Sentences)
	bestRatio := best.Ratio()

	// Anchor end times on the unsynchronized axis; the fit maps these onto
	// the target axis.
	srcEnds := make([]float64, len(s.src.Sentences))
	for i, sent := range s.src.Sentences {
		srcEnds[i] = sent.End
	}

	tried := 0
	for _, lead := range leading {
		for _, trail := range trailing {
			if lead.Src == trail.Src && lead.Trg == trail.Trg {
				continue
			}
			slope, offset := timesync.FitLine([]timesync.Point{
				{X: srcEnds[lead.Src], Y: s.trg.Sentences[lead.Trg].End},
				{X: srcEnds[trail.Src], Y: s.trg.Sentences[trail.Trg].End},
			})
			if slope <= 0 {
				continue
			}
			tried++

			timesync.Synthesize(s.src.Sentences, slope, offset)
			cand := Align(s.src.Sentences, s.trg.Sentences)
			if cand.Ratio() > bestRatio {
				cand.Slope, cand.Offset = slope, offset
				best, bestRatio = cand, cand.Ratio()
			}
		}
	}

	// Leave the stream times consistent with the chosen result.
	timesync.Synthesize(s.src.Sentences, best.Slope, best.Offset)

	s.logger.Debug("best-align search finished",
		logging.Int("leading_anchors", len(leading)),
		logging.Int("trailing_anchors", len(trailing)),
		logging.Int("combinations", tried),
		logging.Float64("ratio", bestRatio),
		logging.Float64("slope", best.Slope),
		logging.Float64("offset", best.Offset))
	return best
}

// cognateAlign repeats the best-align search across a descending sequence of
// cognate thresholds, re-matching at every step, and keeps the best overall.
func (s *Search) cognateAlign() *Result {
	high := s.opts.CognateSweepHigh
	low := s.opts.CognateSweepLow
	if high <= 0 {
		high = 0.9
	}
	if low <= 0 {
		low = 0.5
	}

	if high < low {
		high = low
	}

	var best *Result
	for th := high; th >= low-1e-9; th -= cognateSweepStep {
		cfg := s.opts.Match.WithCognateThreshold(th)
		matcher := match.New(cfg, s.src.Frequency, s.trg.Frequency)
		cand := s.bestAlign(matcher)
		if best == nil || cand.Ratio() > best.Ratio() {
			best = cand
			s.logger.Debug("cognate sweep improved",
				logging.Float64("threshold", th),
				logging.Float64("ratio", best.Ratio()))
		}
	}
	// Restore the winning transform; later sweep steps overwrote it.
	timesync.Synthesize(s.src.Sentences, best.Slope, best.Offset)
	return best
}

// standardAlign aligns once with unsynchronized times; only when the result
// is dominated by empty links does it resynchronize once from the single top
// leading and trailing anchors and realign. No combination search.
func (s *Search) standardAlign(matcher *match.Matcher) *Result {
	res := Align(s.src.Sentences, s.trg.Sentences)
	if res.Empty <= res.NonEmpty/2 {
		return res
	}

	finder := anchor.NewFinder(matcher, s.opts.WindowSize, s.opts.MaxMatches)
	leading, trailing := finder.Find(s.src.Sentences, s.trg.Sentences)
	if len(leading) == 0 || len(trailing) == 0 {
		return res
	}

	lead, trail := leading[0], trailing[0]
	if lead.Src == trail.Src && lead.Trg == trail.Trg {
		return res
	}
	slope, offset := timesync.FitLine([]timesync.Point{
		{X: s.src.Sentences[lead.Src].End, Y: s.trg.Sentences[lead.Trg].End},
		{X: s.src.Sentences[trail.Src].End, Y: s.trg.Sentences[trail.Trg].End},
	})
	if slope <= 0 {
		return res
	}

	timesync.Synthesize(s.src.Sentences, slope, offset)
	resynced := Align(s.src.Sentences, s.trg.Sentences)
	resynced.Slope, resynced.Offset = slope, offset
	s.logger.Debug("standard align resynchronized",
		logging.Float64("slope", slope),
		logging.Float64("offset", offset),
		logging.Float64("ratio", resynced.Ratio()))
	return resynced
}

// hardAnchorAlign fits the time transform from explicit anchor pairs. A
// non-positive slope drops the last pair and refits until two pairs remain;
// if no valid fit survives the streams align unsynchronized.
func (s *Search) hardAnchorAlign() (*Result, bool, error) {
	points, err := s.resolveHardAnchors()
	if err != nil {
		return nil, false, err
	}

	for len(points) >= 2 {
		slope, offset := timesync.FitLine(points)
		if slope > 0 {
			timesync.Synthesize(s.src.Sentences, slope, offset)
			res := Align(s.src.Sentences, s.trg.Sentences)
			res.Slope, res.Offset = slope, offset
			return res, false, nil
		}
		s.logger.Debug("non-positive slope from hard anchors, dropping weakest",
			logging.Int("remaining", len(points)-1))
		points = points[:len(points)-1]
	}

	s.logger.Warn("hard anchors yielded no usable fit, aligning unsynchronized",
		logging.Error(alignerr.ErrDegenerate))
	return Align(s.src.Sentences, s.trg.Sentences), false, nil
}

func (s *Search) resolveHardAnchors() ([]timesync.Point, error) {
	srcByID := make(map[string]*subtext.Sentence, len(s.src.Sentences))
	for _, sent := range s.src.Sentences {
		srcByID[sent.ID] = sent
	}
	trgByID := make(map[string]*subtext.Sentence, len(s.trg.Sentences))
	for _, sent := range s.trg.Sentences {
		trgByID[sent.ID] = sent
	}

	points := make([]timesync.Point, 0, len(s.opts.HardAnchors))
	for _, pair := range s.opts.HardAnchors {
		src, ok := srcByID[pair.SrcID]
		if !ok {
			return nil, fmt.Errorf("hard anchor: unknown source id %q", pair.SrcID)
		}
		trg, ok := trgByID[pair.TrgID]
		if !ok {
			return nil, fmt.Errorf("hard anchor: unknown target id %q", pair.TrgID)
		}
		points = append(points, timesync.Point{X: src.End, Y: trg.End})
	}
	return points, nil
}
