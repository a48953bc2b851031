// Package match scores candidate anchor pairs with pluggable lexical
// strategies: dictionary lookup, identical-token runs, and cognate string
// similarity. Strategies run in that fixed precedence order; the first
// enabled strategy returning a positive score wins.
package match

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"subalign/internal/lexicon"
	"subalign/internal/subtext"
)

// Config selects and tunes the matching strategies. The zero value disables
// everything; a Matcher built from it never matches. Config values are
// immutable once handed to New, so one process can align many pairs with
// different settings concurrently.
type Config struct {
	// Dictionary enables dictionary matching when non-nil.
	Dictionary *lexicon.Dictionary

	// Identical enables identical-token run matching.
	Identical          bool
	IdenticalMinLength int
	// TokenPattern, when non-nil, restricts identical-run seed tokens to
	// those matching the pattern.
	TokenPattern       *regexp.Regexp
	FrequencyWeighting bool

	// Cognate enables LCSR string-similarity matching.
	Cognate          bool
	CognateThreshold float64
	CognateMinLength int

	// UppercaseOnly restricts identical and cognate matching to tokens
	// with an uppercase initial.
	UppercaseOnly bool
}

// WithCognateThreshold returns a copy of the config with cognate matching
// enabled at the given threshold. The graduated best-align search rebuilds
// its matcher from this at every sweep step.
func (c Config) WithCognateThreshold(threshold float64) Config {
	c.Cognate = true
	c.CognateThreshold = threshold
	return c
}

// Matcher scores sentence pairs. The frequency maps are the corpus-wide
// token counts of the two streams, used for frequency-weighted scoring.
type Matcher struct {
	cfg     Config
	srcFreq map[string]int
	trgFreq map[string]int
}

// New builds a matcher for one source/target stream pair.
func New(cfg Config, srcFreq, trgFreq map[string]int) *Matcher {
	return &Matcher{cfg: cfg, srcFreq: srcFreq, trgFreq: trgFreq}
}

// Enabled reports whether any strategy is active.
func (m *Matcher) Enabled() bool {
	return m.cfg.Dictionary != nil || m.cfg.Identical || m.cfg.Cognate
}

// Match scores a candidate sentence pair. Dictionary and cognate matching
// compare the sentences' final tokens; identical-run matching scans the full
// token lists. The first strategy producing a positive score decides.
func (m *Matcher) Match(src, trg *subtext.Sentence) float64 {
	srcTok := src.FinalToken()
	trgTok := trg.FinalToken()
	if srcTok == "" || trgTok == "" {
		return 0
	}

	if m.cfg.Dictionary != nil {
		if m.cfg.Dictionary.Contains(srcTok, trgTok) {
			return 1
		}
	}
	if m.cfg.Identical {
		if score := m.identicalScore(src.Tokens, trg.Tokens); score > 0 {
			return score
		}
	}
	if m.cfg.Cognate {
		if score := m.cognateScore(srcTok, trgTok); score > 0 {
			return score
		}
	}
	return 0
}

// identicalScore finds the longest contiguous token run shared by both
// sentences, extending greedily forward from every equal seed pair. The raw
// score is the run's character length; with frequency weighting it is divided
// by the summed corpus frequencies of the seed tokens, so rare shared tokens
// outrank ubiquitous ones. Runs at or below the minimum length score zero.
func (m *Matcher) identicalScore(srcToks, trgToks []string) float64 {
	bestLen := 0
	bestScore := 0.0

	for i, st := range srcToks {
		if !m.seedEligible(st) {
			continue
		}
		for j, tt := range trgToks {
			if !tokensEqual(st, tt, i == 0, j == 0) {
				continue
			}
			runLen := len(st)
			for k := 1; i+k < len(srcToks) && j+k < len(trgToks); k++ {
				if srcToks[i+k] != trgToks[j+k] {
					break
				}
				runLen += len(srcToks[i+k])
			}
			if runLen <= bestLen {
				continue
			}
			bestLen = runLen
			bestScore = float64(runLen)
			if m.cfg.FrequencyWeighting {
				bestScore = float64(runLen) / float64(m.pairFrequency(st, tt))
			}
		}
	}

	if bestLen <= m.cfg.IdenticalMinLength {
		return 0
	}
	return bestScore
}

func (m *Matcher) pairFrequency(srcTok, trgTok string) int {
	freq := m.srcFreq[strings.ToLower(srcTok)] + m.trgFreq[strings.ToLower(trgTok)]
	if freq < 1 {
		freq = 1
	}
	return freq
}

func (m *Matcher) seedEligible(tok string) bool {
	if m.cfg.TokenPattern != nil && !m.cfg.TokenPattern.MatchString(tok) {
		return false
	}
	if m.cfg.UppercaseOnly && !upperInitial(tok) {
		return false
	}
	return true
}

// cognateScore applies the LCSR similarity test to a token pair. Identical
// strings short-circuit with a full score; everything else must clear the
// minimum length on both sides and the similarity threshold.
func (m *Matcher) cognateScore(srcTok, trgTok string) float64 {
	if m.cfg.UppercaseOnly && (!upperInitial(srcTok) || !upperInitial(trgTok)) {
		return 0
	}
	if srcTok == trgTok {
		return 1
	}
	if utf8.RuneCountInString(srcTok) < m.cfg.CognateMinLength ||
		utf8.RuneCountInString(trgTok) < m.cfg.CognateMinLength {
		return 0
	}
	lcsr := LCSR(srcTok, trgTok)
	if lcsr < m.cfg.CognateThreshold {
		return 0
	}
	return lcsr
}

// tokensEqual compares tokens exactly, except that a sentence-initial token
// on either side is compared case-insensitively. Sentence-initial
// capitalization hides matches; folding everywhere would discard case
// information the other strategies rely on.
func tokensEqual(a, b string, aInitial, bInitial bool) bool {
	if aInitial || bInitial {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func upperInitial(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}
