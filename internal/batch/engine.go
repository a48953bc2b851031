package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"subalign/internal/align"
	"subalign/internal/alignerr"
	"subalign/internal/config"
	"subalign/internal/extalign"
	"subalign/internal/lexicon"
	"subalign/internal/logging"
	"subalign/internal/match"
	"subalign/internal/subtext"
	"subalign/internal/xces"
)

// BuildOptions assembles the engine parameters from configuration. A
// dictionary is loaded from the explicit path when set, otherwise resolved
// by language pair; a missing language-pair dictionary is not fatal, the
// matcher simply runs without that strategy.
func BuildOptions(cfg *config.Config, logger *slog.Logger) (align.Options, error) {
	mc := match.Config{
		Identical:          cfg.Match.Identical,
		IdenticalMinLength: cfg.Match.IdenticalMinLength,
		FrequencyWeighting: cfg.Match.FrequencyWeighting,
		Cognate:            cfg.Match.Cognate,
		CognateThreshold:   cfg.Match.CognateThreshold,
		CognateMinLength:   cfg.Match.CognateMinLength,
		UppercaseOnly:      cfg.Match.UppercaseOnly,
	}

	if cfg.Match.TokenPattern != "" {
		pattern, err := regexp.Compile(cfg.Match.TokenPattern)
		if err != nil {
			return align.Options{}, alignerr.Wrap(alignerr.ErrConfiguration, "batch", "token pattern", cfg.Match.TokenPattern, err)
		}
		mc.TokenPattern = pattern
	}

	switch {
	case cfg.Match.Dictionary != "":
		dict, err := lexicon.Load(cfg.Match.Dictionary, false)
		if err != nil {
			return align.Options{}, alignerr.Wrap(alignerr.ErrInput, "batch", "load dictionary", cfg.Match.Dictionary, err)
		}
		mc.Dictionary = dict
	case cfg.Match.SourceLanguage != "" && cfg.Match.TargetLanguage != "":
		path, inverted, err := lexicon.Resolve(cfg.Paths.DictionaryDir, cfg.Match.SourceLanguage, cfg.Match.TargetLanguage)
		if err != nil {
			if logger != nil {
				logger.Debug("no dictionary for language pair, continuing without",
					logging.String("source", cfg.Match.SourceLanguage),
					logging.String("target", cfg.Match.TargetLanguage))
			}
			break
		}
		dict, err := lexicon.Load(path, inverted)
		if err != nil {
			return align.Options{}, alignerr.Wrap(alignerr.ErrInput, "batch", "load dictionary", path, err)
		}
		mc.Dictionary = dict
	}

	return align.Options{
		Match:            mc,
		WindowSize:       cfg.Align.WindowSize,
		MaxMatches:       cfg.Align.MaxMatches,
		BestAlign:        cfg.Align.BestAlign,
		CognateSweep:     cfg.Match.CognateSweep,
		CognateSweepHigh: cfg.Match.CognateSweepHigh,
		CognateSweepLow:  cfg.Match.CognateSweepLow,
		QualityThreshold: cfg.Align.QualityThreshold,
	}, nil
}

// AlignFiles aligns one source/target document pair and writes the XCES
// result to outPath (stdout when empty). The delegated return is true when
// the configured fallback tool produced the output instead.
func AlignFiles(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts align.Options, srcPath, trgPath, outPath string) (*align.Result, bool, error) {
	src, err := subtext.Parse(srcPath)
	if err != nil {
		return nil, false, alignerr.Wrap(alignerr.ErrInput, "batch", "parse source", srcPath, err)
	}
	trg, err := subtext.Parse(trgPath)
	if err != nil {
		return nil, false, alignerr.Wrap(alignerr.ErrInput, "batch", "parse target", trgPath, err)
	}

	var fallback align.Fallback
	if cfg.Align.FallbackCommand != "" {
		runner, err := extalign.NewRunner(cfg.Align.FallbackCommand, srcPath, trgPath, outPath, logger)
		if err != nil {
			return nil, false, err
		}
		fallback = runner
	}

	search := align.NewSearch(src, trg, opts, logger, fallback)
	res, delegated, err := search.Run(ctx)
	if err != nil {
		return nil, delegated, err
	}
	if delegated {
		return nil, true, nil
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return nil, false, fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := xces.Write(out, srcPath, trgPath, res.Links); err != nil {
		return nil, false, err
	}
	return res, false, nil
}
