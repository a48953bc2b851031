package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subalign/internal/align"
	"subalign/internal/batch"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		output           string
		windowSize       int
		maxMatches       int
		bestAlign        bool
		cognateSweep     bool
		dictionary       string
		sourceLanguage   string
		targetLanguage   string
		qualityThreshold float64
		fallbackCommand  string
		anchors          []string
	)

	cmd := &cobra.Command{
		Use:   "align <source.xml> <target.xml>",
		Short: "Align one source/target document pair",
		Long: `Align reads two sentence-segmented subtitle documents, synchronizes
their time axes, and writes the sentence alignment as XCES link markup to
stdout or the file given with --output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("window-size") {
				cfg.Align.WindowSize = windowSize
			}
			if flags.Changed("max-matches") {
				cfg.Align.MaxMatches = maxMatches
			}
			if flags.Changed("best-align") {
				cfg.Align.BestAlign = bestAlign
			}
			if flags.Changed("cognate-sweep") {
				cfg.Match.CognateSweep = cognateSweep
			}
			if flags.Changed("quality-threshold") {
				cfg.Align.QualityThreshold = qualityThreshold
			}
			if flags.Changed("fallback") {
				cfg.Align.FallbackCommand = fallbackCommand
			}
			if dictionary != "" {
				cfg.Match.Dictionary = dictionary
			}
			if sourceLanguage != "" {
				cfg.Match.SourceLanguage = sourceLanguage
			}
			if targetLanguage != "" {
				cfg.Match.TargetLanguage = targetLanguage
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts, err := batch.BuildOptions(cfg, logger)
			if err != nil {
				return err
			}
			opts.HardAnchors, err = parseAnchors(anchors)
			if err != nil {
				return err
			}

			res, delegated, err := batch.AlignFiles(cmd.Context(), cfg, logger, opts, args[0], args[1], output)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if delegated {
				fmt.Fprintln(out, "Alignment delegated to the fallback aligner")
				return nil
			}
			if output != "" {
				fmt.Fprintln(out, renderAlignSummary(res))
				fmt.Fprintf(out, "Wrote %d links to %s\n", len(res.Links), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write alignment to this file instead of stdout")
	cmd.Flags().IntVar(&windowSize, "window-size", 0, "Sentences scanned at each stream boundary for anchors")
	cmd.Flags().IntVar(&maxMatches, "max-matches", 0, "Maximum anchor candidates kept per boundary")
	cmd.Flags().BoolVar(&bestAlign, "best-align", false, "Search anchor-derived time transforms for the best ratio")
	cmd.Flags().BoolVar(&cognateSweep, "cognate-sweep", false, "Sweep cognate thresholds and keep the best alignment")
	cmd.Flags().StringVar(&dictionary, "dictionary", "", "Dictionary file for lexical matching")
	cmd.Flags().StringVar(&sourceLanguage, "source-language", "", "Source language code for dictionary lookup")
	cmd.Flags().StringVar(&targetLanguage, "target-language", "", "Target language code for dictionary lookup")
	cmd.Flags().Float64Var(&qualityThreshold, "quality-threshold", 0, "Minimum alignment ratio before delegating to the fallback")
	cmd.Flags().StringVar(&fallbackCommand, "fallback", "", "External aligner command template ({source} {target} {output})")
	cmd.Flags().StringArrayVar(&anchors, "anchor", nil, "Hard anchor pair as srcID:trgID (repeatable)")

	return cmd
}

// parseAnchors converts srcID:trgID flag values into anchor pairs.
func parseAnchors(values []string) ([]align.AnchorPair, error) {
	if len(values) == 0 {
		return nil, nil
	}
	pairs := make([]align.AnchorPair, 0, len(values))
	for _, value := range values {
		src, trg, ok := strings.Cut(value, ":")
		if !ok || strings.TrimSpace(src) == "" || strings.TrimSpace(trg) == "" {
			return nil, fmt.Errorf("anchor %q: expected srcID:trgID", value)
		}
		pairs = append(pairs, align.AnchorPair{
			SrcID: strings.TrimSpace(src),
			TrgID: strings.TrimSpace(trg),
		})
	}
	return pairs, nil
}

func renderAlignSummary(res *align.Result) string {
	rows := [][]string{
		{"Links", strconv.Itoa(len(res.Links))},
		{"Non-empty", strconv.Itoa(res.NonEmpty)},
		{"Empty", strconv.Itoa(res.Empty)},
		{"Ratio", strconv.FormatFloat(res.Ratio(), 'f', 2, 64)},
		{"Slope", strconv.FormatFloat(res.Slope, 'f', 4, 64)},
		{"Offset", strconv.FormatFloat(res.Offset, 'f', 3, 64)},
	}
	for _, shape := range shapeOrder(res) {
		rows = append(rows, []string{"Shape " + shape, strconv.Itoa(res.Shapes[shape])})
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func shapeOrder(res *align.Result) []string {
	order := []string{"1:1", "1:2", "2:1", "1:3", "3:1", "1:0", "0:1"}
	shapes := make([]string, 0, len(res.Shapes))
	seen := make(map[string]bool)
	for _, shape := range order {
		if res.Shapes[shape] > 0 {
			shapes = append(shapes, shape)
			seen[shape] = true
		}
	}
	var rest []string
	for shape := range res.Shapes {
		if !seen[shape] {
			rest = append(rest, shape)
		}
	}
	sort.Strings(rest)
	return append(shapes, rest...)
}
