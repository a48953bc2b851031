package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subalign/internal/batch"
)

const timeRounding = 10 * time.Millisecond

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		outDir  string
		workers int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "batch <source-dir> <target-dir>",
		Short: "Align every document pair found under two directory trees",
		Long: `Batch pairs documents by relative path under the source and target
trees, aligns each pair, and writes one XCES file per pair under the output
directory. Unchanged pairs recorded in the result cache are skipped unless
--force is given.`,
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
			if cmd.Flags().Changed("workers") {
				cfg.Batch.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner := batch.NewRunner(cfg, logger)
			summary, err := runner.Run(cmd.Context(), args[0], args[1], outDir, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderBatchTable(summary))
			fmt.Fprintf(out, "Run %s: %d aligned, %d skipped, %d delegated, %d failed in %s\n",
				summary.RunID, summary.Aligned, summary.Skipped, summary.Delegated,
				summary.Failed, summary.Elapsed.Round(timeRounding))
			if summary.Failed > 0 {
				return fmt.Errorf("%d pair(s) failed", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Directory for alignment output files")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent alignment workers")
	cmd.Flags().BoolVar(&force, "force", false, "Realign pairs even when the cache marks them unchanged")

	return cmd
}

func renderBatchTable(summary *batch.Summary) string {
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		ratio, links, detail := "", "", ""
		switch outcome.Status {
		case batch.StatusAligned, batch.StatusSkipped:
			ratio = strconv.FormatFloat(outcome.Ratio, 'f', 2, 64)
			links = strconv.Itoa(outcome.Links)
		case batch.StatusFailed:
			if outcome.Err != nil {
				detail = outcome.Err.Error()
			}
		}
		rows = append(rows, []string{outcome.Rel, outcome.Status, links, ratio, detail})
	}
	return renderTable(
		[]string{"Pair", "Status", "Links", "Ratio", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
