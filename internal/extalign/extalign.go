// Package extalign invokes an external fallback aligner as a one-shot
// subprocess. It satisfies align.Fallback so the search can cede a file pair
// to an outside tool when its own best alignment is too poor.
package extalign

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"subalign/internal/alignerr"
	"subalign/internal/logging"
)

// Placeholders substituted into the configured command line.
const (
	placeholderSource = "{source}"
	placeholderTarget = "{target}"
	placeholderOutput = "{output}"
)

// Runner executes a configured command template for one file pair. The
// template is split on whitespace; {source}, {target}, and {output} expand
// per argument, so paths with spaces survive substitution.
type Runner struct {
	template string
	source   string
	target   string
	output   string
	logger   *slog.Logger
}

// NewRunner builds a fallback runner for one pair. output may be empty when
// the tool writes to stdout on its own.
func NewRunner(template, source, target, output string, logger *slog.Logger) (*Runner, error) {
	if strings.TrimSpace(template) == "" {
		return nil, alignerr.Wrap(alignerr.ErrConfiguration, "extalign", "new", "empty fallback command", nil)
	}
	return &Runner{
		template: template,
		source:   source,
		target:   target,
		output:   output,
		logger:   logging.NewComponentLogger(logger, "extalign"),
	}, nil
}

// Align runs the external tool to completion. It fails loudly: any nonzero
// exit aborts the pair with the tool's combined output attached.
func (r *Runner) Align(ctx context.Context) error {
	args := r.arguments()
	if len(args) == 0 {
		return alignerr.Wrap(alignerr.ErrConfiguration, "extalign", "align", "fallback command has no arguments", nil)
	}

	r.logger.Info("delegating to external aligner",
		logging.String("command", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
		return alignerr.Wrap(alignerr.ErrExternalTool, "extalign", "align", args[0], detail)
	}
	return nil
}

func (r *Runner) arguments() []string {
	fields := strings.Fields(r.template)
	args := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.ReplaceAll(field, placeholderSource, r.source)
		field = strings.ReplaceAll(field, placeholderTarget, r.target)
		field = strings.ReplaceAll(field, placeholderOutput, r.output)
		args = append(args, field)
	}
	return args
}
