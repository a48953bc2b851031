package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subalign/internal/align"
	"subalign/internal/alignerr"
	"subalign/internal/config"
	"subalign/internal/logging"
)

// Outcome labels for one pair in a batch run.
const (
	StatusAligned   = "aligned"
	StatusSkipped   = "skipped"
	StatusDelegated = "delegated"
	StatusFailed    = "failed"
)

// PairOutcome is the per-pair record a batch run produces.
type PairOutcome struct {
	Rel    string
	Status string
	Ratio  float64
	Links  int
	Err    error
}

// Summary aggregates a whole batch run.
type Summary struct {
	RunID     string
	Aligned   int
	Skipped   int
	Delegated int
	Failed    int
	Outcomes  []PairOutcome
	Elapsed   time.Duration
}

// Runner drives alignment over two directory trees.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner builds a batch runner over the given configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run aligns every pair found under srcDir and trgDir, writing results under
// outDir. A per-cache-directory file lock keeps concurrent batch runs from
// interleaving; pair failures are recorded and do not abort the run. When
// force is true the result cache is bypassed.
func (r *Runner) Run(ctx context.Context, srcDir, trgDir, outDir string, force bool) (*Summary, error) {
	if err := os.MkdirAll(r.cfg.Paths.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	lock := flock.New(filepath.Join(r.cfg.Paths.CacheDir, "batch.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return nil, alignerr.Wrap(alignerr.ErrConfiguration, "batch", "lock",
			"another batch run is already active for this cache directory", nil)
	}
	defer lock.Unlock()

	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	var cache *Cache
	if r.cfg.Batch.CacheEnabled {
		cache, err = OpenCache(r.cfg.Paths.CacheDir)
		if err != nil {
			return nil, err
		}
		defer cache.Close()
	}

	opts, err := BuildOptions(r.cfg, logger)
	if err != nil {
		return nil, err
	}

	pairs, err := DiscoverPairs(srcDir, trgDir)
	if err != nil {
		return nil, fmt.Errorf("discover pairs: %w", err)
	}
	logger.Info("batch run starting",
		logging.Int("pairs", len(pairs)),
		logging.Int("workers", r.cfg.Batch.Workers))

	start := time.Now()
	summary := &Summary{RunID: runID}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan Pair)

	workers := r.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				outcome := r.alignOne(ctx, logger, opts, cache, pair, outDir, force, runID)
				mu.Lock()
				summary.Outcomes = append(summary.Outcomes, outcome)
				switch outcome.Status {
				case StatusAligned:
					summary.Aligned++
				case StatusSkipped:
					summary.Skipped++
				case StatusDelegated:
					summary.Delegated++
				case StatusFailed:
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- pair:
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(summary.Outcomes, func(i, j int) bool {
		return summary.Outcomes[i].Rel < summary.Outcomes[j].Rel
	})
	summary.Elapsed = time.Since(start)
	logger.Info("batch run finished",
		logging.Int("aligned", summary.Aligned),
		logging.Int("skipped", summary.Skipped),
		logging.Int("delegated", summary.Delegated),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed))
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) alignOne(ctx context.Context, logger *slog.Logger, opts align.Options, cache *Cache, pair Pair, outDir string, force bool, runID string) PairOutcome {
	outcome := PairOutcome{Rel: pair.Rel}

	srcInfo, err := os.Stat(pair.Source)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}
	trgInfo, err := os.Stat(pair.Target)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	if cache != nil && !force {
		entry, found, err := cache.Lookup(ctx, pair.Source, pair.Target)
		if err != nil {
			logger.Warn("cache lookup failed, realigning",
				logging.String("pair", pair.Rel), logging.Error(err))
		} else if found && Fresh(entry, srcInfo, trgInfo) {
			logger.Debug("pair unchanged, skipping", logging.String("pair", pair.Rel))
			outcome.Status = StatusSkipped
			outcome.Ratio = entry.Ratio
			outcome.Links = entry.Links
			return outcome
		}
	}

	outPath := filepath.Join(outDir, OutputName(pair.Rel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	res, delegated, err := AlignFiles(ctx, r.cfg, logger, opts, pair.Source, pair.Target, outPath)
	if err != nil {
		logger.Error("pair alignment failed",
			logging.String("pair", pair.Rel), logging.Error(err))
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}
	if delegated {
		logger.Info("pair delegated to fallback aligner", logging.String("pair", pair.Rel))
		outcome.Status = StatusDelegated
		return outcome
	}

	outcome.Status = StatusAligned
	outcome.Ratio = res.Ratio()
	outcome.Links = len(res.Links)
	logger.Info("pair aligned",
		logging.String("pair", pair.Rel),
		logging.Int("links", outcome.Links),
		logging.Float64("ratio", outcome.Ratio))

	if cache != nil {
		entry := Entry{
			SourcePath: pair.Source,
			TargetPath: pair.Target,
			SourceSize: srcInfo.Size(),
			SourceMod:  srcInfo.ModTime(),
			TargetSize: trgInfo.Size(),
			TargetMod:  trgInfo.ModTime(),
			OutputPath: outPath,
			Ratio:      outcome.Ratio,
			Links:      outcome.Links,
			RunID:      runID,
			CreatedAt:  time.Now(),
		}
		if err := cache.Record(ctx, entry); err != nil {
			logger.Warn("cache record failed",
				logging.String("pair", pair.Rel), logging.Error(err))
		}
	}
	return outcome
}
