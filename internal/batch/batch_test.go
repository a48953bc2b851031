package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subalign/internal/config"
	"subalign/internal/logging"
)

func writeDoc(t *testing.T, path string, count int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := "<document>\n"
	for i := 0; i < count; i++ {
		doc += fmt.Sprintf(
			"<s id=\"s%d\"><time value=\"00:00:%02d,000\"/><w>token%d</w><w>Ending%d</w><time value=\"00:00:%02d,000\"/></s>\n",
			i+1, 2*i+1, i, i, 2*i+2)
	}
	doc += "</document>\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.CacheDir = t.TempDir()
	cfg.Paths.DictionaryDir = t.TempDir()
	return &cfg
}

func TestDiscoverPairs(t *testing.T) {
	srcDir := t.TempDir()
	trgDir := t.TempDir()
	writeDoc(t, filepath.Join(srcDir, "a.xml"), 2)
	writeDoc(t, filepath.Join(srcDir, "sub", "b.xml"), 2)
	writeDoc(t, filepath.Join(srcDir, "orphan.xml"), 2)
	writeDoc(t, filepath.Join(trgDir, "a.xml"), 2)
	writeDoc(t, filepath.Join(trgDir, "sub", "b.xml"), 2)

	pairs, err := DiscoverPairs(srcDir, trgDir)
	if err != nil {
		t.Fatalf("DiscoverPairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %+v", len(pairs), pairs)
	}
	if pairs[0].Rel != "a.xml" || pairs[1].Rel != filepath.Join("sub", "b.xml") {
		t.Errorf("unexpected pair order: %+v", pairs)
	}
}

func TestDiscoverPairsCompressionVariant(t *testing.T) {
	srcDir := t.TempDir()
	trgDir := t.TempDir()
	writeDoc(t, filepath.Join(srcDir, "a.xml"), 1)
	// target side only has the plain variant under a .gz-free name
	writeDoc(t, filepath.Join(trgDir, "a.xml.gz"), 1)

	pairs, err := DiscoverPairs(srcDir, trgDir)
	if err != nil {
		t.Fatalf("DiscoverPairs: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if filepath.Base(pairs[0].Target) != "a.xml.gz" {
		t.Errorf("expected gz variant target, got %s", pairs[0].Target)
	}
}

func TestOutputName(t *testing.T) {
	cases := map[string]string{
		"a.xml":    "a.aln.xml",
		"a.xml.gz": "a.aln.xml",
		filepath.Join("sub", "b.xml"): filepath.Join("sub", "b.aln.xml"),
	}
	for rel, want := range cases {
		if got := OutputName(rel); got != want {
			t.Errorf("OutputName(%q) = %q, want %q", rel, got, want)
		}
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if _, found, err := cache.Lookup(ctx, "src", "trg"); err != nil || found {
		t.Fatalf("empty cache lookup: found=%v err=%v", found, err)
	}

	now := time.Now().UTC()
	entry := Entry{
		SourcePath: "src", TargetPath: "trg",
		SourceSize: 10, SourceMod: now,
		TargetSize: 20, TargetMod: now,
		OutputPath: "out.aln.xml", Ratio: 3.5, Links: 7,
		RunID: "run-1", CreatedAt: now,
	}
	if err := cache.Record(ctx, entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, found, err := cache.Lookup(ctx, "src", "trg")
	if err != nil || !found {
		t.Fatalf("lookup after record: found=%v err=%v", found, err)
	}
	if got.Ratio != 3.5 || got.Links != 7 || got.RunID != "run-1" {
		t.Errorf("unexpected entry: %+v", got)
	}
	if !got.SourceMod.Equal(now) {
		t.Errorf("source mtime drifted: %v vs %v", got.SourceMod, now)
	}

	// overwrite keeps a single row
	entry.Links = 9
	entry.RunID = "run-2"
	if err := cache.Record(ctx, entry); err != nil {
		t.Fatalf("Record overwrite: %v", err)
	}
	got, _, err = cache.Lookup(ctx, "src", "trg")
	if err != nil {
		t.Fatalf("lookup after overwrite: %v", err)
	}
	if got.Links != 9 || got.RunID != "run-2" {
		t.Errorf("overwrite not applied: %+v", got)
	}
}

func TestFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.xml")
	writeDoc(t, path, 1)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	entry := &Entry{
		SourceSize: info.Size(), SourceMod: info.ModTime(),
		TargetSize: info.Size(), TargetMod: info.ModTime(),
	}
	if !Fresh(entry, info, info) {
		t.Error("matching entry should be fresh")
	}
	stale := *entry
	stale.SourceSize++
	if Fresh(&stale, info, info) {
		t.Error("size change should invalidate entry")
	}
	if Fresh(nil, info, info) {
		t.Error("nil entry should not be fresh")
	}
}

func TestBuildOptionsRejectsBadPattern(t *testing.T) {
	cfg := testConfig(t)
	cfg.Match.TokenPattern = "["
	if _, err := BuildOptions(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for invalid token pattern")
	}
}

func TestBuildOptionsExplicitDictionary(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "en-de.dic")
	if err := os.WriteFile(dictPath, []byte("house haus\n"), 0o644); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}
	cfg := testConfig(t)
	cfg.Match.Dictionary = dictPath
	opts, err := BuildOptions(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.Match.Dictionary == nil || !opts.Match.Dictionary.Contains("house", "haus") {
		t.Error("dictionary not loaded into matcher config")
	}
}

func TestBuildOptionsMissingPairDictionary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Match.SourceLanguage = "en"
	cfg.Match.TargetLanguage = "de"
	opts, err := BuildOptions(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("missing language-pair dictionary should not be fatal: %v", err)
	}
	if opts.Match.Dictionary != nil {
		t.Error("expected no dictionary when none installed")
	}
}

func TestRunnerAlignsAndCaches(t *testing.T) {
	srcDir := t.TempDir()
	trgDir := t.TempDir()
	outDir := t.TempDir()
	writeDoc(t, filepath.Join(srcDir, "a.xml"), 4)
	writeDoc(t, filepath.Join(trgDir, "a.xml"), 4)
	writeDoc(t, filepath.Join(srcDir, "sub", "b.xml"), 3)
	writeDoc(t, filepath.Join(trgDir, "sub", "b.xml"), 3)

	cfg := testConfig(t)
	cfg.Batch.Workers = 2
	runner := NewRunner(cfg, logging.NewNop())

	summary, err := runner.Run(context.Background(), srcDir, trgDir, outDir, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Aligned != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.RunID == "" {
		t.Error("run id should be set")
	}
	for _, rel := range []string{"a.aln.xml", filepath.Join("sub", "b.aln.xml")} {
		if _, err := os.Stat(filepath.Join(outDir, rel)); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}

	// unchanged inputs are served from the cache on the next run
	summary, err = runner.Run(context.Background(), srcDir, trgDir, outDir, false)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary.Skipped != 2 || summary.Aligned != 0 {
		t.Fatalf("expected cached skip, got %+v", summary)
	}

	// force bypasses the cache
	summary, err = runner.Run(context.Background(), srcDir, trgDir, outDir, true)
	if err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if summary.Aligned != 2 {
		t.Fatalf("force should realign, got %+v", summary)
	}
}

func TestRunnerIsolatesPairFailures(t *testing.T) {
	srcDir := t.TempDir()
	trgDir := t.TempDir()
	outDir := t.TempDir()
	writeDoc(t, filepath.Join(srcDir, "good.xml"), 3)
	writeDoc(t, filepath.Join(trgDir, "good.xml"), 3)
	if err := os.WriteFile(filepath.Join(srcDir, "bad.xml"), []byte("<document></document>"), 0o644); err != nil {
		t.Fatalf("write bad doc: %v", err)
	}
	writeDoc(t, filepath.Join(trgDir, "bad.xml"), 3)

	cfg := testConfig(t)
	runner := NewRunner(cfg, logging.NewNop())
	summary, err := runner.Run(context.Background(), srcDir, trgDir, outDir, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 || summary.Aligned != 1 {
		t.Fatalf("expected one failure and one success, got %+v", summary)
	}
	var failed *PairOutcome
	for i := range summary.Outcomes {
		if summary.Outcomes[i].Status == StatusFailed {
			failed = &summary.Outcomes[i]
		}
	}
	if failed == nil || failed.Rel != "bad.xml" || failed.Err == nil {
		t.Errorf("failure not recorded: %+v", summary.Outcomes)
	}
}
