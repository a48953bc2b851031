// Package lexicon loads bilingual word-pair dictionaries and resolves
// dictionary files by language pair.
package lexicon

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dictionary is a source → {target → count} word-pair mapping. Counts are
// kept from the file but only membership is consulted during matching.
type Dictionary struct {
	pairs map[string]map[string]int
}

// Load reads a dictionary file: one pair per line, whitespace-separated
// source and target token. Files ending in .gz are decompressed. When
// inverted is true, the file's source and target roles are swapped, so a
// trg-src dictionary can serve a src-trg alignment.
func Load(path string, inverted bool) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip dictionary: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	dict, err := LoadReader(reader, inverted)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return dict, nil
}

// LoadReader reads dictionary pairs from r.
func LoadReader(r io.Reader, inverted bool) (*Dictionary, error) {
	dict := &Dictionary{pairs: make(map[string]map[string]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		src, trg := fields[0], fields[1]
		if inverted {
			src, trg = trg, src
		}
		dict.add(strings.ToLower(src), strings.ToLower(trg))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dictionary: %w", err)
	}
	return dict, nil
}

func (d *Dictionary) add(src, trg string) {
	targets, ok := d.pairs[src]
	if !ok {
		targets = make(map[string]int)
		d.pairs[src] = targets
	}
	targets[trg]++
}

// Contains reports whether the pair is present. Lookup is case-insensitive.
func (d *Dictionary) Contains(src, trg string) bool {
	if d == nil {
		return false
	}
	targets, ok := d.pairs[strings.ToLower(src)]
	if !ok {
		return false
	}
	_, ok = targets[strings.ToLower(trg)]
	return ok
}

// Len returns the number of distinct source tokens.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.pairs)
}
