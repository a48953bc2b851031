package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Pair is a source/target document pair matched by relative path.
type Pair struct {
	Source string
	Target string
	Rel    string
}

// DiscoverPairs walks the source tree and pairs each document with the file
// at the same relative path under the target tree. A target with the other
// compression variant (.xml vs .xml.gz) also counts; unmatched sources are
// skipped. Results follow the walk's lexical order.
func DiscoverPairs(srcDir, trgDir string) ([]Pair, error) {
	var pairs []Pair
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDocument(path) {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target, ok := findTarget(trgDir, rel)
		if !ok {
			return nil
		}
		pairs = append(pairs, Pair{Source: path, Target: target, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func isDocument(path string) bool {
	return strings.HasSuffix(path, ".xml") || strings.HasSuffix(path, ".xml.gz")
}

func findTarget(trgDir, rel string) (string, bool) {
	candidates := []string{rel}
	if strings.HasSuffix(rel, ".gz") {
		candidates = append(candidates, strings.TrimSuffix(rel, ".gz"))
	} else {
		candidates = append(candidates, rel+".gz")
	}
	for _, c := range candidates {
		path := filepath.Join(trgDir, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// OutputName maps a pair's relative path to its alignment file name.
func OutputName(rel string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(rel, ".gz"), ".xml")
	return base + ".aln.xml"
}
