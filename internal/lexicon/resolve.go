package lexicon

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
)

// Resolve locates an installed dictionary file for a language pair inside
// dir. Language codes are canonicalized through BCP 47 parsing, so "en-US"
// and "eng" both resolve to "en". Candidates are tried in order:
// <src>-<trg>.dic, <src>-<trg>.dic.gz, then the inverted <trg>-<src> pair
// (reported through the inverted flag so the loader can swap roles).
func Resolve(dir, srcLang, trgLang string) (path string, inverted bool, err error) {
	src, err := baseCode(srcLang)
	if err != nil {
		return "", false, err
	}
	trg, err := baseCode(trgLang)
	if err != nil {
		return "", false, err
	}

	candidates := []struct {
		name     string
		inverted bool
	}{
		{src + "-" + trg + ".dic", false},
		{src + "-" + trg + ".dic.gz", false},
		{trg + "-" + src + ".dic", true},
		{trg + "-" + src + ".dic.gz", true},
	}
	for _, c := range candidates {
		candidate := filepath.Join(dir, c.name)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, c.inverted, nil
		}
	}
	return "", false, fmt.Errorf("no dictionary for %s-%s in %s", src, trg, dir)
}

func baseCode(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
