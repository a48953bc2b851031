package lexicon

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDict = `house maison
house domicile
dog chien
Cat chat
`

func TestLoadReader(t *testing.T) {
	dict, err := LoadReader(strings.NewReader(sampleDict), false)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	if !dict.Contains("house", "maison") {
		t.Error("expected house/maison")
	}
	if !dict.Contains("house", "domicile") {
		t.Error("expected house/domicile")
	}
	if dict.Contains("maison", "house") {
		t.Error("did not expect inverted pair")
	}
	if !dict.Contains("CAT", "Chat") {
		t.Error("lookup should be case-insensitive")
	}
	if dict.Len() != 3 {
		t.Errorf("Len = %d, want 3", dict.Len())
	}
}

func TestLoadReaderInverted(t *testing.T) {
	dict, err := LoadReader(strings.NewReader(sampleDict), true)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	if !dict.Contains("maison", "house") {
		t.Error("expected maison/house with inverted roles")
	}
	if dict.Contains("house", "maison") {
		t.Error("did not expect original orientation")
	}
}

func TestLoadReaderSkipsMalformedLines(t *testing.T) {
	dict, err := LoadReader(strings.NewReader("lonely\n\ngood pair\n"), false)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if dict.Len() != 1 {
		t.Errorf("Len = %d, want 1", dict.Len())
	}
}

func TestNilDictionary(t *testing.T) {
	var dict *Dictionary
	if dict.Contains("a", "b") {
		t.Error("nil dictionary must contain nothing")
	}
	if dict.Len() != 0 {
		t.Error("nil dictionary length must be 0")
	}
}

func TestLoadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en-fr.dic.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(sampleDict)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	dict, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !dict.Contains("dog", "chien") {
		t.Error("expected dog/chien from gzip dictionary")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en-fr.dic"), []byte(sampleDict), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	path, inverted, err := Resolve(dir, "en", "fr")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if inverted {
		t.Error("direct pair should not be inverted")
	}
	if filepath.Base(path) != "en-fr.dic" {
		t.Errorf("path = %q, want en-fr.dic", path)
	}

	// Asking for the opposite direction finds the same file with roles swapped.
	path, inverted, err = Resolve(dir, "fr", "en-US")
	if err != nil {
		t.Fatalf("Resolve inverted: %v", err)
	}
	if !inverted {
		t.Error("expected inverted resolution")
	}
	if filepath.Base(path) != "en-fr.dic" {
		t.Errorf("path = %q, want en-fr.dic", path)
	}
}

func TestResolveMissing(t *testing.T) {
	if _, _, err := Resolve(t.TempDir(), "en", "fr"); err == nil {
		t.Fatal("expected error for missing dictionary")
	}
}

func TestResolveBadLanguage(t *testing.T) {
	if _, _, err := Resolve(t.TempDir(), "!!", "fr"); err == nil {
		t.Fatal("expected error for unparseable language code")
	}
}
