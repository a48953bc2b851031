package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DictionaryDir string `toml:"dictionary_dir"`
	CacheDir      string `toml:"cache_dir"`
	LogDir        string `toml:"log_dir"`
}

// Align contains the alignment engine parameters.
type Align struct {
	WindowSize       int     `toml:"window_size"`
	MaxMatches       int     `toml:"max_matches"`
	BestAlign        bool    `toml:"best_align"`
	QualityThreshold float64 `toml:"quality_threshold"`
	// FallbackCommand is an external aligner command template with
	// {source}, {target}, and {output} placeholders. Empty disables the
	// fallback.
	FallbackCommand string `toml:"fallback_command"`
}

// Match contains the lexical matcher configuration.
type Match struct {
	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`
	// Dictionary is an explicit dictionary file path; when empty the
	// language pair is resolved against paths.dictionary_dir.
	Dictionary string `toml:"dictionary"`

	Identical          bool   `toml:"identical"`
	IdenticalMinLength int    `toml:"identical_min_length"`
	TokenPattern       string `toml:"token_pattern"`
	FrequencyWeighting bool   `toml:"frequency_weighting"`

	Cognate          bool    `toml:"cognate"`
	CognateThreshold float64 `toml:"cognate_threshold"`
	CognateMinLength int     `toml:"cognate_min_length"`
	CognateSweep     bool    `toml:"cognate_sweep"`
	CognateSweepHigh float64 `toml:"cognate_sweep_high"`
	CognateSweepLow  float64 `toml:"cognate_sweep_low"`

	UppercaseOnly bool `toml:"uppercase_only"`
}

// Batch contains configuration for the directory-tree batch driver.
type Batch struct {
	Workers      int  `toml:"workers"`
	CacheEnabled bool `toml:"cache_enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the aligner.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Align   Align   `toml:"align"`
	Match   Match   `toml:"match"`
	Batch   Batch   `toml:"batch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subalign/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subalign.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DictionaryDir, err = expandPath(c.Paths.DictionaryDir); err != nil {
		return fmt.Errorf("paths.dictionary_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Match.Dictionary != "" {
		if c.Match.Dictionary, err = expandPath(c.Match.Dictionary); err != nil {
			return fmt.Errorf("match.dictionary: %w", err)
		}
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the directories the aligner writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
