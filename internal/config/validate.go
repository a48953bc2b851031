package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlign(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAlign() error {
	if c.Align.WindowSize <= 0 {
		return errors.New("align.window_size must be positive")
	}
	if c.Align.MaxMatches < 0 {
		return errors.New("align.max_matches must not be negative")
	}
	if c.Align.QualityThreshold < 0 {
		return errors.New("align.quality_threshold must not be negative")
	}
	return nil
}

func (c *Config) validateMatch() error {
	if c.Match.IdenticalMinLength < 0 {
		return errors.New("match.identical_min_length must not be negative")
	}
	if c.Match.CognateThreshold < 0 || c.Match.CognateThreshold > 1 {
		return errors.New("match.cognate_threshold must be between 0 and 1")
	}
	if c.Match.CognateMinLength < 0 {
		return errors.New("match.cognate_min_length must not be negative")
	}
	if c.Match.CognateSweepHigh < 0 || c.Match.CognateSweepHigh > 1 {
		return errors.New("match.cognate_sweep_high must be between 0 and 1")
	}
	if c.Match.CognateSweepLow < 0 || c.Match.CognateSweepLow > 1 {
		return errors.New("match.cognate_sweep_low must be between 0 and 1")
	}
	if c.Match.CognateSweep && c.Match.CognateSweepHigh < c.Match.CognateSweepLow {
		return errors.New("match.cognate_sweep_high must not be below match.cognate_sweep_low")
	}
	if c.Match.TokenPattern != "" {
		if _, err := regexp.Compile(c.Match.TokenPattern); err != nil {
			return fmt.Errorf("match.token_pattern: %w", err)
		}
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be positive")
	}
	return nil
}
