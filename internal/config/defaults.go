package config

const (
	defaultDictionaryDir      = "~/.local/share/subalign/dictionaries"
	defaultCacheDir           = "~/.local/share/subalign/cache"
	defaultLogDir             = "~/.local/share/subalign/logs"
	defaultWindowSize         = 25
	defaultMaxMatches         = 10
	defaultQualityThreshold   = 2.0
	defaultIdenticalMinLength = 4
	defaultCognateThreshold   = 0.7
	defaultCognateMinLength   = 5
	defaultCognateSweepHigh   = 0.9
	defaultCognateSweepLow    = 0.5
	defaultBatchWorkers       = 1
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DictionaryDir: defaultDictionaryDir,
			CacheDir:      defaultCacheDir,
			LogDir:        defaultLogDir,
		},
		Align: Align{
			WindowSize:       defaultWindowSize,
			MaxMatches:       defaultMaxMatches,
			BestAlign:        true,
			QualityThreshold: defaultQualityThreshold,
		},
		Match: Match{
			Identical:          true,
			IdenticalMinLength: defaultIdenticalMinLength,
			Cognate:            true,
			CognateThreshold:   defaultCognateThreshold,
			CognateMinLength:   defaultCognateMinLength,
			CognateSweepHigh:   defaultCognateSweepHigh,
			CognateSweepLow:    defaultCognateSweepLow,
		},
		Batch: Batch{
			Workers:      defaultBatchWorkers,
			CacheEnabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
