// SPDX-License-Identifier: MPL-2.0

package config

import "context"

var (
	// globalConfig caches the loaded configuration for Get().
	globalConfig *Config
	// configPath remembers where the cached configuration was loaded from.
	configPath string

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string
)

// Load reads the configuration, caching the result for Get(). Errors still
// produce a usable config: the defaults are cached and returned alongside
// the error so callers can warn and continue.
func Load() (*Config, error) {
	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	if err != nil {
		globalConfig = DefaultConfig()
		configPath = ""
		return globalConfig, err
	}
	globalConfig = cfg
	configPath = path
	return cfg, nil
}

// Get returns the cached configuration, loading it on first use. Unlike
// Load, Get never fails: load errors fall back to defaults silently.
func Get() *Config {
	if globalConfig == nil {
		cfg, _ := Load()
		return cfg
	}
	return globalConfig
}

// Path returns the file the cached configuration was loaded from, or empty
// when defaults are in effect.
func Path() string {
	return configPath
}

// Reset clears cached state and test overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	globalConfig = nil
	configPath = ""
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride forces configuration loading from a specific
// file. Used by the --config flag.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}
