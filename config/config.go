// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/copyear/copyright"
	"github.com/hashicorp/copyear/sourcedate"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

var (
	// Use a period for delimiting sections of the config, e.g.:
	// project.name or build.source_date_epoch
	delim = "."

	// The top-level key holding the copyright notice. It is read through koanf
	// rather than the Config struct because it may be a string or a list.
	copyrightKey = "copyright"

	// Reported as the origin of the build year when it was pinned in the config
	// or with --source-date-epoch
	sourceDateEpochKey = "build.source_date_epoch"
)

// Project describes the documentation project the notice belongs to
type Project struct {
	Name   string `koanf:"name"`
	Author string `koanf:"author"`
}

// Build holds settings for the build invocation that runs the correction
type Build struct {
	// Seconds since the Unix epoch. Takes precedence over the
	// SOURCE_DATE_EPOCH environment variable when set.
	SourceDateEpoch string `koanf:"source_date_epoch"`
}

// Config is a struct representing the data from a well-defined config file
type Config struct {
	SchemaVersion int     `koanf:"schema_version"`
	Project       Project `koanf:"project"`
	Build         Build   `koanf:"build"`

	// Global koanf instance
	globalKoanf *koanf.Koanf

	// Stores the absolute path of a .copyear.hcl config object, if it exists
	absCfgPath string
}

// New returns a Config object initialized with default values
func New() (*Config, error) {
	k := koanf.New(delim)
	c := &Config{
		globalKoanf: k,
	}

	// Preload default config values
	defaults := map[string]interface{}{
		"schema_version": 1,
	}
	err := c.LoadConfMap(defaults)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// MustNew returns a Config object initialized with default values
// and panics if that is not possible
func MustNew() *Config {
	c, err := New()
	if err != nil {
		panic(err)
	}

	return c
}

// LoadConfMap updates the running config with a key-value map, where
// keys are delimited configuration key references.
//
// Example mapping:
//
//	map[string]interface{}{
//		"schema_version":          2,
//		"copyright":               []string{"2006", "2006-2009, Alice"},
//		"project.name":            "docs",
//		"build.source_date_epoch": "1293839999",
//	}
func (c *Config) LoadConfMap(mp map[string]interface{}) error {
	err := c.globalKoanf.Load(confmap.Provider(mp, delim), nil)
	if err != nil {
		return err
	}

	// Update the global config object with the new values
	err = c.globalKoanf.Unmarshal("", &c)
	if err != nil {
		return err
	}

	return nil
}

// LoadCommandFlags updates the running config with any command-line flags
// based on a mapping of flag names to config keys
//
// Example mapping (flag name: config key):
//
//	mapping := map[string]string{
//		`source-date-epoch`: `build.source_date_epoch`,
//	}
//
// Merge Behavior:
// If a configuration value already exists (e.g., from previously reading a
// .copyear.hcl config file), those values will only be overwritten by default
// flag values if clobberWithDefaults is true. If it is false, only values from
// flags the user explicitly sets will be transferred to the configuration.
//
// Default flag options will be always be loaded if no value was previously set
// in the running configuration. Flags without a mapping are ignored.
func (c *Config) LoadCommandFlags(flagSet *pflag.FlagSet, mapping map[string]string, clobberWithDefaults bool) error {
	// a new/blank koanf.New(delim) is used if we want to load all default flag
	// values, even if that would mean clobbering an already set config value.
	// If we wish to flip that behavior, we pass in the config's Koanf object
	// instead so that no clobbering exists.
	ko := c.globalKoanf
	if clobberWithDefaults {
		ko = koanf.New(delim)
	}

	// Parse out flag values
	p := posflag.ProviderWithFlag(flagSet, delim, ko, func(f *pflag.Flag) (string, interface{}) {
		// Transform the key name based on the provided mapping. An empty key
		// tells posflag to skip the flag entirely.
		key := mapping[f.Name]

		// Retrieve the flag value
		val := posflag.FlagVal(flagSet, f)

		return key, val
	})

	// Load up the new values into the global Koanf instance
	err := c.globalKoanf.Load(p, nil)
	if err != nil {
		return err
	}

	// Update the global config object with the new values
	err = c.globalKoanf.Unmarshal("", &c)
	if err != nil {
		return err
	}

	return nil
}

// LoadConfigFile takes a path to an HCL config file and
// merges it with the running config
//
// Example HCL config:
//
//	schema_version = 1
//	copyright      = ["2006", "2006-2009, Alice"]
//	project {
//		name = "docs"
//	}
func (c *Config) LoadConfigFile(cfgPath string) error {
	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return fmt.Errorf("unable to determine config path: %w", err)
	}
	c.absCfgPath = abs

	// If a config file exists, let's load it
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("config file doesn't exist: %w", err)
	}

	// Load HCL config.
	err = c.globalKoanf.Load(file.Provider(abs), hcl.Parser(true))
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	// Attempt to suss out a Config struct
	err = c.globalKoanf.Unmarshal("", &c)
	if err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// Catch a mistyped copyright entry at load time instead of mid-build
	if _, _, err := c.Copyright(); err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	return nil
}

// Copyright returns the configured copyright notice. The boolean is false when
// no notice is configured.
func (c *Config) Copyright() (copyright.Value, bool, error) {
	if !c.globalKoanf.Exists(copyrightKey) {
		return copyright.Value{}, false, nil
	}

	v, err := copyright.FromRaw(c.globalKoanf.Get(copyrightKey))
	if err != nil {
		return copyright.Value{}, false, fmt.Errorf("invalid %q entry: %w", copyrightKey, err)
	}
	return v, true, nil
}

// SetCopyright replaces the configured copyright notice, keeping whatever shape
// (string or list) the value carries
func (c *Config) SetCopyright(v copyright.Value) error {
	return c.LoadConfMap(map[string]interface{}{
		copyrightKey: v.Raw(),
	})
}

// Override returns the source date override for this build: the configured
// build.source_date_epoch when set, otherwise SOURCE_DATE_EPOCH from the
// environment
func (c *Config) Override() sourcedate.Override {
	return sourcedate.FirstOverride(
		sourcedate.StaticOverride(c.Build.SourceDateEpoch).As(sourceDateEpochKey),
		sourcedate.EnvOverride(),
	)
}

// Sprint returns a textual version of the current running config.
// The string is newline-delimited and contains alphabetical key -> value pairs
func (c *Config) Sprint() string {
	return c.globalKoanf.Sprint()
}

// GetConfigPath returns the absolute path of the last loaded HCL config.
// If LoadConfigFile() has not been called, it will return an empty string.
func (c *Config) GetConfigPath() string {
	return c.absCfgPath
}
