package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "INKSTONE_"

// LoadFile reads options from a YAML or TOML file, selected by
// extension, on top of the defaults. A missing file is not an error and
// yields the defaults.
func LoadFile(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return Default(), fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &opts); err != nil {
			return Default(), fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return Default(), fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}

	if opts.RecursionLimit <= 0 {
		opts.RecursionLimit = DefaultRecursionLimit
	}
	return opts, nil
}

// ApplyEnv overlays INKSTONE_* environment variables onto the options.
// Unset variables leave the corresponding field untouched.
func ApplyEnv(opts *Options) {
	if v, ok := os.LookupEnv(EnvPrefix + "ID"); ok {
		opts.ID = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DEFAULT_MODE"); ok {
		opts.DefaultMode = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		opts.LogLevel = v
	}
	if v, ok := lookupBool(EnvPrefix + "READONLY"); ok {
		opts.Readonly = v
	}
	if v, ok := lookupBool(EnvPrefix + "DISABLED"); ok {
		opts.Disabled = v
	}
	if v, ok := lookupBool(EnvPrefix + "USE_SPLIT_MODE"); ok {
		opts.UseSplitMode = v
	}
	if v, ok := lookupBool(EnvPrefix + "SAVE_MODE_IN_STORAGE"); ok {
		opts.SaveModeInStorage = v
	}
}

func lookupBool(name string) (bool, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
