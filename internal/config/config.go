// Package config defines the per-instance editor options and loads them
// from YAML or TOML files, environment variables, and live file watching.
package config

import "errors"

// Config errors.
var (
	// ErrUnknownFormat is returned for config files whose extension is
	// not a supported format.
	ErrUnknownFormat = errors.New("unknown config file format")
)

// DefaultRecursionLimit bounds change re-propagation in the sync engine.
// It is a safety margin, not a semantically meaningful number; anything
// that eventually stops recursing is correct.
const DefaultRecursionLimit = 10

// Options configures one editor instance.
type Options struct {
	// ID identifies the instance. Generated when empty.
	ID string `yaml:"id" toml:"id"`

	// Readonly starts the instance in readonly mode.
	Readonly bool `yaml:"readonly" toml:"readonly"`

	// Disabled starts the instance disabled. A disabled instance is
	// also treated as readonly by command dispatch.
	Disabled bool `yaml:"disabled" toml:"disabled"`

	// DefaultMode is the starting mode ("wysiwyg", "source" or "split")
	// when no persisted mode applies.
	DefaultMode string `yaml:"defaultMode" toml:"defaultMode"`

	// SaveModeInStorage persists the mode to the settings store on every
	// change and restores it during initialization.
	SaveModeInStorage bool `yaml:"saveModeInStorage" toml:"saveModeInStorage"`

	// UseSplitMode includes split mode in the toggle cycle.
	UseSplitMode bool `yaml:"useSplitMode" toml:"useSplitMode"`

	// Hotkeys maps command names to chord specifications bound at
	// command registration time. Keys may use any casing; lookups try
	// the original name first, then the lowercased one.
	Hotkeys map[string][]string `yaml:"hotkeys" toml:"hotkeys"`

	// RecursionLimit bounds change re-propagation in the sync engine.
	// Zero means DefaultRecursionLimit.
	RecursionLimit int `yaml:"recursionLimit" toml:"recursionLimit"`

	// Plugins lists enabled plugin names. Empty means every registered
	// plugin.
	Plugins []string `yaml:"plugins" toml:"plugins"`

	// LogLevel sets logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `yaml:"logLevel" toml:"logLevel"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		DefaultMode:    "wysiwyg",
		UseSplitMode:   true,
		RecursionLimit: DefaultRecursionLimit,
		LogLevel:       "info",
	}
}

// HotkeysFor returns the configured chords for a command, trying the
// original name first and the lowercased name second.
func (o Options) HotkeysFor(original, lowered string) []string {
	if hk, ok := o.Hotkeys[original]; ok {
		return hk
	}
	return o.Hotkeys[lowered]
}
