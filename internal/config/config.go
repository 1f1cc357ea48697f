// Package config describes the options file for cmd/kicadtool: the
// "global state in the source" design note's answer for settings that
// belong to a CLI session rather than a single parse/import call.
// Nothing below the CLI layer reads this package directly — the parser
// and importer always take an explicit Options struct instead.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/kicad-go/eda-importers/internal/applog"
)

// Config is the top-level options file shape, loaded from an optional
// YAML file and merged over Default().
type Config struct {
	Logging LoggingSection `yaml:"logging"`

	// MaxSchematicVersion caps which dated schematic format version the
	// parser will accept without a FutureFormat warning; 0 means no cap.
	MaxSchematicVersion int `yaml:"max_schematic_version"`

	// NumericLocale selects the decimal-separator convention used when
	// parsing bare numeric tokens that are ambiguous outside their
	// S-expression context.
	NumericLocale string `yaml:"numeric_locale"`

	// LayerRemap supplies non-interactive answers for CADSTAR layers the
	// importer cannot map automatically, keyed by the CADSTAR layer ID.
	LayerRemap map[string]string `yaml:"layer_remap"`
}

// LoggingSection mirrors applog.LoggingConfig with yaml tags; kept as a
// separate type so callers outside internal/config aren't forced to
// import it just to read a config file.
type LoggingSection struct {
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
	FileDestination string `yaml:"file_destination"`
}

// Default returns the built-in configuration used when no file is
// present or a loaded file leaves a field at its zero value.
func Default() Config {
	return Config{
		Logging:             LoggingSection{ConsoleLevel: "normal"},
		MaxSchematicVersion: 0,
		NumericLocale:       "C",
	}
}

// Load reads path as YAML and merges it over Default(). A missing file
// is not an error: it returns the defaults unchanged, matching the
// donor's "nothing below the CLI layer depends on a file existing"
// posture.
func Load(path string) (Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return conf, nil
}

// AppLogConfig converts the logging section into the shape
// internal/applog.Build expects.
func (c Config) AppLogConfig() applog.LoggingConfig {
	return applog.LoggingConfig{
		ConsoleLevel: c.Logging.ConsoleLevel,
		FileLevel:    c.Logging.FileLevel,
		FileDest:     c.Logging.FileDestination,
	}
}
