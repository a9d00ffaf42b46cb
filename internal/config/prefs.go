package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences are optional per-user defaults read from YAML. Pointer fields
// distinguish "unset" from zero values so flags can take precedence.
type Preferences struct {
	NoColor  *bool    `yaml:"no_color"`
	Verbose  *bool    `yaml:"verbose"`
	Format   *string  `yaml:"format"`
	NoCache  *bool    `yaml:"no_cache"`
	NoUnused *bool    `yaml:"no_unused"`
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	MaxBytes *int64   `yaml:"max_bytes"`
}

// LoadPreferences reads a YAML preferences file.
func LoadPreferences(path string) (Preferences, error) {
	var p Preferences
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, &ParseError{Path: path, Err: err}
	}
	return p, nil
}

// GlobalPath returns the location of the global preferences file under
// XDG_CONFIG_HOME or ~/.config, or "" when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "codeguardian", "config.yml")
}

// LoadGlobal loads the global preferences file.
func LoadGlobal() (Preferences, error) {
	p := GlobalPath()
	if p == "" {
		return Preferences{}, errors.New("no config dir")
	}
	if _, err := os.Stat(p); err != nil {
		return Preferences{}, errors.New("no global config")
	}
	return LoadPreferences(p)
}
