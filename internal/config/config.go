package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shivarm/code-guardian/internal/types"
)

//go:embed default-config.json
var defaultConfigJSON []byte

// LocalFiles are the repo-local config names, in search order.
var LocalFiles = []string{".codeguardianrc.json", "codeguardian.config.json"}

// SourceDefault names the embedded rule set when it is the config source.
const SourceDefault = "<default>"

// Config is the on-disk JSON configuration.
type Config struct {
	Rules       []types.Rule `json:"rules"`
	IgnoreFiles []string     `json:"ignoreFiles,omitempty"`
}

// NotFoundError reports an explicitly requested config file that does not
// exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return "config file not found: " + e.Path }

// ParseError reports a config file that is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNoLocal = errors.New("no local config")

// Parse decodes a JSON config. source is used in error messages only.
func Parse(b []byte, source string) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, &ParseError{Path: source, Err: err}
	}
	return cfg, nil
}

// LoadFile reads a JSON config file from path.
func LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, &NotFoundError{Path: path}
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(b, path)
}

// LoadLocal searches root for a repo-local config file. It returns the
// config and the path it was read from.
func LoadLocal(root string) (Config, string, error) {
	for _, name := range LocalFiles {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return Config{}, "", errNoLocal
}

// Default returns the embedded default configuration.
func Default() Config {
	cfg, err := Parse(defaultConfigJSON, SourceDefault)
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultJSON returns the embedded default configuration document.
func DefaultJSON() []byte {
	out := make([]byte, len(defaultConfigJSON))
	copy(out, defaultConfigJSON)
	return out
}

// Load resolves the configuration: the explicit path when given (no
// fallback), otherwise the first repo-local file in root, otherwise the
// embedded defaults. The second return value names the source.
func Load(explicit, root string) (Config, string, error) {
	if explicit != "" {
		cfg, err := LoadFile(explicit)
		return cfg, explicit, err
	}
	cfg, p, err := LoadLocal(root)
	switch {
	case err == nil:
		return cfg, p, nil
	case !errors.Is(err, errNoLocal):
		return Config{}, p, err
	}
	return Default(), SourceDefault, nil
}
