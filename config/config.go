// Package config loads the tinypng-compress configuration file.
//
// The file is JSON. When it is missing or cannot be parsed, a file holding the
// defaults is written in its place and the defaults are used. Keys present in
// the file override the defaults key by key. The API key can also come from
// the TINYPNG_API_KEY environment variable, which wins over the file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dendrascience/tinypng-compress/util"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is where the configuration file lives unless overridden.
	DefaultPath = "./tinypng.config.json"
	// EnvAPIKey names the environment variable that overrides apiKey.
	EnvAPIKey = "TINYPNG_API_KEY"

	DefaultCompressDir     = "./images"
	DefaultConcurrentLimit = 5
)

// DefaultExtensions are the image extensions compressed when none are configured.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("no API key configured: set apiKey in the configuration file")

// Config is the run configuration.
type Config struct {
	APIKey          string   `json:"apiKey" mapstructure:"apiKey"`
	CompressDir     string   `json:"compressDir" mapstructure:"compressDir"`
	Extensions      []string `json:"extensions" mapstructure:"extensions"`
	ConcurrentLimit int      `json:"concurrentLimit" mapstructure:"concurrentLimit"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		APIKey:          "",
		CompressDir:     DefaultCompressDir,
		Extensions:      append([]string(nil), DefaultExtensions...),
		ConcurrentLimit: DefaultConcurrentLimit,
	}
}

// Load reads the configuration file at path.
//
// A missing or corrupt file is replaced by one holding the defaults, and the
// defaults are returned. The returned error only reports a failure to write
// that file; the returned Config is usable either way.
func Load(fsys afero.Fs, path string) (Config, error) {
	v := newViper(fsys, path)
	cfg, err := read(v)
	if err == nil {
		return cfg.normalize(), nil
	}

	var writeErr error
	if err := util.WriteJSONFile(fsys, path, Default()); err != nil {
		writeErr = fmt.Errorf("failed to write default configuration %s: %w", path, err)
	}

	// defaults and environment only
	cfg = Default()
	if err := newViper(fsys, path).Unmarshal(&cfg); err != nil {
		cfg = Default()
	}
	return cfg.normalize(), writeErr
}

func newViper(fsys afero.Fs, path string) *viper.Viper {
	def := Default()
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("apiKey", def.APIKey)
	v.SetDefault("compressDir", def.CompressDir)
	v.SetDefault("extensions", def.Extensions)
	v.SetDefault("concurrentLimit", def.ConcurrentLimit)
	_ = v.BindEnv("apiKey", EnvAPIKey)
	return v
}

func read(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration problems that make a run impossible.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// normalize lowercases the extensions and gives them a leading dot. Values
// that break the invariants fall back to the defaults.
func (c Config) normalize() Config {
	exts := make([]string, 0, len(c.Extensions))
	seen := map[string]bool{}
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		exts = append([]string(nil), DefaultExtensions...)
	}
	c.Extensions = exts

	if c.ConcurrentLimit < 1 {
		c.ConcurrentLimit = DefaultConcurrentLimit
	}
	if strings.TrimSpace(c.CompressDir) == "" {
		c.CompressDir = DefaultCompressDir
	}
	return c
}
