package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/stitch/pkg/core"
)

// DefaultConfigFile is looked up when no config path is given.
const DefaultConfigFile = "stitch.yaml"

// DefaultEnvFile is loaded from the working directory if present.
const DefaultEnvFile = ".env"

// Environment variables that override the config file.
const (
	EnvInputDir    = "STITCH_INPUT_DIR"
	EnvPartialsDir = "STITCH_PARTIALS_DIR"
	EnvOutputDir   = "STITCH_OUTPUT_DIR"
	EnvPort        = "STITCH_PORT"
)

// FileConfig is the on-disk configuration. Zero values mean "use the default".
type FileConfig struct {
	InputDir           string   `yaml:"input_dir"`
	PartialsDir        string   `yaml:"partials_dir"`
	OutputDir          string   `yaml:"output_dir"`
	Placeholder        string   `yaml:"placeholder"`
	Marker             string   `yaml:"marker"`
	Port               int      `yaml:"port"`
	Ignore             []string `yaml:"ignore"`
	PartialsInvalidate bool     `yaml:"partials_invalidate"`

	// Source is the file the values were read from, empty if none.
	Source string `yaml:"-"`
}

// LoadConfig resolves the configuration for one invocation.
//
// An explicit path must exist. An empty path searches for stitch.yaml from
// the working directory upwards (see FindConfig) and falls back to defaults
// when there is none. Relative directories in the file are resolved against
// the file's directory. The .env file and STITCH_* variables are applied
// last.
func LoadConfig(path string) (*FileConfig, error) {
	if err := loadEnvFile(DefaultEnvFile); err != nil {
		return nil, err
	}

	cfg := &FileConfig{}
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		if found, err := FindConfig(cwd); err == nil {
			path = found
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, &core.ConfigError{Key: "config", Err: err}
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *FileConfig) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &core.ConfigError{Key: "config", Err: err}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &core.ConfigError{Key: "config", Err: fmt.Errorf("failed to parse %s: %w", path, err)}
	}
	c.Source = path

	base := filepath.Dir(path)
	for _, dir := range []*string{&c.InputDir, &c.PartialsDir, &c.OutputDir} {
		*dir = os.ExpandEnv(*dir)
		if *dir != "" && !filepath.IsAbs(*dir) {
			*dir = filepath.Join(base, *dir)
		}
	}
	return nil
}

func (c *FileConfig) applyEnv() error {
	if v := os.Getenv(EnvInputDir); v != "" {
		c.InputDir = v
	}
	if v := os.Getenv(EnvPartialsDir); v != "" {
		c.PartialsDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &core.ConfigError{Key: EnvPort, Err: err}
		}
		c.Port = port
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *FileConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return &core.ConfigError{Key: "port", Err: fmt.Errorf("%d is out of range", c.Port)}
	}
	if c.InputDir != "" && c.OutputDir != "" && filepath.Clean(c.InputDir) == filepath.Clean(c.OutputDir) {
		return &core.ConfigError{Key: "output_dir", Err: errors.New("must differ from input_dir")}
	}
	return nil
}

// Options translates the non-default values into functional options.
func (c *FileConfig) Options() []Option {
	var opts []Option
	if c.InputDir != "" {
		opts = append(opts, WithInputDir(c.InputDir))
	}
	if c.PartialsDir != "" {
		opts = append(opts, WithPartialsDir(c.PartialsDir))
	}
	if c.OutputDir != "" {
		opts = append(opts, WithOutputDir(c.OutputDir))
	}
	if c.Placeholder != "" {
		opts = append(opts, WithPlaceholder(c.Placeholder))
	}
	if c.Marker != "" {
		opts = append(opts, WithMarker(c.Marker))
	}
	if len(c.Ignore) > 0 {
		opts = append(opts, WithIgnore(c.Ignore...))
	}
	if c.PartialsInvalidate {
		opts = append(opts, WithPartialsInvalidate(true))
	}
	return opts
}

// loadEnvFile loads KEY=VALUE pairs without overriding the process
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return &core.ConfigError{Key: path, Err: err}
}
