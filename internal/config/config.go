// Package config loads the optional YAML configuration shared by the
// intbound command and the tool server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/intbound/internal/logging"
)

// MaxFileSize bounds the configuration file read from disk.
const MaxFileSize = 1 << 20

// Config holds every tunable. Zero-valued fields take their defaults.
type Config struct {
	// Limit is the search cap; 0 means each family's own default.
	Limit   int    `yaml:"limit" validate:"gte=0,lte=100000"`
	Output  string `yaml:"output" validate:"oneof=sympy latex json"`
	Workers int    `yaml:"workers" validate:"gte=1,lte=256"`
	Log     Log    `yaml:"log"`
	Server  Server `yaml:"server"`
}

type Log struct {
	Level string `yaml:"level" validate:"loglevel"`
	JSON  bool   `yaml:"json"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Output:  "sympy",
		Workers: 4,
		Log:     Log{Level: "info"},
		Server:  Server{Addr: ":8080"},
	}
}

var validate = newValidator()

// newValidator registers loglevel, which accepts whatever logging.ParseLevel
// accepts.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logging.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return cfg, fmt.Errorf("read config: %s is %d bytes, limit is %d", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, which should already hold defaults, and
// validates the result. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	var file Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	merge(cfg, file)
	return cfg.Validate()
}

// merge copies the non-zero fields of file into cfg.
func merge(cfg *Config, file Config) {
	if file.Limit != 0 {
		cfg.Limit = file.Limit
	}
	if file.Output != "" {
		cfg.Output = file.Output
	}
	if file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	if file.Log.JSON {
		cfg.Log.JSON = true
	}
	if file.Server.Addr != "" {
		cfg.Server.Addr = file.Server.Addr
	}
}
