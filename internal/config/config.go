package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Root              string   `yaml:"root" json:"root"`
	ForceUpdate       bool     `yaml:"force_update" json:"force_update"`
	Recursive         bool     `yaml:"recursive" json:"recursive"`
	IncludeExtensions []string `yaml:"include_extensions" json:"include_extensions"`
	Verify            bool     `yaml:"verify" json:"verify"`
	LogFile           string   `yaml:"log_file" json:"log_file"`
	LogJSON           bool     `yaml:"log_json" json:"log_json"`
}

func DefaultConfig() *Config {
	return &Config{
		Root:              ".",
		IncludeExtensions: []string{"jpg", "jpeg"},
		ForceUpdate:       false,
		Recursive:         false,
		Verify:            false,
		LogFile:           "",
		LogJSON:           false,
	}
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fills defaults and checks that Root is an existing directory.
func (c *Config) Validate() error {
	if c.Root == "" {
		c.Root = "."
	}
	if len(c.IncludeExtensions) == 0 {
		c.IncludeExtensions = []string{"jpg", "jpeg"}
	}

	return CheckRoot(c.Root)
}

// CheckRoot reports an *InvalidRootError unless root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &InvalidRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &InvalidRootError{Path: root}
	}
	return nil
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// InvalidRootError means the root path does not exist or is not a directory.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	return e.Path + " is not a valid directory"
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// AsValidationError maps the error onto the root field.
func (e *InvalidRootError) AsValidationError() *ValidationError {
	return &ValidationError{Field: "root", Message: e.Error()}
}
