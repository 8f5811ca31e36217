package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Paths []string `yaml:"paths" json:"paths"`

	DryRun       bool `yaml:"dryRun" json:"dryRun"`
	Quiet        bool `yaml:"quiet" json:"quiet"`
	AnyExtension bool `yaml:"anyExtension" json:"anyExtension"`
	References   bool `yaml:"references" json:"references"`
	Verbose      bool `yaml:"verbose" json:"verbose"`

	DeadLinks struct {
		Flag bool   `yaml:"flag" json:"flag"`
		Save string `yaml:"save" json:"save"`
	} `yaml:"deadLinks" json:"deadLinks"`

	Whitelist string `yaml:"whitelist" json:"whitelist"`

	Index struct {
		ReservedTitles []string `yaml:"reservedTitles" json:"reservedTitles"`
	} `yaml:"index" json:"index"`

	Workers int `yaml:"workers" json:"workers"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills fields of cfg that flags left unset. Booleans can only
// be switched on by the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if len(cfg.Paths) == 0 && len(fc.Paths) > 0 {
		cfg.Paths = append([]string{}, fc.Paths...)
	}
	if !cfg.DryRun && fc.DryRun {
		cfg.DryRun = true
	}
	if !cfg.Quiet && fc.Quiet {
		cfg.Quiet = true
	}
	if !cfg.AnyExtension && fc.AnyExtension {
		cfg.AnyExtension = true
	}
	if !cfg.References && fc.References {
		cfg.References = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if !cfg.FlagDeadLinks && fc.DeadLinks.Flag {
		cfg.FlagDeadLinks = true
	}
	if cfg.SaveFlagsPath == "" && fc.DeadLinks.Save != "" {
		cfg.SaveFlagsPath = fc.DeadLinks.Save
	}
	if cfg.WhitelistPath == "" && fc.Whitelist != "" {
		cfg.WhitelistPath = fc.Whitelist
	}
	if cfg.ReservedTitles == nil && fc.Index.ReservedTitles != nil {
		cfg.ReservedTitles = append([]string{}, fc.Index.ReservedTitles...)
	}
	if cfg.Workers == 0 && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
}

// ValidateConfig performs minimal validation before any file is touched.
func ValidateConfig(cfg Config) error {
	if len(cfg.Paths) == 0 {
		return fmt.Errorf("%w: at least one input path is required", ErrInvalidConfig)
	}
	for _, p := range cfg.Paths {
		if trim(p) == "" {
			return fmt.Errorf("%w: empty input path", ErrInvalidConfig)
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: negative worker count", ErrInvalidConfig)
	}
	return nil
}

func trim(s string) string {
	i := 0
	j := len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') {
		j--
	}
	return s[i:j]
}
