package adimport

import (
	"fmt"
	"unicode/utf8"

	"github.com/heartmarshall/adcatalog-backend/internal/config"
)

// Config holds import run settings.
type Config struct {
	DryRun     bool   `yaml:"dry_run"     env:"IMPORT_DRY_RUN"`
	AppendTags bool   `yaml:"append_tags" env:"IMPORT_APPEND_TAGS"`
	Delimiter  string `yaml:"delimiter"   env:"IMPORT_DELIMITER"`
}

// LoadConfig reads import settings from the YAML file at path, overlaid by
// IMPORT_* environment variables. An empty path reads the environment only.
// Unset options stay at their zero value.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := config.Read(path, &cfg); err != nil {
		return nil, fmt.Errorf("import config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("import config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that Delimiter is empty (auto-detect) or a single usable character.
func (c Config) Validate() error {
	if c.Delimiter == "" {
		return nil
	}
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if size != len(c.Delimiter) || !validDelim(r) {
		return fmt.Errorf("delimiter must be a single character other than quote or newline (got %q)", c.Delimiter)
	}
	return nil
}

// delimiter returns the configured delimiter, or 0 for auto-detect.
func (c Config) delimiter() rune {
	if c.Delimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}
