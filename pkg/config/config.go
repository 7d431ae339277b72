package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "batch-export.yml"

// DefaultExtension is the document suffix processed when none is configured.
const DefaultExtension = ".vdoc"

// Config defines the settings of a batch export run.
type Config struct {
	SourceDir  string `yaml:"source_dir,omitempty" jsonschema:"description=Folder to batch. Empty means ask at startup."`
	Extension  string `yaml:"extension" jsonschema:"description=Case-sensitive file name suffix of the documents to process,default=.vdoc"`
	PNGWidths  []int  `yaml:"png_widths" jsonschema:"description=PNG widths in pixels at 72 DPI; one PNG per artboard per width"`
	ShowTiming bool   `yaml:"show_timing,omitempty" jsonschema:"description=Report the run duration when no error occurred"`
	Manifest   string `yaml:"manifest,omitempty" jsonschema:"description=Write a markdown manifest of the exported files to this path"`
}

// Default returns a Config with the stock extension and PNG widths.
func Default() Config {
	return Config{
		Extension: DefaultExtension,
		PNGWidths: []int{24, 32, 48, 72, 96, 120, 144, 192, 240, 480},
	}
}

// Load reads a YAML config file over the defaults. When path is empty, FileName
// in the working directory is tried and a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.SourceDir != "" && !filepath.IsAbs(cfg.SourceDir) {
		cfg.SourceDir = filepath.Join(filepath.Dir(path), cfg.SourceDir)
	}

	return cfg, cfg.Validate()
}

// Validate rejects an empty extension and non-positive PNG widths.
func (c Config) Validate() error {
	if c.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	for _, w := range c.PNGWidths {
		if w <= 0 {
			return fmt.Errorf("PNG width must be positive, got %d", w)
		}
	}
	return nil
}

// ParseWidths parses a comma-separated list of PNG widths.
// An empty list yields no widths.
func ParseWidths(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	widths := make([]int, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		w, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid PNG width %q: %w", trimmed, err)
		}
		if w <= 0 {
			return nil, fmt.Errorf("PNG width must be positive, got %d", w)
		}

		widths = append(widths, w)
	}

	return widths, nil
}

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Batch Export Configuration"
	schema.Description = "Configuration for batch-export, read from " + FileName + "."

	return json.MarshalIndent(schema, "", "  ")
}
