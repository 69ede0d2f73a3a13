package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the catalog format from the file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown format '%s' — must be one of: json, yaml, toml", s)
	}
}

// ConfigError reports a catalog that could not be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("loading config %s: %s", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads, decodes and validates a save catalog.
// Any failure is returned as a *ConfigError.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("reading: %w", err)}
	}

	cat, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cat, nil
}

// Parse decodes and validates catalog data in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	var raw rawCatalog
	if err := decode(data, format, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", format, err)
	}

	errs := validateRaw(raw)
	cat := raw.catalog()
	errs = append(errs, Validate(cat)...)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cat, nil
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// Encode serializes a catalog in the given format.
func Encode(cat *Catalog, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(cat)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cat); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(cat, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// validateRaw checks that required keys are present.
func validateRaw(raw rawCatalog) []string {
	var errs []string
	for i, e := range raw.Saves {
		prefix := entryPrefix(i, deref(e.Tag))
		if e.Paths == nil {
			errs = append(errs, fmt.Sprintf("%s: 'paths' is required — add windows, linux and macos paths", prefix))
			continue
		}
		if e.Paths.Windows == nil {
			errs = append(errs, fmt.Sprintf("%s: 'paths.windows' is required", prefix))
		}
		if e.Paths.Linux == nil {
			errs = append(errs, fmt.Sprintf("%s: 'paths.linux' is required", prefix))
		}
		if e.Paths.MacOS == nil {
			errs = append(errs, fmt.Sprintf("%s: 'paths.macos' is required", prefix))
		}
	}
	return errs
}

// Validate checks a Catalog for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cat *Catalog) []string {
	var errs []string

	for i, e := range cat.Saves {
		prefix := entryPrefix(i, e.Tag)

		if strings.TrimSpace(e.Tag) == "" {
			errs = append(errs, fmt.Sprintf("%s: 'tag' is required", prefix))
		}

		for _, pattern := range e.Exclude {
			if !doublestar.ValidatePattern(pattern) {
				errs = append(errs, fmt.Sprintf("%s: invalid exclude pattern '%s'", prefix, pattern))
			}
		}
	}

	return errs
}

func entryPrefix(i int, tag string) string {
	if tag != "" {
		return fmt.Sprintf("save[%d] '%s'", i, tag)
	}
	return fmt.Sprintf("save[%d]", i)
}
