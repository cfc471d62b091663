// Package config loads labelsort settings from YAML or TOML files.
//
// Every field has a working default, so a config file only needs to list
// what differs. Command-line flags are applied on top of the loaded file by
// the caller.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gardar/labelsort/pkg/assemble"
	"github.com/gardar/labelsort/pkg/fileutil"
	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/labels"
	"github.com/gardar/labelsort/pkg/overlay"
)

//go:embed sample_config.yaml
var sampleYAML string

//go:embed sample_config.toml
var sampleTOML string

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// NoPrefix disables prefix injection when used as inject_prefix.
const NoPrefix = "none"

// Identifier configures identifier extraction and canonicalization.
type Identifier struct {
	InjectPrefix string `yaml:"inject_prefix" toml:"inject_prefix"`
	PrefixMarker string `yaml:"prefix_marker" toml:"prefix_marker"`
	GuidePattern string `yaml:"guide_pattern" toml:"guide_pattern"`
	LabelPattern string `yaml:"label_pattern" toml:"label_pattern"`
	MinLength    int    `yaml:"min_length" toml:"min_length"`
}

// Labels configures label detection in the source document.
type Labels struct {
	Markers            []string `yaml:"markers" toml:"markers"`
	UnidentifiedPolicy string   `yaml:"unidentified_policy" toml:"unidentified_policy"`
	LookaheadFirst     bool     `yaml:"lookahead_first" toml:"lookahead_first"`
}

// Overlay configures the stamp drawn on label pages.
type Overlay struct {
	Scale           float64 `yaml:"scale" toml:"scale"`
	Margin          float64 `yaml:"margin" toml:"margin"`
	VerticalOffset  float64 `yaml:"vertical_offset" toml:"vertical_offset"`
	TextX           float64 `yaml:"text_x" toml:"text_x"`
	TextRise        float64 `yaml:"text_rise" toml:"text_rise"`
	FontName        string  `yaml:"font_name" toml:"font_name"`
	FontStyle       string  `yaml:"font_style" toml:"font_style"`
	FontSize        float64 `yaml:"font_size" toml:"font_size"`
	DuplicateMarker string  `yaml:"duplicate_marker" toml:"duplicate_marker"`
}

// Output configures the assembled document.
type Output struct {
	IncludeRemainderPages bool `yaml:"include_remainder_pages" toml:"include_remainder_pages"`
	Overwrite             bool `yaml:"overwrite" toml:"overwrite"`
}

// Logging configures the structured logger.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config is the complete labelsort configuration.
type Config struct {
	Identifier Identifier `yaml:"identifier" toml:"identifier"`
	Labels     Labels     `yaml:"labels" toml:"labels"`
	Overlay    Overlay    `yaml:"overlay" toml:"overlay"`
	Output     Output     `yaml:"output" toml:"output"`
	Logging    Logging    `yaml:"logging" toml:"logging"`
}

// Default returns the stock configuration.
func Default() Config {
	geom := overlay.DefaultGeometry()
	return Config{
		Identifier: Identifier{
			InjectPrefix: ident.DefaultCanonicalizer.Prefix,
			PrefixMarker: ident.DefaultCanonicalizer.Marker,
			GuidePattern: ident.DefaultGuidePattern,
			LabelPattern: ident.DefaultLabelPattern,
			MinLength:    ident.DefaultMinLength,
		},
		Labels: Labels{
			Markers:            append([]string(nil), labels.DefaultMarkers...),
			UnidentifiedPolicy: string(labels.DropUnidentified),
		},
		Overlay: Overlay{
			Scale:           geom.Scale,
			Margin:          geom.Margin,
			VerticalOffset:  geom.VerticalOffset,
			TextX:           geom.TextX,
			TextRise:        geom.TextRise,
			FontName:        geom.Font.Name,
			FontStyle:       geom.Font.Style,
			FontSize:        geom.Font.Size,
			DuplicateMarker: geom.DuplicateMarker,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults. The format is chosen by extension:
// .yaml/.yml or .toml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves the defaults untouched
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q (want .yaml, .yml or .toml)", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sample returns the commented sample configuration in the given format.
func Sample(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		return sampleYAML, nil
	case "toml":
		return sampleTOML, nil
	default:
		return "", fmt.Errorf("unsupported config format %q (want yaml or toml)", format)
	}
}

// CreateSample writes the sample configuration to path. The format follows
// the file extension.
func CreateSample(path string, overwrite bool) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	sample, err := Sample(format)
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, []byte(sample), 0o644, overwrite); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Canonicalizer returns the identifier canonical form.
func (c *Config) Canonicalizer() ident.Canonicalizer {
	prefix := strings.TrimSpace(c.Identifier.InjectPrefix)
	if strings.EqualFold(prefix, NoPrefix) {
		return ident.Canonicalizer{}
	}
	return ident.Canonicalizer{Prefix: prefix, Marker: c.Identifier.PrefixMarker}
}

// GuideMatcher compiles the guide pattern.
func (c *Config) GuideMatcher() (*ident.Matcher, error) {
	return ident.NewMatcher(c.Identifier.GuidePattern, c.Identifier.MinLength)
}

// LabelOptions returns the label indexer options.
func (c *Config) LabelOptions() (labels.Options, error) {
	m, err := ident.NewMatcher(c.Identifier.LabelPattern, c.Identifier.MinLength)
	if err != nil {
		return labels.Options{}, err
	}
	policy, err := labels.ParsePolicy(c.Labels.UnidentifiedPolicy)
	if err != nil {
		return labels.Options{}, err
	}
	return labels.Options{
		Markers:        append([]string(nil), c.Labels.Markers...),
		Matcher:        m,
		Canon:          c.Canonicalizer(),
		Unidentified:   policy,
		LookaheadFirst: c.Labels.LookaheadFirst,
	}, nil
}

// Geometry returns the overlay layout.
func (c *Config) Geometry() overlay.Geometry {
	return overlay.Geometry{
		Scale:          c.Overlay.Scale,
		Margin:         c.Overlay.Margin,
		VerticalOffset: c.Overlay.VerticalOffset,
		TextX:          c.Overlay.TextX,
		TextRise:       c.Overlay.TextRise,
		Font: overlay.Font{
			Name:  c.Overlay.FontName,
			Style: c.Overlay.FontStyle,
			Size:  c.Overlay.FontSize,
		},
		DuplicateMarker: c.Overlay.DuplicateMarker,
	}
}

// AssembleOptions returns the plan options.
func (c *Config) AssembleOptions() assemble.Options {
	return assemble.Options{IncludeRemainder: c.Output.IncludeRemainderPages}
}
