package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/labels"
	"github.com/gardar/labelsort/pkg/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIdentifier(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.validateLabels(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.validateOverlay(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) validateIdentifier() error {
	id := c.Identifier
	if id.MinLength < 1 {
		return errors.New("identifier.min_length must be at least 1")
	}
	if _, err := ident.NewMatcher(id.GuidePattern, id.MinLength); err != nil {
		return fmt.Errorf("identifier.guide_pattern: %w", err)
	}
	if _, err := ident.NewMatcher(id.LabelPattern, id.MinLength); err != nil {
		return fmt.Errorf("identifier.label_pattern: %w", err)
	}
	prefix := strings.TrimSpace(id.InjectPrefix)
	if prefix != "" && !strings.EqualFold(prefix, NoPrefix) && ident.Normalize(prefix) != prefix {
		return fmt.Errorf("identifier.inject_prefix %q may only contain A-Z, 0-9 and '-'", id.InjectPrefix)
	}
	return nil
}

func (c *Config) validateLabels() error {
	found := false
	for _, m := range c.Labels.Markers {
		if strings.TrimSpace(m) != "" {
			found = true
			break
		}
	}
	if !found {
		return errors.New("labels.markers must list at least one marker")
	}
	if _, err := labels.ParsePolicy(c.Labels.UnidentifiedPolicy); err != nil {
		return fmt.Errorf("labels.unidentified_policy: %w", err)
	}
	return nil
}

func (c *Config) validateOverlay() error {
	o := c.Overlay
	if o.Scale <= 0 {
		return errors.New("overlay.scale must be positive")
	}
	if o.Margin < 0 {
		return errors.New("overlay.margin must not be negative")
	}
	if o.FontSize <= 0 {
		return errors.New("overlay.font_size must be positive")
	}
	if strings.TrimSpace(o.FontName) == "" {
		return errors.New("overlay.font_name must be set")
	}
	switch o.FontStyle {
	case "", "B", "I", "BI", "IB":
	default:
		return fmt.Errorf("overlay.font_style %q must be one of \"\", B, I, BI", o.FontStyle)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	return nil
}
