// Package config loads layer styles from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/pelletier/go-toml/v2"

	"geoportray/internal/render"
)

var ErrBadColor = errors.New("config: bad color")

// LayerStyle is a style as written in the file. Unset fields inherit.
type LayerStyle struct {
	Paint  *string  `toml:"paint"`
	Scale  *float64 `toml:"scale"`
	Filled *bool    `toml:"filled"`

	// Movable makes the layer rebuild its paths on every draw.
	Movable *bool `toml:"movable"`
}

// Config holds the default style and per layer overrides.
type Config struct {
	Default LayerStyle            `toml:"default"`
	Layers  map[string]LayerStyle `toml:"layers"`

	// LineWidth is the stroke width used by raster output.
	LineWidth float64 `toml:"line_width"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{LineWidth: 1}
}

// Load reads the file at path over Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Decode(b)
}

// Decode parses TOML data over Default and validates colors.
func Decode(data []byte) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := checkPaint("default", c.Default.Paint); err != nil {
		return Config{}, err
	}
	for name, s := range c.Layers {
		if err := checkPaint(name, s.Paint); err != nil {
			return Config{}, err
		}
	}
	if c.LineWidth <= 0 {
		c.LineWidth = 1
	}
	return c, nil
}

// StyleFor returns the style of the named layer: the engine default, then
// the file default, then the layer section.
func (c Config) StyleFor(layer string) render.Style {
	s := render.DefaultStyle()
	apply(&s, c.Default)
	if ls, ok := c.Layers[layer]; ok {
		apply(&s, ls)
	}
	return s
}

// LayerFor returns the style and movability of the named layer, inherited
// the same way as StyleFor.
func (c Config) LayerFor(layer string) render.LayerSettings {
	ls := render.LayerSettings{Style: c.StyleFor(layer)}
	if c.Default.Movable != nil {
		ls.Movable = *c.Default.Movable
	}
	if s, ok := c.Layers[layer]; ok && s.Movable != nil {
		ls.Movable = *s.Movable
	}
	return ls
}

func apply(s *render.Style, ls LayerStyle) {
	if ls.Paint != nil {
		s.Paint = gg.Hex(*ls.Paint).Color()
	}
	if ls.Scale != nil {
		s.Scale = *ls.Scale
	}
	if ls.Filled != nil {
		s.Filled = *ls.Filled
	}
}

func checkPaint(section string, p *string) error {
	if p == nil {
		return nil
	}
	h := strings.TrimPrefix(*p, "#")
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return fmt.Errorf("%w %q in [%s]", ErrBadColor, *p, section)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("%w %q in [%s]", ErrBadColor, *p, section)
		}
	}
	return nil
}
