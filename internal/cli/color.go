package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// ColorMode selects whether terminal output is colored.
type ColorMode int

const (
	// ColorAuto colors output unless NO_COLOR is set, TERM is dumb or stdout is not a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on.
	ColorAlways
	// ColorNever forces colors off.
	ColorNever
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors reports whether to use colors for mode in the current environment.
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

// styles holds the color attributes used for search output.
type styles struct {
	match *color.Color
	title *color.Color
	dim   *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		match: color.New(color.FgYellow, color.Bold),
		title: color.New(color.Bold),
		dim:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.match, s.title, s.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}
