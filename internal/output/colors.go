package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements of the
// counter table.
type ColorScheme struct {
	Header  *color.Color
	Section *color.Color
	Name    *color.Color
	Kind    *color.Color
	Value   *color.Color
	NoData  *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:  color.New(color.FgWhite, color.Bold),
		Section: color.New(color.FgCyan),
		Name:    color.New(color.FgBlue, color.Bold),
		Kind:    color.New(color.FgYellow),
		Value:   color.New(color.FgGreen),
		NoData:  color.New(color.FgRed),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Header.DisableColor()
	scheme.Section.DisableColor()
	scheme.Name.DisableColor()
	scheme.Kind.DisableColor()
	scheme.Value.DisableColor()
	scheme.NoData.DisableColor()

	return scheme
}
