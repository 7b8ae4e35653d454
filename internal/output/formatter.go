// Package output renders counter snapshots for terminal display.
package output

import (
	"fmt"
	"strings"

	"github.com/replisys/perfcounter/internal/counter"
	"github.com/replisys/perfcounter/internal/stats"
)

// Formatter renders registry snapshots as a text table.
type Formatter struct {
	scheme *ColorScheme
}

// NewFormatter creates a formatter. With noColor set, all output is
// plain text.
func NewFormatter(noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{scheme: scheme}
}

// FormatSnapshot renders one row per counter.
//
// Number counters show their running total, rate counters their rate
// since the previous read (the read consumes the window, as monitoring
// reads are expected to), and percentile counters one column per tracked
// percentile.
func (f *Formatter) FormatSnapshot(counters []counter.Counter) string {
	var buf strings.Builder

	buf.WriteString(f.scheme.Header.Sprintf("%-32s %-10s %s", "COUNTER", "KIND", "VALUE"))
	buf.WriteString("\n")

	for _, c := range counters {
		qualified := fmt.Sprintf("%s.%s", f.scheme.Section.Sprint(c.Section()), f.scheme.Name.Sprint(c.Name()))
		// Sprint adds invisible escape codes, so pad against the raw width.
		pad := 32 - len(c.Section()) - len(c.Name()) - 1
		if pad < 1 {
			pad = 1
		}

		buf.WriteString(qualified)
		buf.WriteString(strings.Repeat(" ", pad))
		buf.WriteString(f.scheme.Kind.Sprintf("%-10s", c.Kind()))
		buf.WriteString(" ")
		buf.WriteString(f.formatValue(c))
		buf.WriteString("\n")
	}

	return buf.String()
}

func (f *Formatter) formatValue(c counter.Counter) string {
	switch c.Kind() {
	case counter.Number:
		return f.scheme.Value.Sprintf("%.0f", c.Value())
	case counter.Rate:
		return f.scheme.Value.Sprintf("%.2f/s", c.Value())
	case counter.Percentile:
		parts := make([]string, 0, len(stats.Percentiles()))
		for _, p := range stats.Percentiles() {
			v := c.Percentile(p)
			if v == stats.NoValue {
				parts = append(parts, fmt.Sprintf("%s=%s", p, f.scheme.NoData.Sprint("n/a")))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%s", p, f.scheme.Value.Sprintf("%.0f", v)))
		}
		return strings.Join(parts, " ")
	}
	return f.scheme.NoData.Sprint("?")
}
