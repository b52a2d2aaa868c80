// Package highlight wraps matched spans in a line with ANSI styling
// markers, reusing github.com/fatih/color's attribute codes so the same
// escape sequences the rest of the tool's colored diagnostics use are
// the ones applied to match spans.
package highlight

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/xerg-dev/xerg/internal/engine"
)

func attribute(c engine.Color) color.Attribute {
	switch c {
	case engine.ColorRed:
		return color.FgRed
	case engine.ColorGreen:
		return color.FgGreen
	case engine.ColorBlue:
		return color.FgBlue
	case engine.ColorBold:
		return color.Bold
	default:
		return 0
	}
}

// Line wraps every non-empty match span in line with the color's on/off
// marker, iterating spans left to right. Zero-length spans are skipped:
// they count toward the match decision upstream but have nothing to
// style. spans must be non-overlapping and sorted ascending, exactly as
// regexp.FindAllIndex returns them.
func Line(line string, spans [][]int, c engine.Color) string {
	if c == engine.ColorNone || len(spans) == 0 {
		return line
	}

	attr := attribute(c)
	on := fmt.Sprintf("\x1b[%dm", attr)
	const off = "\x1b[0m"

	var b strings.Builder
	last := 0
	for _, span := range spans {
		start, end := span[0], span[1]
		if start == end {
			continue // zero-length match: nothing to style
		}
		b.WriteString(line[last:start])
		b.WriteString(on)
		b.WriteString(line[start:end])
		b.WriteString(off)
		last = end
	}
	b.WriteString(line[last:])
	return b.String()
}
