package render

import (
	"strconv"
	"strings"

	"mad-ising/internal/core"
)

// Glyphs maps spin values to display runes. Values without a glyph are
// printed numerically.
type Glyphs map[float64]string

// DefaultGlyphs renders binary spins as arrows.
var DefaultGlyphs = Glyphs{-1: "v", 1: "^"}

// Text renders the grid one row per line with cells separated by spaces.
func Text(g *core.SpinGrid, glyphs Glyphs) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	for _, row := range g.Rows() {
		for c, v := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if s, ok := glyphs[v]; ok {
				b.WriteString(s)
				continue
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
