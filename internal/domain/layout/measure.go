package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/invoicekit/invoicekit/internal/domain/canvas"
)

// PxPerPt converts typographic points to CSS pixels.
const PxPerPt = 96.0 / 72.0

// TextMeasurer reports the rendered width of text in pixels.
type TextMeasurer interface {
	TextWidth(text string, font canvas.Font) float64
}

// ApproxMeasurer estimates widths from an average glyph width. It is used
// where no font metrics are available.
type ApproxMeasurer struct{}

func (ApproxMeasurer) TextWidth(text string, font canvas.Font) float64 {
	em := font.Size * PxPerPt
	factor := 0.5
	if strings.Contains(string(font.Style), "B") {
		factor = 0.55
	}
	return float64(utf8.RuneCountInString(text)) * em * factor
}

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept; a single word wider than width gets a line of its own.
func Wrap(m TextMeasurer, text string, font canvas.Font, width float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if m.TextWidth(candidate, font) <= width {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
