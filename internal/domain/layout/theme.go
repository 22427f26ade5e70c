package layout

import (
	"fmt"

	"github.com/invoicekit/invoicekit/internal/domain/canvas"
)

// Theme parameterises the single document renderer. Sizes are pixels
// except font sizes, which are points.
type Theme struct {
	Width      float64
	Margin     float64
	Gap        float64
	FontFamily string

	BaseSize    float64
	SmallSize   float64
	HeadingSize float64
	TitleSize   float64
	TotalSize   float64
	LineHeight  float64 // multiple of the font size

	Text       canvas.Color
	Muted      canvas.Color
	Rule       canvas.Color
	HeaderFill canvas.Color
	HeaderText canvas.Color
	Negative   canvas.Color

	LogoHeight      float64
	QRSize          float64
	SignatureHeight float64
	TotalsWidth     float64
	CellPadding     float64
}

// DefaultTheme mirrors the black and white print layout.
func DefaultTheme() Theme {
	return Theme{
		Width:      canvas.A4WidthPx,
		Margin:     56,
		Gap:        24,
		FontFamily: "Helvetica",

		BaseSize:    10,
		SmallSize:   8.5,
		HeadingSize: 12,
		TitleSize:   22,
		TotalSize:   13,
		LineHeight:  1.45,

		Text:       canvas.Color{R: 17, G: 24, B: 39},
		Muted:      canvas.Color{R: 75, G: 85, B: 99},
		Rule:       canvas.Color{R: 209, G: 213, B: 219},
		HeaderFill: canvas.Black,
		HeaderText: canvas.White,
		Negative:   canvas.Color{R: 220, G: 38, B: 38},

		LogoHeight:      64,
		QRSize:          150,
		SignatureHeight: 56,
		TotalsWidth:     280,
		CellPadding:     8,
	}
}

// Validate reports themes that cannot produce a document.
func (t Theme) Validate() error {
	switch {
	case t.Width <= 0:
		return fmt.Errorf("theme width %g must be positive", t.Width)
	case t.Margin < 0 || 2*t.Margin >= t.Width:
		return fmt.Errorf("theme margin %g does not fit width %g", t.Margin, t.Width)
	case t.BaseSize <= 0 || t.SmallSize <= 0 || t.HeadingSize <= 0 || t.TitleSize <= 0 || t.TotalSize <= 0:
		return fmt.Errorf("theme font sizes must be positive")
	case t.LineHeight < 1:
		return fmt.Errorf("theme line height %g must be at least 1", t.LineHeight)
	}
	return nil
}

func (t Theme) font(size float64, style canvas.FontStyle) canvas.Font {
	return canvas.Font{Family: t.FontFamily, Style: style, Size: size}
}

// lineHeight converts a point size to a pixel line box.
func (t Theme) lineHeight(size float64) float64 {
	return size * PxPerPt * t.LineHeight
}

func (t Theme) contentWidth() float64 { return t.Width - 2*t.Margin }
