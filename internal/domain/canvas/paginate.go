package canvas

import (
	"fmt"
	"math"
)

// A4 page size in millimetres.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// epsilon absorbs float error when the content height is an exact
// multiple of the page height.
const epsilon = 1e-6

// Page is one fixed-size page cut from the continuous canvas. The canvas
// is drawn at vertical offset -OffsetMM.
type Page struct {
	Number   int     // 1-based
	OffsetMM float64 // (Number-1) * page height
}

// Layout is the result of paginating a canvas.
type Layout struct {
	Scale         float64 // millimetres per canvas pixel
	PageWidthMM   float64
	PageHeightMM  float64
	ContentHeight float64 // canvas height in millimetres
	Pages         []Page
}

// Paginate cuts c into pages of pageWidthMM x pageHeightMM. The canvas is
// scaled so its width fills the page width.
func Paginate(c *Canvas, pageWidthMM, pageHeightMM float64) (Layout, error) {
	if c == nil || c.Width() <= 0 {
		return Layout{}, fmt.Errorf("paginating: canvas has no width")
	}
	if pageWidthMM <= 0 || pageHeightMM <= 0 {
		return Layout{}, fmt.Errorf("paginating: page size %gx%gmm is not positive", pageWidthMM, pageHeightMM)
	}
	scale := pageWidthMM / c.Width()
	total := c.Height() * scale
	return Layout{
		Scale:         scale,
		PageWidthMM:   pageWidthMM,
		PageHeightMM:  pageHeightMM,
		ContentHeight: total,
		Pages:         PagesFor(total, pageHeightMM),
	}, nil
}

// PagesFor returns the pages needed to show totalMM of content on pages
// of pageMM: ceil(totalMM/pageMM) pages, at least one, page k at offset
// (k-1)*pageMM. Content that ends exactly on a page boundary does not get
// a trailing blank page.
func PagesFor(totalMM, pageMM float64) []Page {
	if pageMM <= 0 || math.IsNaN(totalMM) || math.IsInf(totalMM, 0) {
		return []Page{{Number: 1}}
	}
	var pages []Page
	remaining := totalMM
	position := 0.0
	for {
		pages = append(pages, Page{Number: len(pages) + 1, OffsetMM: position})
		remaining -= pageMM
		if remaining <= epsilon {
			return pages
		}
		position += pageMM
	}
}
