// Package pdf draws a paginated canvas into an A4 PDF with gofpdf.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/canvas"
)

// The core PDF fonts only cover cp1252; glyphs outside it are spelled out.
var glyphFallbacks = strings.NewReplacer("₹", "Rs.")

// Writer renders canvases to PDF and measures text with the same font
// metrics, so layout and output agree on line widths.
type Writer struct {
	mu      sync.Mutex
	metrics *gofpdf.Fpdf
	tr      func(string) string
	now     func() time.Time
}

func New() *Writer {
	m := gofpdf.New("P", "mm", "A4", "")
	return &Writer{
		metrics: m,
		tr:      m.UnicodeTranslatorFromDescriptor(""),
		now:     time.Now,
	}
}

// TextWidth implements layout.TextMeasurer. The result is in canvas pixels.
func (w *Writer) TextWidth(text string, font canvas.Font) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.metrics.SetFont(family(font), string(font.Style), font.Size)
	mm := w.metrics.GetStringWidth(w.encode(text))
	return mm * canvas.A4WidthPx / canvas.A4WidthMM
}

// Write draws every page of pl, each showing c shifted up by the page
// offset and clipped to the page, and writes the document to out.
func (w *Writer) Write(out io.Writer, c *canvas.Canvas, pl canvas.Layout, meta domain.DocumentMeta) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCellMargin(0)
	doc.SetCreator("invoicekit", true)
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetKeywords(strings.Join(meta.Keywords, " "), true)
	doc.SetCreationDate(w.now())

	images := w.registerImages(doc, c.Ops())

	for _, page := range pl.Pages {
		doc.AddPage()
		doc.ClipRect(0, 0, pl.PageWidthMM, pl.PageHeightMM, false)
		for _, op := range c.Ops() {
			top := op.Y*pl.Scale - page.OffsetMM
			bottom := op.Bottom()*pl.Scale - page.OffsetMM
			if bottom < 0 || top > pl.PageHeightMM {
				continue
			}
			w.draw(doc, op, pl.Scale, -page.OffsetMM, images)
		}
		doc.ClipEnd()
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("assembling pdf: %w", err)
	}
	if err := doc.Output(out); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (w *Writer) registerImages(doc *gofpdf.Fpdf, ops []canvas.Op) map[*domain.Image]string {
	names := make(map[*domain.Image]string)
	for _, op := range ops {
		if op.Kind != canvas.KindImage || op.Image == nil {
			continue
		}
		if _, ok := names[op.Image]; ok {
			continue
		}
		name := fmt.Sprintf("img%d", len(names))
		doc.RegisterImageOptionsReader(name, imageOptions(op.Image), bytes.NewReader(op.Image.Data))
		names[op.Image] = name
	}
	return names
}

func (w *Writer) draw(doc *gofpdf.Fpdf, op canvas.Op, s, dy float64, images map[*domain.Image]string) {
	switch op.Kind {
	case canvas.KindText:
		doc.SetFont(family(op.Font), string(op.Font.Style), op.Font.Size)
		doc.SetTextColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
		doc.SetXY(op.X*s, op.Y*s+dy)
		doc.CellFormat(op.W*s, op.H*s, w.encode(op.Text), "", 0, align(op.Align), false, 0, "")
	case canvas.KindLine:
		doc.SetDrawColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
		doc.SetLineWidth(op.LineWidth * s)
		doc.Line(op.X*s, op.Y*s+dy, op.X2*s, op.Y2*s+dy)
	case canvas.KindRect:
		style := "D"
		if op.Fill {
			style = "F"
			doc.SetFillColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
		} else {
			doc.SetDrawColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
			doc.SetLineWidth(op.LineWidth * s)
		}
		doc.Rect(op.X*s, op.Y*s+dy, op.W*s, op.H*s, style)
	case canvas.KindImage:
		name, ok := images[op.Image]
		if !ok {
			return
		}
		doc.ImageOptions(name, op.X*s, op.Y*s+dy, op.W*s, op.H*s, false, imageOptions(op.Image), 0, "")
	}
}

func (w *Writer) encode(text string) string {
	return w.tr(glyphFallbacks.Replace(text))
}

func imageOptions(img *domain.Image) gofpdf.ImageOptions {
	return gofpdf.ImageOptions{ImageType: strings.ToUpper(img.Format), ReadDpi: false}
}

func family(f canvas.Font) string {
	if f.Family == "" {
		return "Helvetica"
	}
	return f.Family
}

func align(a canvas.Align) string {
	switch a {
	case canvas.Center:
		return "CM"
	case canvas.Right:
		return "RM"
	}
	return "LM"
}
