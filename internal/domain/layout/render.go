// Package layout lays a document Description out on one continuous
// canvas. It is the only renderer: the PDF, the print path and the
// previews all draw what it produces.
package layout

import (
	"fmt"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/canvas"
	"github.com/invoicekit/invoicekit/internal/domain/document"
)

// SignatureCaption is printed under the signature image.
const SignatureCaption = "Authorized Signature"

// Render draws desc onto a new canvas of theme.Width. A nil measurer
// falls back to ApproxMeasurer.
func Render(desc document.Description, theme Theme, m TextMeasurer) (*canvas.Canvas, error) {
	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("rendering invoice: %w", err)
	}
	if len(desc.Columns) == 0 {
		return nil, fmt.Errorf("rendering invoice: items table has no columns")
	}
	if m == nil {
		m = ApproxMeasurer{}
	}

	r := &renderer{c: canvas.New(theme.Width), t: theme, m: m, y: theme.Margin}
	r.header(desc)
	r.parties(desc.From, desc.BillTo)
	r.items(desc.Columns, desc.Rows)
	r.totals(desc.Totals)
	r.payment(desc.Payment)
	r.paragraph("Notes", desc.Notes)
	r.paragraph("Terms", desc.Terms)
	r.signature(desc.Signature)
	r.footer(desc.Footer)
	r.c.Extend(r.y + theme.Margin)
	return r.c, nil
}

type renderer struct {
	c *canvas.Canvas
	t Theme
	m TextMeasurer
	y float64
}

func (r *renderer) left() float64  { return r.t.Margin }
func (r *renderer) right() float64 { return r.t.Width - r.t.Margin }

// text draws one line at the current y inside [x, x+w) and returns the
// line height used.
func (r *renderer) text(x, y, w float64, s string, f canvas.Font, color canvas.Color, align canvas.Align) float64 {
	h := r.t.lineHeight(f.Size)
	r.c.Text(x, y, w, h, s, f, color, align)
	return h
}

func (r *renderer) header(desc document.Description) {
	t := r.t
	top := r.y
	leftBottom := top

	if desc.Logo != nil {
		w, h := fit(desc.Logo, t.LogoHeight*3, t.LogoHeight)
		r.c.Image(r.left(), top, w, h, desc.Logo)
		leftBottom = top + h
	}

	y := top
	y += r.text(r.left(), y, t.contentWidth(), desc.Title, t.font(t.TitleSize, canvas.Bold), t.Text, canvas.Right)
	for _, f := range desc.Meta {
		y += r.text(r.left(), y, t.contentWidth(), f.Label+": "+f.Value, t.font(t.BaseSize, canvas.Regular), t.Muted, canvas.Right)
	}

	r.y = max(leftBottom, y) + t.Gap/2
	r.c.Line(r.left(), r.y, r.right(), r.y, 1, t.Text)
	r.y += t.Gap
}

func (r *renderer) parties(from, to document.Party) {
	colW := (r.t.contentWidth() - r.t.Gap) / 2
	a := r.party(r.left(), r.y, colW, from)
	b := r.party(r.left()+colW+r.t.Gap, r.y, colW, to)
	r.y = max(a, b) + r.t.Gap
}

func (r *renderer) party(x, y, w float64, p document.Party) float64 {
	t := r.t
	y += r.text(x, y, w, p.Heading, t.font(t.HeadingSize, canvas.Bold), t.Text, canvas.Left)
	y += r.text(x, y, w, p.Name, t.font(t.BaseSize, canvas.Bold), t.Text, canvas.Left)
	for _, line := range p.Lines {
		for _, wrapped := range Wrap(r.m, line, t.font(t.BaseSize, canvas.Regular), w) {
			y += r.text(x, y, w, wrapped, t.font(t.BaseSize, canvas.Regular), t.Muted, canvas.Left)
		}
	}
	return y
}

func (r *renderer) items(cols []document.Column, rows []document.Row) {
	t := r.t
	xs, ws := r.columns(cols)
	pad := t.CellPadding

	headFont := t.font(t.BaseSize, canvas.Bold)
	headH := t.lineHeight(t.BaseSize) + 2*pad
	r.c.Rect(r.left(), r.y, t.contentWidth(), headH, t.HeaderFill, true)
	for i, col := range cols {
		r.text(xs[i]+pad, r.y+pad, ws[i]-2*pad, col.Header, headFont, t.HeaderText, cellAlign(col.Align))
	}
	r.y += headH

	bodyFont := t.font(t.BaseSize, canvas.Regular)
	detailFont := t.font(t.SmallSize, canvas.Regular)
	for _, row := range rows {
		top := r.y + pad
		bottom := top
		for i, col := range cols {
			if i >= len(row.Cells) {
				break
			}
			y := top
			font := bodyFont
			if i == 0 {
				font = t.font(t.BaseSize, canvas.Bold)
			}
			for _, line := range Wrap(r.m, row.Cells[i], font, ws[i]-2*pad) {
				y += r.text(xs[i]+pad, y, ws[i]-2*pad, line, font, t.Text, cellAlign(col.Align))
			}
			if i == 0 && row.Detail != "" {
				for _, line := range Wrap(r.m, row.Detail, detailFont, ws[i]-2*pad) {
					y += r.text(xs[i]+pad, y, ws[i]-2*pad, line, detailFont, t.Muted, canvas.Left)
				}
			}
			bottom = max(bottom, y)
		}
		r.y = bottom + pad
		r.c.Line(r.left(), r.y, r.right(), r.y, 0.75, t.Rule)
	}
	r.y += t.Gap
}

// columns splits the content width by column weight.
func (r *renderer) columns(cols []document.Column) (xs, ws []float64) {
	var total float64
	for _, c := range cols {
		total += c.Weight
	}
	x := r.left()
	for _, c := range cols {
		w := r.t.contentWidth() / float64(len(cols))
		if total > 0 {
			w = r.t.contentWidth() * c.Weight / total
		}
		xs = append(xs, x)
		ws = append(ws, w)
		x += w
	}
	return xs, ws
}

func (r *renderer) totals(rows []document.TotalRow) {
	t := r.t
	x := r.right() - t.TotalsWidth
	for _, row := range rows {
		font := t.font(t.BaseSize, canvas.Regular)
		color := t.Text
		if row.Emphasis {
			r.y += 4
			r.c.Line(x, r.y, r.right(), r.y, 1, t.Text)
			r.y += 6
			font = t.font(t.TotalSize, canvas.Bold)
		}
		if row.Negative {
			color = t.Negative
		}
		r.text(x, r.y, t.TotalsWidth, row.Label, font, color, canvas.Left)
		r.y += r.text(x, r.y, t.TotalsWidth, row.Value, font, color, canvas.Right)
	}
	r.y += t.Gap
}

func (r *renderer) payment(p *document.PaymentBlock) {
	if p == nil || p.QR == nil {
		return
	}
	t := r.t
	size := t.QRSize
	r.c.Image(r.left(), r.y, size, size, p.QR)
	r.y += size + 4
	r.y += r.text(r.left(), r.y, size, p.Caption, t.font(t.HeadingSize, canvas.Bold), t.Text, canvas.Center)
	if p.Payee != "" {
		r.y += r.text(r.left(), r.y, t.contentWidth(), p.Payee, t.font(t.SmallSize, canvas.Regular), t.Muted, canvas.Left)
	}
	r.y += t.Gap
}

func (r *renderer) paragraph(heading, body string) {
	if body == "" {
		return
	}
	t := r.t
	r.y += r.text(r.left(), r.y, t.contentWidth(), heading, t.font(t.HeadingSize, canvas.Bold), t.Text, canvas.Left)
	font := t.font(t.BaseSize, canvas.Regular)
	for _, line := range Wrap(r.m, body, font, t.contentWidth()) {
		r.y += r.text(r.left(), r.y, t.contentWidth(), line, font, t.Text, canvas.Left)
	}
	r.y += t.Gap
}

func (r *renderer) signature(img *domain.Image) {
	if img == nil {
		return
	}
	t := r.t
	boxW := t.TotalsWidth * 0.75
	w, h := fit(img, boxW, t.SignatureHeight)
	x := r.right() - boxW
	r.c.Image(x+(boxW-w)/2, r.y, w, h, img)
	r.y += h + 4
	r.c.Line(x, r.y, r.right(), r.y, 0.75, t.Text)
	r.y += 4
	r.y += r.text(x, r.y, boxW, SignatureCaption, t.font(t.SmallSize, canvas.Regular), t.Muted, canvas.Center)
	r.y += t.Gap
}

func (r *renderer) footer(text string) {
	if text == "" {
		return
	}
	t := r.t
	r.y += t.Gap
	r.y += r.text(r.left(), r.y, t.contentWidth(), text, t.font(t.BaseSize, canvas.Italic), t.Muted, canvas.Center)
}

// fit scales img into a maxW x maxH box keeping its aspect ratio. Images
// without known dimensions are drawn square.
func fit(img *domain.Image, maxW, maxH float64) (float64, float64) {
	if img.Width <= 0 || img.Height <= 0 {
		s := min(maxW, maxH)
		return s, s
	}
	w, h := float64(img.Width), float64(img.Height)
	scale := min(maxW/w, maxH/h)
	return w * scale, h * scale
}

func cellAlign(a document.Align) canvas.Align {
	switch a {
	case document.AlignRight:
		return canvas.Right
	case document.AlignCenter:
		return canvas.Center
	}
	return canvas.Left
}
