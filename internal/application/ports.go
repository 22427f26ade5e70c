package application

import (
	"io"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/canvas"
	"github.com/invoicekit/invoicekit/internal/domain/layout"
)

// DocumentWriter turns a paginated canvas into the exported file format.
// It measures text with the metrics it will draw with.
type DocumentWriter interface {
	layout.TextMeasurer
	Write(w io.Writer, c *canvas.Canvas, l canvas.Layout, meta domain.DocumentMeta) error
}
