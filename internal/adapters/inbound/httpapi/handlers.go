package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/assets"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/invoicefile"
	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/payment"
	"github.com/invoicekit/invoicekit/internal/domain/totals"
)

const paymentURIHeader = "X-Payment-URI"

// readInvoice decodes the request body, JSON or YAML, into an invoice.
// Image references must be inline; see inlineAssets.
func (s *Server) readInvoice(c *gin.Context) (domain.Invoice, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("invoice exceeds %d bytes", MaxBodyBytes)})
			return domain.Invoice{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading request body: " + err.Error()})
		return domain.Invoice{}, false
	}
	inv, err := invoicefile.Decode(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parsing invoice: " + err.Error()})
		return domain.Invoice{}, false
	}
	if err := inlineAssets(inv); err != nil {
		s.fail(c, err)
		return domain.Invoice{}, false
	}
	return inv, true
}

// inlineAssets rejects logo and signature references that would make the
// server read its own disk or fetch a URL for the caller.
func inlineAssets(inv domain.Invoice) error {
	refs := []struct {
		field string
		ref   domain.AssetRef
	}{
		{"Business.Logo", inv.Business.Logo},
		{"Business.Signature", inv.Business.Signature},
	}
	ve := &domain.ValidationError{}
	for _, r := range refs {
		if !r.ref.IsZero() && !assets.IsInline(r.ref) {
			ve.Violations = append(ve.Violations, domain.FieldViolation{Field: r.field, Message: "must be a data: URI"})
		}
	}
	if len(ve.Violations) == 0 {
		return nil
	}
	return ve
}

func (s *Server) totals(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}
	p := s.svc.Invoices.Prepare(inv)
	desc := s.svc.Invoices.Describe(p, domain.Assets{})
	c.JSON(http.StatusOK, gin.H{
		"invoice_number":  p.Invoice.Details.Number,
		"currency":        p.Invoice.Details.Currency,
		"totals":          p.Totals,
		"line_totals":     totals.LineTotals(p.Invoice),
		"formatted_total": s.svc.Invoices.FormatAmount(p.Totals.Total, p.Invoice.Details.Currency),
		"rows":            desc.Totals,
	})
}

func (s *Server) validate(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}
	if err := s.svc.Invoices.Validate(inv); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "violations": []domain.FieldViolation{}})
}

func (s *Server) paymentURI(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}
	uri, err := s.svc.Payments.URI(inv)
	if err != nil {
		s.fail(c, err)
		return
	}
	req, err := payment.Parse(uri)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uri": uri, "request": req})
}

func (s *Server) qr(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}
	png, uri, err := s.svc.Payments.QR(inv)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header(paymentURIHeader, uri)
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) export(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	res, err := s.svc.Exports.WriteTo(c.Request.Context(), inv, &buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	name := s.svc.Invoices.Config().Export.ExportFilename(res.InvoiceNumber)
	c.Header("X-Invoice-Pages", strconv.Itoa(res.Pages))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// fail maps typed pipeline errors onto status codes.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		ve *domain.ValidationError
		pe *domain.PaymentEncodingError
		ee *domain.ExportError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "error": "validation failed", "violations": ve.Violations})
	case errors.As(err, &pe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &ee):
		s.logger.Error("export failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("stage", ee.Stage),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed", "stage": ee.Stage})
	default:
		s.logger.Error("request failed", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
