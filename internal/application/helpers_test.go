package application_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/assets"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/history"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/invoicefile"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/pdf"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/qr"
	"github.com/invoicekit/invoicekit/internal/application"
	"github.com/invoicekit/invoicekit/internal/domain"
)

func validInvoice() domain.Invoice {
	return domain.Invoice{
		Business: domain.BusinessInfo{
			Name:      "Acme Co",
			Address:   "1 Main Street",
			Email:     "billing@acme.example",
			PaymentID: "acme@okaxis",
		},
		Client:  domain.ClientInfo{Name: "Globex"},
		Details: domain.InvoiceDetails{Number: "INV-7", Currency: "INR"},
		Items:   []domain.LineItem{{Name: "Consulting", Quantity: 1, Rate: 5000}},
		Summary: domain.Summary{TaxRate: 18},
	}
}

type fixture struct {
	invoices *application.InvoiceService
	payments *application.PaymentService
	exports  *application.ExportService
	history  *history.FileHistory
	logs     *bytes.Buffer
	dir      string
}

type fixtureOpts struct {
	cfg    *domain.Config
	loader domain.AssetLoader
	writer application.DocumentWriter
	git    domain.GitInfo
}

func newFixture(t *testing.T, o fixtureOpts) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := domain.DefaultConfig()
	if o.cfg != nil {
		cfg = *o.cfg
	}
	logs := &bytes.Buffer{}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	logger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(logs), zapcore.DebugLevel))

	decoder := assets.New(assets.Options{BaseDir: dir, MaxBytes: cfg.Assets.MaxBytes})
	loader := o.loader
	if loader == nil {
		loader = decoder
	}
	writer := o.writer
	if writer == nil {
		writer = pdf.New()
	}
	h := history.New()

	invoices := application.NewInvoiceService(invoicefile.New(), cfg, logger)
	payments := application.NewPaymentService(invoices, qr.New(), decoder, logger)
	exports := application.NewExportService(invoices, payments, loader, writer, h, o.git, logger)

	return &fixture{invoices: invoices, payments: payments, exports: exports, history: h, logs: logs, dir: dir}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func files(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, filepath.Base(e.Name()))
	}
	return names
}
