package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/assets"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/cache"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/config"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/gitinfo"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/history"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/invoicefile"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/pdf"
	"github.com/invoicekit/invoicekit/internal/adapters/outbound/qr"
	"github.com/invoicekit/invoicekit/internal/application"
	"github.com/invoicekit/invoicekit/internal/domain"
)

// assetCacheTTL is how long a downloaded logo or signature is reused.
const assetCacheTTL = 24 * time.Hour

// app is the wired set of services a command runs against.
type app struct {
	project string
	cfg     domain.Config
	logger  *zap.Logger
	svc     application.Services
	history *history.FileHistory
}

func newApp(cmd *cobra.Command) (*app, error) { return wire(cmd, false) }

// newRemoteApp wires services for callers outside the machine: the asset
// loader accepts data: URIs only.
func newRemoteApp(cmd *cobra.Command) (*app, error) { return wire(cmd, true) }

func wire(cmd *cobra.Command, inlineOnly bool) (*app, error) {
	project, _ := cmd.Flags().GetString("project")
	verbose, _ := cmd.Flags().GetBool("verbose")

	absPath, err := filepath.Abs(project)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.New().Load(absPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.Export.Dir = within(absPath, cfg.Export.Dir)

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose)
	loader := assets.New(assets.Options{
		BaseDir:    absPath,
		MaxBytes:   cfg.Assets.MaxBytes,
		Cache:      cache.New(within(absPath, cfg.Assets.CacheDir), assetCacheTTL),
		InlineOnly: inlineOnly,
	})
	hist := history.New()

	invoices := application.NewInvoiceService(invoicefile.NewWithStdin(cmd.InOrStdin()), cfg, logger)
	payments := application.NewPaymentService(invoices, qr.New(), loader, logger)
	exports := application.NewExportService(invoices, payments, loader, pdf.New(), hist, gitinfo.New(), logger)

	return &app{
		project: absPath,
		cfg:     cfg,
		logger:  logger,
		svc:     application.Services{Invoices: invoices, Payments: payments, Exports: exports},
		history: hist,
	}, nil
}

// newLogger logs at the configured level, warn when unset or unknown;
// verbose forces debug.
func newLogger(w io.Writer, level string, verbose bool) *zap.Logger {
	lvl := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			lvl.SetLevel(zapcore.WarnLevel)
		}
	}
	if verbose {
		lvl.SetLevel(zapcore.DebugLevel)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl))
}

func within(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
