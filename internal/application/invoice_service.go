package application

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/document"
	"github.com/invoicekit/invoicekit/internal/domain/money"
	"github.com/invoicekit/invoicekit/internal/domain/totals"
)

// Prepared is a normalised invoice together with its derived totals.
type Prepared struct {
	Invoice domain.Invoice `json:"invoice"`
	Totals  totals.Totals  `json:"totals"`
}

// InvoiceService loads, normalises, validates and describes invoices.
// It never mutates the invoice it is given.
type InvoiceService struct {
	store     domain.InvoiceStore
	cfg       domain.Config
	formatter *money.Formatter
	now       func() time.Time
}

// NewInvoiceService creates the service. store may be nil when invoices
// only arrive as values, as they do over HTTP.
func NewInvoiceService(store domain.InvoiceStore, cfg domain.Config, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		store:     store,
		cfg:       cfg,
		formatter: money.NewFormatter(cfg.DefaultCurrency, logger),
		now:       time.Now,
	}
}

func (s *InvoiceService) Load(path string) (domain.Invoice, error) {
	if s.store == nil {
		return domain.Invoice{}, fmt.Errorf("loading invoice: no invoice store configured")
	}
	inv, err := s.store.Load(path)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("loading invoice: %w", err)
	}
	return inv, nil
}

// Prepare fills display defaults and computes the totals.
func (s *InvoiceService) Prepare(inv domain.Invoice) Prepared {
	norm := inv.Normalize(s.now(), s.cfg.DefaultCurrency)
	return Prepared{Invoice: norm, Totals: totals.Compute(norm)}
}

// Validate checks inv against the deployment's payment scheme. A non-nil
// result is a *domain.ValidationError.
func (s *InvoiceService) Validate(inv domain.Invoice) error {
	return s.Prepare(inv).Invoice.Validate(s.cfg.Payment.Scheme)
}

// Describe builds the document description of a prepared invoice.
func (s *InvoiceService) Describe(p Prepared, assets domain.Assets) document.Description {
	return document.Describe(p.Invoice, p.Totals, assets, s.formatter, document.Options{Now: s.now()})
}

// FormatAmount renders amount in the given currency.
func (s *InvoiceService) FormatAmount(amount float64, code string) string {
	return s.formatter.Format(amount, code)
}

func (s *InvoiceService) Config() domain.Config { return s.cfg }
