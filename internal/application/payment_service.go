package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/payment"
)

// PaymentService turns an invoice's payment identifier into a payment URI
// and a scannable QR code.
type PaymentService struct {
	invoices *InvoiceService
	qr       domain.QRGenerator
	decoder  domain.ImageDecoder
	logger   *zap.Logger
}

func NewPaymentService(invoices *InvoiceService, qr domain.QRGenerator, decoder domain.ImageDecoder, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{invoices: invoices, qr: qr, decoder: decoder, logger: logger}
}

// URI encodes the payment request for the invoice total.
func (s *PaymentService) URI(inv domain.Invoice) (string, error) {
	p := s.invoices.Prepare(inv)
	b := p.Invoice.Business
	return payment.EncodeURI(string(b.PaymentID), b.Name, p.Totals.Total, p.Invoice.Details.Currency, p.Invoice.Details.Number)
}

// QR returns the PNG payment QR code and the URI it encodes. Codes are
// always generated at error-correction level H.
func (s *PaymentService) QR(inv domain.Invoice) ([]byte, string, error) {
	uri, err := s.URI(inv)
	if err != nil {
		return nil, "", err
	}
	png, err := s.qr.Generate(uri, s.invoices.Config().QR.Size, domain.QRLevelH)
	if err != nil {
		return nil, "", fmt.Errorf("generating qr code: %w", err)
	}
	s.logger.Debug("payment qr generated", zap.String("uri", uri), zap.Int("bytes", len(png)))
	return png, uri, nil
}

// Section produces the decoded QR image for the payment section. A failure
// returns a *domain.PaymentEncodingError or *domain.AssetLoadError and the
// caller leaves the section out.
func (s *PaymentService) Section(ctx context.Context, inv domain.Invoice) (*domain.Image, string, error) {
	type section struct {
		img *domain.Image
		uri string
	}
	res, err := await(ctx, func() (section, error) {
		png, uri, err := s.QR(inv)
		if err != nil {
			return section{}, err
		}
		img, err := s.decoder.Decode("payment_qr", png)
		if err != nil {
			return section{}, &domain.AssetLoadError{Asset: "payment_qr", Ref: uri, Err: err}
		}
		return section{img: img, uri: uri}, nil
	})
	if err != nil {
		var (
			pe *domain.PaymentEncodingError
			ae *domain.AssetLoadError
		)
		if !errors.As(err, &pe) && !errors.As(err, &ae) {
			err = &domain.AssetLoadError{Asset: "payment_qr", Err: timeout(err)}
		}
		return nil, "", err
	}
	return res.img, res.uri, nil
}
