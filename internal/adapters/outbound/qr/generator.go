// Package qr renders payment URIs as QR code PNGs with skip2/go-qrcode.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// Generator implements domain.QRGenerator.
type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate encodes uri as a square PNG of sizePx pixels. Payloads that do
// not fit a QR symbol at the requested level return a
// *domain.PaymentEncodingError.
func (g *Generator) Generate(uri string, sizePx int, level domain.QRLevel) ([]byte, error) {
	if uri == "" {
		return nil, &domain.PaymentEncodingError{Reason: "empty payment uri"}
	}
	if sizePx < domain.MinQRSize {
		return nil, fmt.Errorf("qr size %dpx is below the minimum of %dpx", sizePx, domain.MinQRSize)
	}

	code, err := qrcode.New(uri, recoveryLevel(level))
	if err != nil {
		return nil, &domain.PaymentEncodingError{Reason: "uri does not fit a qr code", Err: err}
	}

	png, err := code.PNG(sizePx)
	if err != nil {
		return nil, fmt.Errorf("encoding qr png: %w", err)
	}
	return png, nil
}

func recoveryLevel(l domain.QRLevel) qrcode.RecoveryLevel {
	switch l {
	case domain.QRLevelL:
		return qrcode.Low
	case domain.QRLevelM:
		return qrcode.Medium
	case domain.QRLevelQ:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}
