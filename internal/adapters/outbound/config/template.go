package config

import (
	"fmt"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// Template renders a commented .invoicekit.yaml for the given scheme.
func Template(scheme domain.PaymentScheme) string {
	d := domain.DefaultConfig()
	if scheme == domain.SchemeNone {
		scheme = d.Payment.Scheme
	}
	return fmt.Sprintf(`# invoicekit configuration
# Every key can be overridden with an INVOICEKIT_* environment variable,
# e.g. INVOICEKIT_PAYMENT_SCHEME=paypal.

# Currency used when an invoice does not name one.
default_currency: %s

payment:
  # upi (name@bank handles) or paypal (https://paypal.me/<user> links)
  scheme: %s

qr:
  # Pixel size of the payment QR code (minimum %d).
  size: %d

assets:
  # How long rendering waits for the logo, signature and QR images.
  timeout: %s
  max_bytes: %d
  cache_dir: %s

export:
  dir: %s
  filename_pattern: %s
  history: %t

log:
  level: %s

http:
  addr: "%s"
  # allowed_origins:
  #   - https://billing.example.com
  rate_limit: %g
  burst: %d
`,
		d.DefaultCurrency, scheme, domain.MinQRSize, d.QR.Size,
		d.Assets.Timeout, d.Assets.MaxBytes, d.Assets.CacheDir,
		d.Export.Dir, d.Export.FilenamePattern, d.Export.History,
		d.Log.Level, d.HTTP.Addr, d.HTTP.RateLimit, d.HTTP.Burst)
}
