package domain

import (
	"fmt"
	"strings"
	"time"
)

// Config holds deployment-level settings loaded from .invoicekit.yaml and
// INVOICEKIT_* environment variables.
type Config struct {
	DefaultCurrency string        `mapstructure:"default_currency" yaml:"default_currency" json:"default_currency"`
	Payment         PaymentConfig `mapstructure:"payment"          yaml:"payment"          json:"payment"`
	QR              QRConfig      `mapstructure:"qr"               yaml:"qr"               json:"qr"`
	Assets          AssetsConfig  `mapstructure:"assets"           yaml:"assets"           json:"assets"`
	Export          ExportConfig  `mapstructure:"export"           yaml:"export"           json:"export"`
	Log             LogConfig     `mapstructure:"log"              yaml:"log"              json:"log"`
	HTTP            HTTPConfig    `mapstructure:"http"             yaml:"http"             json:"http"`
}

type PaymentConfig struct {
	Scheme PaymentScheme `mapstructure:"scheme" yaml:"scheme" json:"scheme"`
}

type QRConfig struct {
	Size int `mapstructure:"size" yaml:"size" json:"size"`
}

type AssetsConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"   yaml:"timeout"   json:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes" yaml:"max_bytes" json:"max_bytes"`
	CacheDir string        `mapstructure:"cache_dir" yaml:"cache_dir" json:"cache_dir"`
}

type ExportConfig struct {
	Dir             string `mapstructure:"dir"              yaml:"dir"              json:"dir"`
	FilenamePattern string `mapstructure:"filename_pattern" yaml:"filename_pattern" json:"filename_pattern"`
	History         bool   `mapstructure:"history"          yaml:"history"          json:"history"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"            yaml:"addr"            json:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	RateLimit      float64  `mapstructure:"rate_limit"      yaml:"rate_limit"      json:"rate_limit"`
	Burst          int      `mapstructure:"burst"           yaml:"burst"           json:"burst"`
}

const (
	// MinQRSize is the smallest QR raster that stays scannable in print.
	MinQRSize = 100
	// DefaultAssetTimeout bounds how long rendering waits for an image.
	DefaultAssetTimeout = 5 * time.Second
	// DefaultFilenamePattern names exported files; {number} is replaced.
	DefaultFilenamePattern = "Invoice_{number}.pdf"
)

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: DefaultCurrency,
		Payment:         PaymentConfig{Scheme: SchemeUPI},
		QR:              QRConfig{Size: 150},
		Assets: AssetsConfig{
			Timeout:  DefaultAssetTimeout,
			MaxBytes: 5 * 1024 * 1024,
			CacheDir: ".invoicekit/cache/assets",
		},
		Export: ExportConfig{
			Dir:             ".",
			FilenamePattern: DefaultFilenamePattern,
			History:         true,
		},
		Log: LogConfig{Level: "warn"},
		HTTP: HTTPConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 5,
			Burst:     10,
		},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if _, ok := LookupCurrency(c.DefaultCurrency); !ok {
		return fmt.Errorf("unknown default_currency %q: %w", c.DefaultCurrency, ErrUnknownCurrency)
	}

	valid := false
	for _, s := range ValidPaymentSchemes {
		if c.Payment.Scheme == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown payment.scheme %q (valid: upi, paypal)", c.Payment.Scheme)
	}

	if c.QR.Size < MinQRSize {
		return fmt.Errorf("qr.size = %d (must be at least %d)", c.QR.Size, MinQRSize)
	}
	if c.Assets.Timeout <= 0 {
		return fmt.Errorf("assets.timeout = %s (must be positive)", c.Assets.Timeout)
	}
	if c.Assets.MaxBytes <= 0 {
		return fmt.Errorf("assets.max_bytes = %d (must be positive)", c.Assets.MaxBytes)
	}
	if !strings.Contains(c.Export.FilenamePattern, "{number}") {
		return fmt.Errorf("export.filename_pattern %q must contain {number}", c.Export.FilenamePattern)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q (valid: debug, info, warn, error)", c.Log.Level)
	}

	if c.HTTP.RateLimit < 0 || c.HTTP.Burst < 0 {
		return fmt.Errorf("http.rate_limit and http.burst cannot be negative")
	}
	return nil
}

// ExportFilename applies the filename pattern to an invoice number.
// Path separators in the number are replaced so the result stays a
// single file name.
func (c ExportConfig) ExportFilename(number string) string {
	pattern := c.FilenamePattern
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(number))
	return strings.ReplaceAll(pattern, "{number}", safe)
}
