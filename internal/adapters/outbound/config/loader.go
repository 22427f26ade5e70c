package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// FileName is the per-project settings file.
const FileName = ".invoicekit.yaml"

// EnvPrefix prefixes environment overrides, e.g. INVOICEKIT_PAYMENT_SCHEME.
const EnvPrefix = "INVOICEKIT"

// Loader implements domain.ConfigLoader with viper: defaults, then
// .invoicekit.yaml, then INVOICEKIT_* environment variables.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// Load reads .invoicekit.yaml from projectPath. A missing file is not an
// error; defaults and environment overrides still apply.
func (l *Loader) Load(projectPath string) (domain.Config, error) {
	v := viper.New()
	setDefaults(v, domain.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(projectPath, FileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.Config{}, fmt.Errorf("decoding %s: %w", FileName, err)
	}
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	cfg.Payment.Scheme = domain.PaymentScheme(strings.ToLower(string(cfg.Payment.Scheme)))
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = nil
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d domain.Config) {
	v.SetDefault("default_currency", d.DefaultCurrency)
	v.SetDefault("payment.scheme", string(d.Payment.Scheme))
	v.SetDefault("qr.size", d.QR.Size)
	v.SetDefault("assets.timeout", d.Assets.Timeout)
	v.SetDefault("assets.max_bytes", d.Assets.MaxBytes)
	v.SetDefault("assets.cache_dir", d.Assets.CacheDir)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.filename_pattern", d.Export.FilenamePattern)
	v.SetDefault("export.history", d.Export.History)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.allowed_origins", d.HTTP.AllowedOrigins)
	v.SetDefault("http.rate_limit", d.HTTP.RateLimit)
	v.SetDefault("http.burst", d.HTTP.Burst)
}
