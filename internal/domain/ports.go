package domain

import "context"

// ConfigLoader loads deployment settings for a project directory.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// InvoiceStore reads and writes invoice documents.
type InvoiceStore interface {
	Load(path string) (Invoice, error)
	Save(path string, inv Invoice) error
}

// QRLevel is a QR error-correction level.
type QRLevel string

const (
	QRLevelL QRLevel = "L" // ~7% recovery
	QRLevelM QRLevel = "M" // ~15%
	QRLevelQ QRLevel = "Q" // ~25%
	QRLevelH QRLevel = "H" // ~30%, required for printed invoices
)

// QRGenerator turns a payment URI into a square PNG.
type QRGenerator interface {
	Generate(uri string, sizePx int, level QRLevel) ([]byte, error)
}

// AssetLoader resolves an AssetRef into a decoded image. Implementations
// must honour ctx cancellation.
type AssetLoader interface {
	Load(ctx context.Context, ref AssetRef) (*Image, error)
}

// ImageDecoder decodes raw image bytes that did not come from an AssetRef,
// such as the generated payment QR.
type ImageDecoder interface {
	Decode(name string, data []byte) (*Image, error)
}

// DocumentMeta is written into the exported document properties.
type DocumentMeta struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
}

// ExportHistory records completed exports.
type ExportHistory interface {
	Save(projectPath string, entry ExportEntry) error
	Load(projectPath string) ([]ExportEntry, error)
}

// ExportEntry is one line of the export log.
type ExportEntry struct {
	Timestamp     string  `json:"timestamp"`
	InvoiceNumber string  `json:"invoice_number"`
	Currency      string  `json:"currency"`
	Total         float64 `json:"total"`
	Pages         int     `json:"pages"`
	Output        string  `json:"output"`
	CommitHash    string  `json:"commit_hash,omitempty"`
}

// GitInfo reports version-control provenance of an invoice file.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}
