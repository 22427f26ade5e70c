// Package assets resolves image references (file paths, data: URIs and
// http(s) URLs) into decoded images for the renderer.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/cache"
	"github.com/invoicekit/invoicekit/internal/domain"
)

var formats = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
}

// ErrNotInline is returned by an inline-only Loader for any reference that
// is not a data: URI.
var ErrNotInline = errors.New("only data: URIs are accepted")

// Options configure a Loader.
type Options struct {
	// InlineOnly refuses file paths and URLs. Set it whenever references
	// come from remote callers, who must not reach the server's disk or
	// network.
	InlineOnly bool
	// BaseDir resolves relative file paths, usually the invoice's directory.
	BaseDir  string
	MaxBytes int64
	Cache    *cache.Store
	Client   *http.Client
}

// Loader implements domain.AssetLoader and domain.ImageDecoder.
type Loader struct {
	inline   bool
	baseDir  string
	maxBytes int64
	cache    *cache.Store
	client   *http.Client
}

func New(opts Options) *Loader {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = domain.DefaultConfig().Assets.MaxBytes
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Loader{inline: opts.InlineOnly, baseDir: opts.BaseDir, maxBytes: opts.MaxBytes, cache: opts.Cache, client: opts.Client}
}

// Load fetches and decodes ref. It stops waiting when ctx is done.
func (l *Loader) Load(ctx context.Context, ref domain.AssetRef) (*domain.Image, error) {
	s := strings.TrimSpace(string(ref))
	if s == "" {
		return nil, fmt.Errorf("empty asset reference")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.inline && !IsInline(ref) {
		return nil, fmt.Errorf("asset %q: %w", clip(s), ErrNotInline)
	}

	var (
		data []byte
		name string
		err  error
	)
	switch lower := strings.ToLower(s); {
	case strings.HasPrefix(lower, "data:"):
		name = "inline"
		data, err = decodeDataURI(s)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		name = path(s)
		data, err = l.fetch(ctx, s)
	default:
		name = filepath.Base(s)
		data, err = l.readFile(s)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Decode(name, data)
}

// Decode sniffs and decodes an in-memory image. Only PNG, JPEG and GIF
// are accepted since those are what the PDF writer can embed.
func (l *Loader) Decode(name string, data []byte) (*domain.Image, error) {
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("image %s is %d bytes (limit %d)", name, len(data), l.maxBytes)
	}
	mt := mimetype.Detect(data)
	format, ok := formats[mt.String()]
	if !ok {
		return nil, fmt.Errorf("image %s has unsupported type %s", name, mt.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", name, err)
	}
	return &domain.Image{Name: name, Format: format, Width: cfg.Width, Height: cfg.Height, Data: data}, nil
}

func (l *Loader) readFile(p string) ([]byte, error) {
	if !filepath.IsAbs(p) && l.baseDir != "" {
		p = filepath.Join(l.baseDir, p)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if l.cache != nil {
		if data, _, err := l.cache.Load(rawURL); err == nil && data != nil {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: %s", resp.Status)
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		// A failed cache write only costs a refetch next time.
		_ = l.cache.Save(rawURL, mimetype.Detect(data).String(), data)
	}
	return data, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}

// IsInline reports whether ref carries its image as a data: URI.
func IsInline(ref domain.AssetRef) bool {
	s := strings.TrimSpace(string(ref))
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

func clip(s string) string {
	if len(s) > 48 {
		return s[:48] + "…"
	}
	return s
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(s string) ([]byte, error) {
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri: missing comma")
	}
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data uri: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data uri: %w", err)
	}
	return []byte(data), nil
}

func path(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	return filepath.Base(u.Path)
}
