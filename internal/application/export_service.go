package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/canvas"
	"github.com/invoicekit/invoicekit/internal/domain/document"
	"github.com/invoicekit/invoicekit/internal/domain/layout"
)

// ExportOptions controls where an export goes and how it is recorded.
type ExportOptions struct {
	// Output is a file path or a directory. Empty means the configured
	// export directory.
	Output string
	// Source is the invoice file, used for git provenance. Optional.
	Source string
	// ProjectPath is where the export history lives. Defaults to ".".
	ProjectPath string
}

// ExportResult describes a finished export.
type ExportResult struct {
	Path          string  `json:"path,omitempty"`
	InvoiceNumber string  `json:"invoice_number"`
	Pages         int     `json:"pages"`
	Bytes         int     `json:"bytes"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	CommitHash    string  `json:"commit_hash,omitempty"`
}

// Rendered is an invoice laid out and paginated, ready to be written.
type Rendered struct {
	Prepared    Prepared
	Description document.Description
	Canvas      *canvas.Canvas
	Layout      canvas.Layout
}

// ExportService orchestrates the export pipeline:
// validate → load assets → describe → render → paginate → write.
//
// Exports to the same output path are serialised; a second export queues
// behind the first. The invoice is taken by value, so each export works on
// its own snapshot.
type ExportService struct {
	cfg      domain.Config
	invoices *InvoiceService
	payments *PaymentService
	assets   domain.AssetLoader
	writer   DocumentWriter
	history  domain.ExportHistory
	git      domain.GitInfo
	theme    layout.Theme
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewExportService wires the pipeline. history and git may be nil.
func NewExportService(
	invoices *InvoiceService,
	payments *PaymentService,
	assets domain.AssetLoader,
	writer DocumentWriter,
	history domain.ExportHistory,
	git domain.GitInfo,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		cfg:      invoices.Config(),
		invoices: invoices,
		payments: payments,
		assets:   assets,
		writer:   writer,
		history:  history,
		git:      git,
		theme:    layout.DefaultTheme(),
		logger:   logger,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Document loads the assets of inv and returns its description without
// validating it. Used by previews.
func (s *ExportService) Document(ctx context.Context, inv domain.Invoice) document.Description {
	p := s.invoices.Prepare(inv)
	return s.invoices.Describe(p, s.loadAssets(ctx, p.Invoice))
}

// Render validates inv and lays it out on paginated A4 pages.
func (s *ExportService) Render(ctx context.Context, inv domain.Invoice, keywords ...string) (*Rendered, error) {
	if err := s.invoices.Validate(inv); err != nil {
		return nil, err
	}
	p := s.invoices.Prepare(inv)
	desc := s.invoices.Describe(p, s.loadAssets(ctx, p.Invoice))
	desc.Properties.Keywords = append(desc.Properties.Keywords, keywords...)

	if err := ctx.Err(); err != nil {
		return nil, &domain.ExportError{Stage: "render", Err: err}
	}
	c, err := layout.Render(desc, s.theme, s.writer)
	if err != nil {
		return nil, &domain.ExportError{Stage: "render", Err: err}
	}
	pl, err := canvas.Paginate(c, canvas.A4WidthMM, canvas.A4HeightMM)
	if err != nil {
		return nil, &domain.ExportError{Stage: "paginate", Err: err}
	}
	return &Rendered{Prepared: p, Description: desc, Canvas: c, Layout: pl}, nil
}

// WriteTo renders inv and streams the document to w. Nothing is written
// to w unless the whole document was assembled.
func (s *ExportService) WriteTo(ctx context.Context, inv domain.Invoice, w io.Writer) (ExportResult, error) {
	r, err := s.Render(ctx, inv)
	if err != nil {
		return ExportResult{}, err
	}
	var buf bytes.Buffer
	if err := s.writer.Write(&buf, r.Canvas, r.Layout, r.Description.Properties); err != nil {
		return ExportResult{}, &domain.ExportError{Stage: "write", Err: err}
	}
	n, err := buf.WriteTo(w)
	if err != nil {
		return ExportResult{}, &domain.ExportError{Stage: "write", Err: err}
	}
	res := result(r)
	res.Bytes = int(n)
	return res, nil
}

// Export renders inv to a file. The file appears atomically: a failed
// export leaves no partial output behind.
func (s *ExportService) Export(ctx context.Context, inv domain.Invoice, opts ExportOptions) (ExportResult, error) {
	p := s.invoices.Prepare(inv)
	target, err := s.target(opts.Output, p.Invoice.Details.Number)
	if err != nil {
		return ExportResult{}, &domain.ExportError{Stage: "write", Err: err}
	}

	lock := s.lock(target)
	lock.Lock()
	defer lock.Unlock()

	hash := s.commitHash(opts.Source)
	var keywords []string
	if hash != "" {
		keywords = append(keywords, "commit:"+shortHash(hash))
	}

	r, err := s.Render(ctx, inv, keywords...)
	if err != nil {
		return ExportResult{}, err
	}

	n, err := s.writeFile(target, r)
	if err != nil {
		return ExportResult{}, &domain.ExportError{Stage: "write", Err: err}
	}

	res := result(r)
	res.Path = target
	res.Bytes = n
	res.CommitHash = hash
	s.logger.Info("invoice exported",
		zap.String("path", target),
		zap.Int("pages", res.Pages),
		zap.String("number", res.InvoiceNumber),
	)
	s.record(opts.ProjectPath, res)
	return res, nil
}

func (s *ExportService) writeFile(target string, r *Rendered) (int, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".invoice-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := &countingWriter{w: tmp}
	if err := s.writer.Write(cw, r.Canvas, r.Layout, r.Description.Properties); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, fmt.Errorf("moving export into place: %w", err)
	}
	return cw.n, nil
}

// target resolves the output path. Directories get the configured file
// name pattern appended.
func (s *ExportService) target(output, number string) (string, error) {
	name := s.cfg.Export.ExportFilename(number)
	if output == "" {
		output = filepath.Join(s.cfg.Export.Dir, name)
	} else if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		output = filepath.Join(output, name)
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", output, err)
	}
	return abs, nil
}

func (s *ExportService) lock(target string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[target]
	if !ok {
		l = &sync.Mutex{}
		s.locks[target] = l
	}
	return l
}

func (s *ExportService) commitHash(source string) string {
	if s.git == nil || source == "" || !s.git.IsGitRepo(source) {
		return ""
	}
	hash, err := s.git.CommitHash(source)
	if err != nil {
		s.logger.Debug("no commit hash for invoice", zap.String("source", source), zap.Error(err))
		return ""
	}
	return hash
}

func (s *ExportService) record(projectPath string, res ExportResult) {
	if s.history == nil || !s.cfg.Export.History {
		return
	}
	if projectPath == "" {
		projectPath = "."
	}
	entry := domain.ExportEntry{
		Timestamp:     s.now().UTC().Format(time.RFC3339),
		InvoiceNumber: res.InvoiceNumber,
		Currency:      res.Currency,
		Total:         res.Total,
		Pages:         res.Pages,
		Output:        res.Path,
		CommitHash:    res.CommitHash,
	}
	if err := s.history.Save(projectPath, entry); err != nil {
		s.logger.Warn("export history not saved", zap.Error(err))
	}
}

// loadAssets resolves the logo, signature and payment QR concurrently and
// waits at most assets.timeout for them. Anything not ready is omitted and
// logged once all three are done.
func (s *ExportService) loadAssets(ctx context.Context, inv domain.Invoice) domain.Assets {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Assets.Timeout)
	defer cancel()

	// A plain group: one failed asset must not cancel the others.
	var (
		a    domain.Assets
		g    errgroup.Group
		errs [3]error
	)
	g.Go(func() error {
		a.Logo, errs[0] = s.asset(ctx, "logo", inv.Business.Logo)
		return errs[0]
	})
	g.Go(func() error {
		a.Signature, errs[1] = s.asset(ctx, "signature", inv.Business.Signature)
		return errs[1]
	})
	g.Go(func() error {
		a.PaymentQR, a.PaymentURI, errs[2] = s.payments.Section(ctx, inv)
		return errs[2]
	})
	if err := g.Wait(); err == nil {
		return a
	}

	for i, err := range errs {
		switch {
		case err == nil:
		case i == 2:
			s.logger.Warn("payment section omitted", zap.Error(err))
		default:
			s.logger.Warn("asset omitted", zap.Error(err))
		}
	}
	return a
}

// asset loads ref. An empty ref is not an error; it has nothing to load.
func (s *ExportService) asset(ctx context.Context, name string, ref domain.AssetRef) (*domain.Image, error) {
	if ref.IsZero() || s.assets == nil {
		return nil, nil
	}
	img, err := await(ctx, func() (*domain.Image, error) { return s.assets.Load(ctx, ref) })
	if err != nil {
		return nil, &domain.AssetLoadError{Asset: name, Ref: clip(string(ref)), Err: timeout(err)}
	}
	return img, nil
}

// await runs fn and returns its result, or ctx's error if ctx ends first.
// fn keeps running in the background in that case; its result is dropped.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn()
		done <- outcome{v, err}
	}()
	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func timeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrAssetTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrAssetTimeout, err)
	}
	return err
}

func result(r *Rendered) ExportResult {
	return ExportResult{
		InvoiceNumber: r.Prepared.Invoice.Details.Number,
		Pages:         len(r.Layout.Pages),
		Total:         r.Prepared.Totals.Total,
		Currency:      r.Prepared.Invoice.Details.Currency,
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// clip keeps long references such as data: URIs readable in logs.
func clip(ref string) string {
	const limit = 64
	if len(ref) <= limit {
		return ref
	}
	return ref[:limit] + "…"
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
