// Package history keeps a per-project log of exported invoices.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// File is the log location relative to the project directory.
const File = ".invoicekit/history/exports.json"

// DefaultLimit is how many entries are kept before the oldest are dropped.
const DefaultLimit = 1000

// FileHistory implements domain.ExportHistory as a JSON array on disk.
// Writes go through a temp file and a rename, so a crash mid-save leaves
// the previous log intact.
type FileHistory struct {
	mu    sync.Mutex
	limit int
}

func New() *FileHistory {
	return NewWithLimit(DefaultLimit)
}

// NewWithLimit keeps at most limit entries; limit <= 0 keeps everything.
func NewWithLimit(limit int) *FileHistory {
	return &FileHistory{limit: limit}
}

// Save appends entry to the project's log.
func (h *FileHistory) Save(projectPath string, entry domain.ExportEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := read(projectPath)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if h.limit > 0 && len(entries) > h.limit {
		entries = entries[len(entries)-h.limit:]
	}
	return write(projectPath, entries)
}

// Load returns the log oldest first. A project without exports has none.
func (h *FileHistory) Load(projectPath string) ([]domain.ExportEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return read(projectPath)
}

func read(projectPath string) ([]domain.ExportEntry, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, File))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading export history: %w", err)
	}

	var entries []domain.ExportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding export history: %w", err)
	}
	return entries, nil
}

func write(projectPath string, entries []domain.ExportEntry) error {
	fp := filepath.Join(projectPath, File)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fp), ".exports-*.json")
	if err != nil {
		return fmt.Errorf("writing export history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing export history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing export history: %w", err)
	}
	if err := os.Rename(tmp.Name(), fp); err != nil {
		return fmt.Errorf("writing export history: %w", err)
	}
	return nil
}
