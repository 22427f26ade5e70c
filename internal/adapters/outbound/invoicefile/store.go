// Package invoicefile reads and writes invoice documents as YAML (or JSON,
// which YAML accepts).
package invoicefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// Stdin is the path that makes Load read from standard input.
const Stdin = "-"

// Store implements domain.InvoiceStore on the local filesystem.
type Store struct {
	stdin io.Reader
}

// New creates a Store reading "-" from os.Stdin.
func New() *Store { return &Store{stdin: os.Stdin} }

// NewWithStdin creates a Store reading "-" from r.
func NewWithStdin(r io.Reader) *Store { return &Store{stdin: r} }

// Load reads the invoice at path. Unknown keys are rejected so that typos
// do not silently drop data.
func (s *Store) Load(path string) (domain.Invoice, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(s.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("reading invoice: %w", err)
	}

	inv, err := Decode(data)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return inv, nil
}

// Decode parses a YAML or JSON invoice document.
func Decode(data []byte) (domain.Invoice, error) {
	var inv domain.Invoice
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&inv); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invoice{}, fmt.Errorf("document is empty")
		}
		return domain.Invoice{}, err
	}
	return inv, nil
}

// Encode renders inv as YAML.
func Encode(inv domain.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(inv); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes inv as YAML, replacing path atomically.
func (s *Store) Save(path string, inv domain.Invoice) error {
	data, err := Encode(inv)
	if err != nil {
		return fmt.Errorf("encoding invoice: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".invoice-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
