// Package files stores transaction attachments on disk and extracts text from
// PDF receipts so it can be kept alongside the transaction.
package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

type Manager struct {
	dir string
}

func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Save writes the uploaded content under a random name, keeping only the
// original extension. The returned path is relative to the upload directory
// so the directory can move between deployments.
func (m *Manager) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(m.dir, name))
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return name, nil
}

// Remove deletes a stored attachment. A missing file is not an error.
func (m *Manager) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}

// Open returns the stored attachment for download.
func (m *Manager) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid attachment name %q", name)
	}
	f, err := os.Open(filepath.Join(m.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return f, nil
}

// ExtractPDFText pulls the plain text out of a stored PDF attachment, page by
// page. Non-PDF attachments yield an empty string, and extraction failures are
// logged but never block saving the transaction.
func (m *Manager) ExtractPDFText(name string) string {
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return ""
	}

	f, r, err := pdf.Open(filepath.Join(m.dir, name))
	if err != nil {
		slog.Warn("Failed to open PDF attachment", "name", name, "error", err)
		return ""
	}
	defer f.Close()

	var b strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			slog.Warn("Failed to extract text from PDF page", "name", name, "page", pageIndex, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
