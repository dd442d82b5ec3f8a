// Package extract resolves file formats to text extractors. The set of
// available parser backends is fixed when the registry is built at
// startup, so a deployment's capabilities are explicit instead of being
// discovered lazily on the first matching upload.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docqa/src/core/docqa"
)

// Kind is a recognized document format.
type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindHTML Kind = "html"
)

// Backend extracts plain text for one format family.
type Backend interface {
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}

// Registry maps formats to backends and implements docqa.Extractor.
type Registry struct {
	backends map[Kind]Backend
}

// NewRegistry builds a registry with the built-in text and HTML
// backends. Additional backends are attached with Register.
func NewRegistry() *Registry {
	return &Registry{
		backends: map[Kind]Backend{
			KindText: plainText{},
			KindHTML: htmlText{},
		},
	}
}

// Register attaches a backend for a format, replacing any previous one.
func (r *Registry) Register(kind Kind, b Backend) {
	r.backends[kind] = b
}

// Supports reports whether a backend is configured for the format.
func (r *Registry) Supports(kind Kind) bool {
	_, ok := r.backends[kind]
	return ok
}

func (r *Registry) Extract(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	kind, ok := classify(contentType, filename)
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed formats: PDF, TXT, DOCX, HTML)", docqa.ErrUnsupportedFormat, filename)
	}

	backend, ok := r.backends[kind]
	if !ok {
		return "", fmt.Errorf("%w: no %s parser backend is configured", docqa.ErrMissingCapability, kind)
	}

	text, err := backend.ExtractText(ctx, data, filename)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}
	return text, nil
}

// classify recognizes a format from the filename suffix first, then the
// declared content type.
func classify(contentType, filename string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return KindText, true
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	case ".html", ".htm":
		return KindHTML, true
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "text/plain"):
		return KindText, true
	case strings.HasSuffix(ct, "pdf"):
		return KindPDF, true
	case strings.HasSuffix(ct, "msword") || strings.Contains(ct, "wordprocessingml"):
		return KindDOCX, true
	case strings.Contains(ct, "html"):
		return KindHTML, true
	}
	return "", false
}
