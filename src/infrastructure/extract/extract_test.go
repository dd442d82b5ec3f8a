package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/src/core/docqa"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        Kind
		ok          bool
	}{
		{name: "txt extension", filename: "notes.txt", want: KindText, ok: true},
		{name: "pdf extension", filename: "report.PDF", want: KindPDF, ok: true},
		{name: "docx extension", filename: "letter.docx", want: KindDOCX, ok: true},
		{name: "html extension", filename: "page.html", want: KindHTML, ok: true},
		{name: "htm extension", filename: "page.htm", want: KindHTML, ok: true},
		{name: "extension wins over content type", contentType: "application/pdf", filename: "data.txt", want: KindText, ok: true},
		{name: "plain content type", contentType: "text/plain; charset=utf-8", filename: "README", want: KindText, ok: true},
		{name: "pdf content type", contentType: "application/pdf", filename: "upload", want: KindPDF, ok: true},
		{name: "docx content type", contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", filename: "upload", want: KindDOCX, ok: true},
		{name: "html content type", contentType: "text/html", filename: "upload", want: KindHTML, ok: true},
		{name: "image rejected", contentType: "image/png", filename: "photo.png", ok: false},
		{name: "nothing to go on", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classify(tt.contentType, tt.filename)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRegistryExtractPlainText(t *testing.T) {
	r := NewRegistry()

	text, err := r.Extract(context.Background(), []byte("  hello world\n"), "text/plain", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestRegistryExtractHTML(t *testing.T) {
	r := NewRegistry()

	page := `<html><head><style>p { color: red }</style><script>alert(1)</script></head>
<body><h1>Title</h1><p>The sky is blue.</p><p>The grass is green.</p></body></html>`

	text, err := r.Extract(context.Background(), []byte(page), "text/html", "page.html")
	require.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "The sky is blue.")
	assert.Contains(t, text, "The grass is green.")
	assert.NotContains(t, text, "alert(1)")
	assert.NotContains(t, text, "color: red")
}

func TestRegistryUnsupportedFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), []byte{0x89, 0x50}, "image/png", "photo.png")
	assert.ErrorIs(t, err, docqa.ErrUnsupportedFormat)
}

func TestRegistryMissingBackend(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf", "report.pdf")
	assert.ErrorIs(t, err, docqa.ErrMissingCapability)
	assert.False(t, r.Supports(KindPDF))
}

type staticBackend struct{ text string }

func (b staticBackend) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	return b.text, nil
}

func TestRegistryRegisterBackend(t *testing.T) {
	r := NewRegistry()
	r.Register(KindPDF, staticBackend{text: "parsed pdf body"})

	assert.True(t, r.Supports(KindPDF))

	text, err := r.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "parsed pdf body", text)
}
