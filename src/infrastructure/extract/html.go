package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlText extracts visible text from an HTML document, one block
// element per line.
type htmlText struct{}

func (htmlText) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var lines []string
	root.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			lines = append(lines, t)
		}
	})

	// Documents without block markup still carry their text on body.
	if len(lines) == 0 {
		if t := strings.TrimSpace(root.Text()); t != "" {
			lines = append(lines, t)
		}
	}

	return strings.Join(lines, "\n"), nil
}
