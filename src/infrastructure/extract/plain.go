package extract

import (
	"context"
	"strings"
)

// plainText decodes bytes as UTF-8 text.
type plainText struct{}

func (plainText) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	return strings.TrimSpace(string(data)), nil
}
