package docqa

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// MinChunkSize is the smallest chunk size the service configuration
// accepts. Smaller chunks carry too little context to be worth
// embedding; the bound is enforced where configuration is loaded so
// tests can exercise the splitter with small sizes directly.
const MinChunkSize = 128

// Chunker splits extracted document text into overlapping, ordered
// segments. It prefers paragraph boundaries, then lines, then spaces,
// then arbitrary character positions, keeping each piece at most Size
// characters. Overlap counts toward the size: a chunk is never longer
// than Size, overlap included.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size %d must be positive", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be non-negative and smaller than chunk size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns the ordered chunks of text. The result is empty only
// for empty or whitespace-only input; callers must treat that as an
// ingestion error, not a silent skip. A chunk's position in the result
// is its ChunkKey index.
func (c *Chunker) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.size),
		textsplitter.WithChunkOverlap(c.overlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
	)

	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(p) == "" {
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks, nil
}
