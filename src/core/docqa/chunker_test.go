package docqa

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkerValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 512, overlap: 128},
		{name: "small size for direct splitting", size: 20, overlap: 5},
		{name: "zero overlap", size: 100, overlap: 0},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative size", size: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 200, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.size, tt.overlap)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestChunkerSplitEmptyInput(t *testing.T) {
	c, err := NewChunker(512, 128)
	require.NoError(t, err)

	for _, input := range []string{"", "   ", "\n\n\t  \n"} {
		chunks, err := c.Split(input)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestChunkerSplitShortText(t *testing.T) {
	c, err := NewChunker(512, 128)
	require.NoError(t, err)

	chunks, err := c.Split("The sky is blue.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "The sky is blue.", chunks[0])
}

func TestChunkerSplitRespectsSize(t *testing.T) {
	c, err := NewChunker(20, 5)
	require.NoError(t, err)

	input := "The sky is blue. The grass is green. The sun is bright today."
	chunks, err := c.Split(input)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2, "text longer than the chunk size must split")

	for i, chunk := range chunks {
		assert.LessOrEqualf(t, len([]rune(chunk)), 20, "chunk %d exceeds the configured size", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
		assert.Containsf(t, input, chunk, "chunk %d is not a segment of the input", i)
	}
}

func TestChunkerSplitCoversAllContent(t *testing.T) {
	c, err := NewChunker(20, 5)
	require.NoError(t, err)

	input := "The sky is blue. The grass is green. The sun is bright today."
	chunks, err := c.Split(input)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Map every chunk back onto its position in the source and mark the
	// bytes it covers. Overlapping chunks may reach back into the
	// previous one, so each search starts just past the previous start.
	covered := make([]bool, len(input))
	searchFrom := 0
	for i, chunk := range chunks {
		at := strings.Index(input[searchFrom:], chunk)
		require.GreaterOrEqualf(t, at, 0, "chunk %d not found in input", i)
		start := searchFrom + at
		for j := start; j < start+len(chunk); j++ {
			covered[j] = true
		}
		searchFrom = start + 1
	}

	for i, r := range input {
		if !unicode.IsSpace(r) {
			assert.Truef(t, covered[i], "character %q at offset %d was dropped", r, i)
		}
	}
}

func TestChunkerSplitReassemblesWithoutOverlap(t *testing.T) {
	c, err := NewChunker(20, 0)
	require.NoError(t, err)

	input := "The sky is blue.\nThe grass is green.\n\nThe sun is bright today."
	chunks, err := c.Split(input)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// With no overlap the chunks are disjoint, so joining them must
	// reconstruct the source up to whitespace normalization.
	normalized := strings.Join(strings.Fields(input), " ")
	reassembled := strings.Join(strings.Fields(strings.Join(chunks, " ")), " ")
	assert.Equal(t, normalized, reassembled)
}

func TestChunkerSplitPrefersParagraphBoundaries(t *testing.T) {
	c, err := NewChunker(40, 0)
	require.NoError(t, err)

	chunks, err := c.Split("First paragraph here.\n\nSecond paragraph here.")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph here.", chunks[0])
	assert.Equal(t, "Second paragraph here.", chunks[1])
}

func TestChunkerSplitKeepsOrder(t *testing.T) {
	c, err := NewChunker(30, 0)
	require.NoError(t, err)

	input := "alpha section one.\n\nbravo section two.\n\ncharlie section three."
	chunks, err := c.Split(input)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 3)

	// Each chunk must start at or after the previous one in the source.
	pos := 0
	for i, chunk := range chunks {
		at := strings.Index(input[pos:], chunk)
		require.GreaterOrEqualf(t, at, 0, "chunk %d out of order", i)
		pos += at
	}
}
