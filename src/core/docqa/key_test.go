package docqa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkKeyString(t *testing.T) {
	k := ChunkKey{DocumentID: "4f7a1c9e-0d2b-4c3a-9e8f-1a2b3c4d5e6f", Index: 3}
	assert.Equal(t, "4f7a1c9e-0d2b-4c3a-9e8f-1a2b3c4d5e6f_3", k.String())
}

func TestParseChunkKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ChunkKey
		wantErr bool
	}{
		{
			name:  "round trip",
			input: "doc-123_0",
			want:  ChunkKey{DocumentID: "doc-123", Index: 0},
		},
		{
			name:  "underscore inside document id",
			input: "doc_a_12",
			want:  ChunkKey{DocumentID: "doc_a", Index: 12},
		},
		{name: "no separator", input: "doc-123", wantErr: true},
		{name: "empty document id", input: "_3", wantErr: true},
		{name: "empty index", input: "doc-123_", wantErr: true},
		{name: "non-numeric index", input: "doc-123_abc", wantErr: true},
		{name: "negative index", input: "doc-123_-1", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChunkKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
