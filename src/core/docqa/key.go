package docqa

import (
	"fmt"
	"strconv"
	"strings"
)

// ChunkKey identifies a chunk within its session. The wire form is
// "{document_id}_{chunk_index}"; document IDs are UUIDs and contain no
// underscores after the final separator, so the encoding round-trips.
type ChunkKey struct {
	DocumentID string
	Index      int
}

func (k ChunkKey) String() string {
	return fmt.Sprintf("%s_%d", k.DocumentID, k.Index)
}

// ParseChunkKey decodes the wire form produced by String.
func ParseChunkKey(s string) (ChunkKey, error) {
	sep := strings.LastIndex(s, "_")
	if sep <= 0 || sep == len(s)-1 {
		return ChunkKey{}, fmt.Errorf("malformed chunk key %q", s)
	}
	idx, err := strconv.Atoi(s[sep+1:])
	if err != nil || idx < 0 {
		return ChunkKey{}, fmt.Errorf("malformed chunk index in key %q", s)
	}
	return ChunkKey{DocumentID: s[:sep], Index: idx}, nil
}
