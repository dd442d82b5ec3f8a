package docqa

import "context"

// Embedder generates a fixed-length vector for a piece of text. The
// same embedder (same model identifier) must be used for every upsert
// and query within one session's lifetime; this is enforced by
// configuration, not at runtime.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Chat message roles understood by CompletionModel implementations.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single role-tagged message in a completion request.
type Message struct {
	Role    string
	Content string
}

// CompletionModel produces a single synchronous completion for an
// ordered list of messages. No streaming.
type CompletionModel interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Extractor converts raw file bytes into plain text. It reports
// ErrUnsupportedFormat for unrecognized types and ErrMissingCapability
// when the parser backend for a recognized type is not configured.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType, filename string) (string, error)
}

// QueryFilter restricts an index query to a set of document IDs. A nil
// *QueryFilter is unrestricted; a filter with no IDs matches nothing.
type QueryFilter struct {
	DocumentIDs []string
}

// SessionIndex is one session's persistent vector collection. Upsert is
// idempotent per chunk ID. Query results come back ordered by ascending
// distance and the filter is applied at the index layer so the top-K is
// never skewed by post-filtering.
type SessionIndex interface {
	Upsert(ctx context.Context, chunkID, text string, embedding []float32, meta ChunkMetadata) error
	Query(ctx context.Context, embedding []float32, k int, filter *QueryFilter) ([]Match, error)
	Delete(ctx context.Context, chunkID string) error
	Close() error
}

// IndexProvider opens session indexes. Open fails with
// ErrSessionNotFound for a session that was never ingested, which is
// distinct from opening an empty-but-valid index; Create opens the
// index, initializing it on first use.
type IndexProvider interface {
	Open(ctx context.Context, sessionID string) (SessionIndex, error)
	Create(ctx context.Context, sessionID string) (SessionIndex, error)
}

// BlobStore persists raw upload bytes under a session scope and reads
// them back for extraction.
type BlobStore interface {
	Put(ctx context.Context, sessionID, name string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, sessionID, name string) ([]byte, error)
}
