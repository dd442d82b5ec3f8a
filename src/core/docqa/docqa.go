package docqa

import (
	"context"
	"errors"
	"io"
)

// MaxUploadFiles is the upper bound on documents accepted per ingestion
// request. The limit is deliberate: sessions are single-user interactive
// scopes and large batches belong to a bulk import surface, not this one.
const MaxUploadFiles = 2

var (
	ErrBadInput          = errors.New("bad input")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingCapability = errors.New("required capability is not configured")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUpstream          = errors.New("upstream capability failure")
)

// UploadFile is a single incoming document before ingestion.
type UploadFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Document describes one ingested file. It is created once during
// ingestion and never mutated afterwards.
type Document struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	StoredPath  string `json:"stored_path"`
	ChunkCount  int    `json:"chunk_count"`
}

// ChunkMetadata travels with every chunk into and out of the session
// index. SessionID is stored redundantly so an index can prove its own
// scoping.
type ChunkMetadata struct {
	DocumentID string
	Source     string
	ChunkIndex int
	SessionID  string
}

// Match is a retrieved chunk ordered by ascending distance, most
// similar first.
type Match struct {
	Text     string
	Metadata ChunkMetadata
	Distance float64
}

// Citation points from an answer back to the chunk that justified it.
type Citation struct {
	DocumentID  string `json:"document_id"`
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
	TextSnippet string `json:"text_snippet"`
}

// Answer is a grounded reply with its supporting citations. Citations
// are positionally aligned with the context blocks the model saw.
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// IngestionService turns uploaded files into embedded chunks inside a
// per-session index. A missing sessionID mints a new session.
type IngestionService interface {
	Ingest(ctx context.Context, files []UploadFile, sessionID string) (string, []Document, error)
}

// Retriever returns the chunks most similar to a question. A nil
// documentIDs slice means unrestricted; an explicitly empty slice
// matches nothing.
type Retriever interface {
	Retrieve(ctx context.Context, sessionID, question string, k int, documentIDs []string) ([]Match, error)
}

// ChatService answers a question from retrieved evidence only.
type ChatService interface {
	Answer(ctx context.Context, sessionID, question string, documentIDs []string) (*Answer, error)
}
