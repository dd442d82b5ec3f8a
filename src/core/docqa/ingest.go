package docqa

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docqa/src/infrastructure/log"
)

type ingestionService struct {
	chunker   *Chunker
	embedder  Embedder
	extractor Extractor
	blobs     BlobStore
	indexes   IndexProvider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIngestionService wires the full ingestion pipeline: store raw
// bytes, extract text, chunk, embed, upsert into the session index.
func NewIngestionService(chunker *Chunker, embedder Embedder, extractor Extractor, blobs BlobStore, indexes IndexProvider) IngestionService {
	return &ingestionService{
		chunker:   chunker,
		embedder:  embedder,
		extractor: extractor,
		blobs:     blobs,
		indexes:   indexes,
		locks:     make(map[string]*sync.Mutex),
	}
}

// sessionLock serializes writers for one session. Different sessions
// never contend. Locks are never evicted: the map holds one entry per
// distinct session ingested over the process lifetime, a few words
// each under the interactive usage model.
func (s *ingestionService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// validSessionID rejects IDs that could not name a session-scoped
// storage location. Storage backends validate again, but the check
// here runs before any blob or index write.
func validSessionID(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

type pendingChunk struct {
	key       ChunkKey
	text      string
	embedding []float32
	meta      ChunkMetadata
}

func (s *ingestionService) Ingest(ctx context.Context, files []UploadFile, sessionID string) (string, []Document, error) {
	// The batch bound is checked before anything touches storage or an
	// external capability.
	if len(files) == 0 {
		return "", nil, fmt.Errorf("%w: please upload at least one document", ErrBadInput)
	}
	if len(files) > MaxUploadFiles {
		return "", nil, fmt.Errorf("%w: you can upload a maximum of %d documents per request", ErrBadInput, MaxUploadFiles)
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	} else if !validSessionID(sessionID) {
		return "", nil, fmt.Errorf("%w: invalid session id %q", ErrBadInput, sessionID)
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	documents := make([]Document, 0, len(files))
	var pending []pendingChunk

	for _, f := range files {
		doc, chunks, err := s.prepareFile(ctx, sessionID, f)
		if err != nil {
			return "", nil, err
		}
		documents = append(documents, doc)
		pending = append(pending, chunks...)
	}

	// All files prepared and embedded; only now does the batch commit
	// to the session index.
	index, err := s.indexes.Create(ctx, sessionID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open session index: %w", err)
	}
	defer index.Close()

	for _, p := range pending {
		if err := index.Upsert(ctx, p.key.String(), p.text, p.embedding, p.meta); err != nil {
			return "", nil, fmt.Errorf("failed to store chunk %s: %w", p.key, err)
		}
	}

	log.Info("ingested documents",
		"session_id", sessionID,
		"documents", len(documents),
		"chunks", len(pending))

	return sessionID, documents, nil
}

// prepareFile runs the per-file stages that need no index access:
// persist raw bytes, extract, chunk, embed.
func (s *ingestionService) prepareFile(ctx context.Context, sessionID string, f UploadFile) (Document, []pendingChunk, error) {
	data, err := io.ReadAll(f.Content)
	if err != nil {
		return Document{}, nil, fmt.Errorf("%w: failed to read %s: %v", ErrBadInput, f.Filename, err)
	}

	documentID := uuid.New().String()
	filename := filepath.Base(f.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		filename = "document"
	}
	storedName := fmt.Sprintf("%s_%s", documentID, filename)

	storedPath, err := s.blobs.Put(ctx, sessionID, storedName, data, f.ContentType)
	if err != nil {
		return Document{}, nil, fmt.Errorf("failed to store %s: %w", filename, err)
	}

	// Extract from the stored copy so what was parsed is exactly what
	// was persisted.
	stored, err := s.blobs.Get(ctx, sessionID, storedName)
	if err != nil {
		return Document{}, nil, fmt.Errorf("failed to read back %s: %w", storedName, err)
	}

	text, err := s.extractor.Extract(ctx, stored, f.ContentType, filename)
	if err != nil {
		return Document{}, nil, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, nil, fmt.Errorf("%w: %s does not contain readable text", ErrBadInput, filename)
	}

	chunks, err := s.chunker.Split(text)
	if err != nil {
		return Document{}, nil, fmt.Errorf("failed to chunk %s: %w", filename, err)
	}
	if len(chunks) == 0 {
		return Document{}, nil, fmt.Errorf("%w: %s could not be chunked into readable sections", ErrBadInput, filename)
	}

	pending := make([]pendingChunk, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return Document{}, nil, fmt.Errorf("failed to embed chunk %d of %s: %w: %w", i, filename, ErrUpstream, err)
		}
		key := ChunkKey{DocumentID: documentID, Index: i}
		pending = append(pending, pendingChunk{
			key:       key,
			text:      chunk,
			embedding: embedding,
			meta: ChunkMetadata{
				DocumentID: documentID,
				Source:     storedName,
				ChunkIndex: i,
				SessionID:  sessionID,
			},
		})
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return Document{
		DocumentID:  documentID,
		Filename:    filename,
		ContentType: contentType,
		StoredPath:  storedPath,
		ChunkCount:  len(chunks),
	}, pending, nil
}
