// Package sqlindex persists one vector collection per session as a
// SQLite database file under the session's own directory. Similarity is
// brute-force cosine distance computed over all candidate rows, which
// is appropriate for the small per-session corpora this service holds.
package sqlindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"docqa/src/core/docqa"
)

const dbFilename = "index.db"

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	chunk_id    TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	source      TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	text        TEXT NOT NULL,
	embedding   BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
`

// Provider opens per-session indexes rooted at a single directory.
type Provider struct {
	root string
}

func NewProvider(root string) (*Provider, error) {
	if root == "" {
		return nil, fmt.Errorf("index root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index root: %w", err)
	}
	return &Provider{root: root}, nil
}

// sessionDir maps a session ID to its directory, rejecting IDs that
// would escape the root.
func (p *Provider) sessionDir(sessionID string) (string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return "", fmt.Errorf("%w: invalid session id %q", docqa.ErrBadInput, sessionID)
	}
	return filepath.Join(p.root, sessionID), nil
}

// Open returns the index for a session that has been ingested before.
// A session with no directory on disk was never ingested and yields
// ErrSessionNotFound; an existing directory with an empty table is a
// valid, empty index.
func (p *Provider) Open(ctx context.Context, sessionID string) (docqa.SessionIndex, error) {
	dir, err := p.sessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", docqa.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to stat session directory: %w", err)
	}
	return open(dir)
}

// Create opens the session's index, initializing the directory and
// schema on first ingestion.
func (p *Provider) Create(ctx context.Context, sessionID string) (docqa.SessionIndex, error) {
	dir, err := p.sessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return open(dir)
}

func open(dir string) (docqa.SessionIndex, error) {
	path := filepath.Join(dir, dbFilename)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return &index{db: db}, nil
}

type index struct {
	db *sql.DB
}

func (x *index) Upsert(ctx context.Context, chunkID, text string, embedding []float32, meta docqa.ChunkMetadata) error {
	_, err := x.db.ExecContext(ctx, `
		INSERT INTO chunks (chunk_id, document_id, session_id, source, chunk_index, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			session_id  = excluded.session_id,
			source      = excluded.source,
			chunk_index = excluded.chunk_index,
			text        = excluded.text,
			embedding   = excluded.embedding`,
		chunkID, meta.DocumentID, meta.SessionID, meta.Source, meta.ChunkIndex, text, embeddingToBytes(embedding))
	if err != nil {
		return fmt.Errorf("failed to upsert chunk %s: %w", chunkID, err)
	}
	return nil
}

func (x *index) Query(ctx context.Context, embedding []float32, k int, filter *docqa.QueryFilter) ([]docqa.Match, error) {
	if k < 1 {
		return nil, fmt.Errorf("query k %d must be at least 1", k)
	}

	query := `SELECT document_id, session_id, source, chunk_index, text, embedding FROM chunks`
	var args []interface{}
	if filter != nil {
		if len(filter.DocumentIDs) == 0 {
			return []docqa.Match{}, nil
		}
		placeholders := strings.Repeat("?,", len(filter.DocumentIDs))
		query += fmt.Sprintf(" WHERE document_id IN (%s)", placeholders[:len(placeholders)-1])
		for _, id := range filter.DocumentIDs {
			args = append(args, id)
		}
	}

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var matches []docqa.Match
	for rows.Next() {
		var m docqa.Match
		var blob []byte
		if err := rows.Scan(&m.Metadata.DocumentID, &m.Metadata.SessionID, &m.Metadata.Source, &m.Metadata.ChunkIndex, &m.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		m.Distance = cosineDistance(embedding, bytesToEmbedding(blob))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunk rows: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	if matches == nil {
		matches = []docqa.Match{}
	}
	return matches, nil
}

func (x *index) Delete(ctx context.Context, chunkID string) error {
	if _, err := x.db.ExecContext(ctx, `DELETE FROM chunks WHERE chunk_id = ?`, chunkID); err != nil {
		return fmt.Errorf("failed to delete chunk %s: %w", chunkID, err)
	}
	return nil
}

func (x *index) Close() error {
	return x.db.Close()
}

// cosineDistance is 1 - cosine similarity. Zero-norm vectors are
// maximally distant.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// embeddingToBytes packs a vector as little-endian float32 words.
func embeddingToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToEmbedding(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v
}
