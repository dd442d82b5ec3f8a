package docqa

import (
	"context"
	"fmt"
)

type retrieverService struct {
	indexes  IndexProvider
	embedder Embedder
}

// NewRetriever returns a Retriever backed by the given index provider
// and embedder. The embedder must be the same one used at ingestion
// time for the queried sessions.
func NewRetriever(indexes IndexProvider, embedder Embedder) Retriever {
	return &retrieverService{indexes: indexes, embedder: embedder}
}

func (r *retrieverService) Retrieve(ctx context.Context, sessionID, question string, k int, documentIDs []string) ([]Match, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1", ErrBadInput)
	}

	index, err := r.indexes.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	// An explicitly empty document set matches nothing; only an absent
	// filter is unrestricted.
	if documentIDs != nil && len(documentIDs) == 0 {
		return []Match{}, nil
	}

	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w: %w", ErrUpstream, err)
	}

	var filter *QueryFilter
	if documentIDs != nil {
		filter = &QueryFilter{DocumentIDs: documentIDs}
	}

	matches, err := index.Query(ctx, embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query session index: %w", err)
	}
	return matches, nil
}
