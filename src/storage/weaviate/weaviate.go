// Package weaviate backs session indexes with a remote Weaviate
// instance, one class per session. It is the alternative to the default
// on-disk sqlindex backend for deployments that already run Weaviate;
// note that it trades the per-session directory isolation of the local
// backend for class-level isolation inside one remote store.
package weaviate

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"docqa/src/core/docqa"
)

// chunkIDNamespace derives deterministic Weaviate object IDs from chunk
// IDs so re-ingesting the same chunk overwrites instead of duplicating.
var chunkIDNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Provider opens session-scoped classes on one Weaviate instance.
type Provider struct {
	client *weaviate.Client
}

func NewProvider(client *weaviate.Client) *Provider {
	return &Provider{client: client}
}

// className maps a session ID onto a valid Weaviate class name. Session
// IDs are hex-encoded because class names only allow [A-Za-z0-9_].
func className(sessionID string) string {
	return "Session_" + hex.EncodeToString([]byte(sessionID))
}

func (p *Provider) classExists(ctx context.Context, class string) (bool, error) {
	schema, err := p.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %w", err)
	}
	for _, c := range schema.Classes {
		if c.Class == class {
			return true, nil
		}
	}
	return false, nil
}

// Open returns the index for an already-ingested session. A missing
// class means the session was never ingested.
func (p *Provider) Open(ctx context.Context, sessionID string) (docqa.SessionIndex, error) {
	class := className(sessionID)
	exists, err := p.classExists(ctx, class)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", docqa.ErrSessionNotFound, sessionID)
	}
	return &index{client: p.client, class: class}, nil
}

// Create opens the session's index, creating its class on first use.
func (p *Provider) Create(ctx context.Context, sessionID string) (docqa.SessionIndex, error) {
	class := className(sessionID)
	exists, err := p.classExists(ctx, class)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := p.createClass(ctx, class); err != nil {
			return nil, err
		}
	}
	return &index{client: p.client, class: class}, nil
}

func (p *Provider) createClass(ctx context.Context, class string) error {
	properties := []*models.Property{
		{Name: "chunkId", DataType: []string{"text"}},
		{Name: "documentId", DataType: []string{"text"}},
		{Name: "sessionId", DataType: []string{"text"}},
		{Name: "source", DataType: []string{"text"}},
		{Name: "chunkIndex", DataType: []string{"int"}},
		{Name: "text", DataType: []string{"text"}},
	}
	err := p.client.Schema().ClassCreator().WithClass(&models.Class{
		Class:      class,
		Properties: properties,
		Vectorizer: "none",
	}).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %w", class, err)
	}
	return nil
}

// DeleteSession removes a session's class and all its vectors.
func (p *Provider) DeleteSession(ctx context.Context, sessionID string) error {
	if err := p.client.Schema().ClassDeleter().WithClassName(className(sessionID)).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete session class: %w", err)
	}
	return nil
}

type index struct {
	client *weaviate.Client
	class  string
}

func objectID(chunkID string) string {
	return uuid.NewSHA1(chunkIDNamespace, []byte(chunkID)).String()
}

func (x *index) Upsert(ctx context.Context, chunkID, text string, embedding []float32, meta docqa.ChunkMetadata) error {
	obj := &models.Object{
		ID:     strfmt.UUID(objectID(chunkID)),
		Class:  x.class,
		Vector: embedding,
		Properties: map[string]interface{}{
			"chunkId":    chunkID,
			"documentId": meta.DocumentID,
			"sessionId":  meta.SessionID,
			"source":     meta.Source,
			"chunkIndex": meta.ChunkIndex,
			"text":       text,
		},
	}

	resp, err := x.client.Batch().ObjectsBatcher().WithObjects(obj).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert chunk %s: %w", chunkID, err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("upsert of chunk %s returned no result", chunkID)
	}
	// The batch call succeeds even when individual objects are rejected;
	// those failures only show up on the per-object results.
	for _, r := range resp {
		if err := batchObjectError(r); err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", chunkID, err)
		}
	}
	return nil
}

func batchObjectError(r models.ObjectsGetResponse) error {
	if r.Result == nil || r.Result.Errors == nil {
		return nil
	}
	for _, item := range r.Result.Errors.Error {
		if item != nil && item.Message != "" {
			return fmt.Errorf("object rejected: %s", item.Message)
		}
	}
	return nil
}

func (x *index) Query(ctx context.Context, embedding []float32, k int, filter *docqa.QueryFilter) ([]docqa.Match, error) {
	if filter != nil && len(filter.DocumentIDs) == 0 {
		return []docqa.Match{}, nil
	}

	fields := []graphql.Field{
		{Name: "documentId"},
		{Name: "sessionId"},
		{Name: "source"},
		{Name: "chunkIndex"},
		{Name: "text"},
		{Name: "_additional { distance }"},
	}

	nearVector := x.client.GraphQL().NearVectorArgBuilder().WithVector(embedding)

	query := x.client.GraphQL().Get().
		WithClassName(x.class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(k)

	if filter != nil {
		query = query.WithWhere(filters.Where().
			WithPath([]string{"documentId"}).
			WithOperator(filters.ContainsAny).
			WithValueText(filter.DocumentIDs...))
	}

	result, err := query.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	matches := []docqa.Match{}
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return matches, nil
	}
	objects, ok := data[x.class].([]interface{})
	if !ok {
		return matches, nil
	}

	for _, obj := range objects {
		props, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		m := docqa.Match{}
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			if d, ok := additional["distance"].(float64); ok {
				m.Distance = d
			}
		}
		if v, ok := props["text"].(string); ok {
			m.Text = v
		}
		if v, ok := props["documentId"].(string); ok {
			m.Metadata.DocumentID = v
		}
		if v, ok := props["sessionId"].(string); ok {
			m.Metadata.SessionID = v
		}
		if v, ok := props["source"].(string); ok {
			m.Metadata.Source = v
		}
		if v, ok := props["chunkIndex"].(float64); ok {
			m.Metadata.ChunkIndex = int(v)
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func (x *index) Delete(ctx context.Context, chunkID string) error {
	err := x.client.Data().Deleter().
		WithClassName(x.class).
		WithID(objectID(chunkID)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete chunk %s: %w", chunkID, err)
	}
	return nil
}

// Close is a no-op; the underlying client is shared across sessions.
func (x *index) Close() error {
	return nil
}
