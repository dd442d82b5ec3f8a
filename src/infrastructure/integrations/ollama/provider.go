package ollama

import (
	"context"

	"docqa/src/core/docqa"
)

// Embedder adapts the client to the core embedding capability for one
// fixed model. The model identifier is part of the session contract:
// all upserts and queries for a session must go through the same model.
type Embedder struct {
	client *Client
	model  string
}

func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.GetEmbedding(ctx, e.model, text)
}

// CompletionModel adapts the client to the core completion capability
// for one fixed chat model.
type CompletionModel struct {
	client *Client
	model  string
}

func NewCompletionModel(client *Client, model string) *CompletionModel {
	return &CompletionModel{client: client, model: model}
}

func (m *CompletionModel) Complete(ctx context.Context, messages []docqa.Message) (string, error) {
	chatMessages := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		chatMessages = append(chatMessages, ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return m.client.Chat(ctx, m.model, chatMessages)
}
