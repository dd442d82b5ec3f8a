package docqa

import (
	"context"
	"fmt"
	"strings"

	"docqa/src/infrastructure/log"
)

type chatService struct {
	retriever Retriever
	model     CompletionModel
	topK      int
}

// NewChatService builds the answer synthesizer. topK is the number of
// chunks retrieved as evidence for each question.
func NewChatService(retriever Retriever, model CompletionModel, topK int) (ChatService, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top-k %d must be at least 1", topK)
	}
	return &chatService{retriever: retriever, model: model, topK: topK}, nil
}

func (s *chatService) Answer(ctx context.Context, sessionID, question string, documentIDs []string) (*Answer, error) {
	matches, err := s.retriever.Retrieve(ctx, sessionID, question, s.topK, documentIDs)
	if err != nil {
		return nil, err
	}

	// No evidence means the fixed fallback, with no model call. The
	// grounding contract forbids answering from the model's own
	// knowledge, and skipping the call keeps the no-evidence path cheap
	// and deterministic.
	if len(matches) == 0 {
		return &Answer{Answer: FallbackAnswer, Citations: []Citation{}}, nil
	}

	contextBlock, citations := buildContext(matches)

	messages := []Message{
		{Role: RoleSystem, Content: groundingSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(groundingUserPrompt, contextBlock, question)},
	}

	completion, err := s.model.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w: %w", ErrUpstream, err)
	}

	answer := strings.TrimSpace(completion)
	if answer == "" {
		// A silent model reply must never reach the caller as a blank
		// answer.
		log.Info("model returned empty completion, substituting fallback", "session_id", sessionID)
		answer = FallbackAnswer
	}

	return &Answer{Answer: answer, Citations: citations}, nil
}

// buildContext renders the matches into the context block the model
// sees and the citations returned to the caller. Both keep retrieval
// order, so bracketed references in the answer correlate positionally
// with the citation list.
func buildContext(matches []Match) (string, []Citation) {
	blocks := make([]string, 0, len(matches))
	citations := make([]Citation, 0, len(matches))

	for _, m := range matches {
		text := strings.TrimSpace(m.Text)
		blocks = append(blocks, fmt.Sprintf("[%s#chunk%d] %s", m.Metadata.DocumentID, m.Metadata.ChunkIndex, text))
		citations = append(citations, Citation{
			DocumentID:  m.Metadata.DocumentID,
			Source:      m.Metadata.Source,
			ChunkIndex:  m.Metadata.ChunkIndex,
			TextSnippet: truncate(text, snippetLimit),
		})
	}

	return strings.Join(blocks, "\n\n"), citations
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
