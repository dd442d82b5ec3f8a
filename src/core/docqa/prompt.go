package docqa

// FallbackAnswer is the exact text returned when no grounding evidence
// exists or the model replies with nothing. It must never be used to
// mask a capability failure.
const FallbackAnswer = "I don't know based on the provided documents"

const groundingSystemPrompt = "You are a helpful assistant that answers questions using ONLY the provided context. " +
	"If the answer is not present in the context, reply exactly with " +
	"'" + FallbackAnswer + "'. Do not use any knowledge outside the context."

const groundingUserPrompt = "Context:\n%s\n\nQuestion: %s\n\nProvide a concise answer."

// snippetLimit bounds citation snippets, in runes.
const snippetLimit = 200
