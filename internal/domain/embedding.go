package domain

// TextKind selects the instruction prefix an embedding request is sent with.
// E5-family models require distinct prefixes for indexed text and queries;
// the two are never interchangeable.
type TextKind string

const (
	// TextPassage marks catalog descriptors and product text.
	TextPassage TextKind = "passage"
	// TextQuery marks user queries.
	TextQuery TextKind = "query"
)

// EmbeddingResult holds a single embedding vector with provider usage stats.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
