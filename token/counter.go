package token

// Counter converts text to a token count.
//
// Chunking never depends on which subword scheme is active: the counter is
// a swappable strategy so the tokenization can track whatever vocabulary
// the embedding model uses. Implementations must be safe for concurrent use.
type Counter interface {
	// Count returns the number of tokens in text. Empty text counts as 0.
	Count(text string) int
}
