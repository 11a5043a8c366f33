package token

import (
	"unicode"
)

// SplitCounter is a deterministic approximation that counts alphanumeric
// runs and individual punctuation marks. It needs no vocabulary files,
// which makes it the counter of choice for tests and offline tooling.
// Production chunking should use TiktokenCounter so counts line up with
// the embedding model.
type SplitCounter struct{}

var _ Counter = SplitCounter{}

// NewSplitCounter creates a vocabulary-free counter.
func NewSplitCounter() Counter {
	return SplitCounter{}
}

// Count returns the number of word and punctuation tokens in text.
func (SplitCounter) Count(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				count++
				inWord = true
			}
		case unicode.IsSpace(r):
			inWord = false
		default:
			// Each punctuation mark is its own token.
			count++
			inWord = false
		}
	}
	return count
}
