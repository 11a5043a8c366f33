package token

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the subword scheme shared with the embedding models
// of the text-embedding-3 family.
const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts tokens with a tiktoken BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var _ Counter = (*TiktokenCounter)(nil)

// NewTiktokenCounter creates a counter for the cl100k_base encoding.
func NewTiktokenCounter() (Counter, error) {
	return NewTiktokenCounterForEncoding(DefaultEncoding)
}

// NewTiktokenCounterForEncoding creates a counter for a named tiktoken encoding.
// The encoding is loaded eagerly so that Count itself can never fail.
func NewTiktokenCounterForEncoding(name string) (Counter, error) {
	encoding, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the number of BPE tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}
