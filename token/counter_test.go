package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCounter(t *testing.T) {
	counter := NewSplitCounter()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t ", 0},
		{"single word", "contrato", 1},
		{"words", "o presente contrato tem por objeto", 6},
		{"punctuation counts", "Art. 1", 3},
		{"accented words", "CLÁUSULA PRIMEIRA", 2},
		{"mixed", "1.1 Do prazo: 30 dias.", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, counter.Count(tt.text))
		})
	}
}

func TestSplitCounterDeterminism(t *testing.T) {
	counter := NewSplitCounter()
	text := "CLÁUSULA 1ª - DO OBJETO\nTexto A\n\nCLÁUSULA 2ª - DO PRAZO\nTexto B"
	first := counter.Count(text)
	for range 10 {
		assert.Equal(t, first, counter.Count(text))
	}
}
