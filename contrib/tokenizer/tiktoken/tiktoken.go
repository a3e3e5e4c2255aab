package tiktoken

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/sweetpotato0/socratiq/rag/tokenizer"
)

// Tokenizer counts tokens with a tiktoken BPE encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

var _ tokenizer.Counter = (*Tokenizer)(nil)

// New resolves name as a model first, then as an encoding name such as
// "cl100k_base".
func New(name string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		// try by name
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}
	return &Tokenizer{enc: enc}, nil
}

// Encode returns token ids for text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// CountTokens implements tokenizer.Counter.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.Encode(text))
}
