package tokenizer

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// TiktokenTokenizer splits text into BPE tokens, so two corpora can be
// compared by how often each token occurs.
type TiktokenTokenizer struct {
	codec tokenizer.Codec
}

// NewTiktokenTokenizer creates a TiktokenTokenizer for the named encoding.
// An empty encoding selects cl100k_base.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	enc := tokenizer.Cl100kBase
	if encoding != "" {
		enc = tokenizer.Encoding(encoding)
	}

	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("tiktoken encoding %q: %w", enc, err)
	}
	return &TiktokenTokenizer{codec: codec}, nil
}

// Tokenize returns the token strings of text. This is a local operation.
func (t *TiktokenTokenizer) Tokenize(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	_, tokens, err := t.codec.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("tiktoken encode failed: %w", err)
	}
	return tokens, nil
}
