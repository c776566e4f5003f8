package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordTokenizer splits text into words: maximal runs of letters, digits and
// inner apostrophes. Words are case-folded unless PreserveCase is set.
type WordTokenizer struct {
	PreserveCase bool
	Language     language.Tag
}

// NewWordTokenizer creates a case-folding WordTokenizer
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{Language: language.Und}
}

// Tokenize returns the words of text in order, repeats included
func (t *WordTokenizer) Tokenize(text string) ([]string, error) {
	if !t.PreserveCase {
		text = cases.Lower(t.Language).String(text)
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})

	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "'")
		if w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}
