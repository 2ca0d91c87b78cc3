// Package tokenizer turns raw text into term frequencies for free-text queries.
package tokenizer

import (
	"regexp"
	"strings"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Tokenize lowercases the text and splits it on every run of characters that
// are neither letters nor digits.
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Analyzer tokenizes text and drops stopwords. Stopwords must be lowercase.
type Analyzer struct {
	Stopwords map[string]struct{}
}

// Terms returns the tokens of text that are not stopwords, in text order.
func (a Analyzer) Terms(text string) []string {
	tokens := Tokenize(text)
	terms := tokens[:0]
	for _, token := range tokens {
		if _, stop := a.Stopwords[token]; stop {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Frequencies counts the occurrences of every term of text.
func (a Analyzer) Frequencies(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, term := range a.Terms(text) {
		frequencies[term]++
	}
	return frequencies
}

// Document analyzes text into a document with the given ID.
func (a Analyzer) Document(id, text string) model.Document {
	return model.Document{ID: id, Frequencies: a.Frequencies(text)}
}
