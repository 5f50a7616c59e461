package services

import (
	"sort"
	"strings"
	"unicode"
)

// TextAnalyzer extracts keyword signals from free text. Task-scoped queries
// use it to turn a task description into an ephemeral context, and the
// relevance scorer uses it to tokenize entity attributes.
type TextAnalyzer interface {
	// ExtractKeywords extracts meaningful keywords from text, sorted for
	// deterministic output
	ExtractKeywords(text string) []string

	// TokenizeWords breaks text into a set of unique lowercase words
	TokenizeWords(text string) map[string]bool
}

// DefaultTextAnalyzer provides a default implementation of TextAnalyzer
type DefaultTextAnalyzer struct {
	stopWords     map[string]bool
	minWordLength int
}

// NewDefaultTextAnalyzer creates a new text analyzer with common English stop words
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{
		stopWords:     defaultStopWords(),
		minWordLength: 3,
	}
}

// ExtractKeywords extracts meaningful keywords from text
func (ta *DefaultTextAnalyzer) ExtractKeywords(text string) []string {
	words := ta.TokenizeWords(text)
	keywords := make([]string, 0, len(words))

	for word := range words {
		if !ta.stopWords[word] && len(word) >= ta.minWordLength {
			keywords = append(keywords, word)
		}
	}

	sort.Strings(keywords)
	return keywords
}

// TokenizeWords breaks text into a set of unique lowercase words
func (ta *DefaultTextAnalyzer) TokenizeWords(text string) map[string]bool {
	words := make(map[string]bool)

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, word := range fields {
		if len(word) > 1 {
			words[word] = true
		}
	}

	return words
}

func defaultStopWords() map[string]bool {
	words := []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "it",
		"for", "not", "on", "with", "as", "you", "do", "at", "this", "but",
		"his", "by", "from", "they", "we", "say", "her", "she", "or", "an",
		"will", "my", "one", "all", "would", "there", "their", "what", "so",
		"up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "make", "can", "like", "time", "no", "just", "him", "know",
		"take", "into", "your", "some", "could", "them", "see", "other",
		"than", "then", "now", "only", "its", "over", "also", "after",
		"use", "two", "how", "our", "way", "new", "want", "because", "any",
		"these", "most", "us", "is", "was", "are", "been", "has", "had",
		"were", "did", "having", "may", "should", "very",
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
