// Package rarity implements the corpus-relative BM25 rarity engine: it
// surfaces terms frequent in the current document but rare across the user's
// reference corpus, with a cached and fingerprint-invalidated IDF index.
package rarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// stopwords excluded from both corpus indexing and document scoring. The two
// sides must tokenize identically or IDF lookups silently miss.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "being": true, "been": true,
	"has": true, "have": true, "had": true, "do": true, "does": true,
	"did": true, "that": true, "this": true, "these": true, "those": true,
	"it": true, "its": true, "he": true, "she": true, "his": true, "her": true,
	"they": true, "them": true, "their": true, "we": true, "our": true,
	"you": true, "your": true, "i": true, "me": true, "my": true, "not": true,
	"no": true, "nor": true, "so": true, "if": true, "then": true,
	"than": true, "too": true, "very": true, "can": true, "will": true,
	"just": true, "shall": true, "should": true, "would": true, "could": true,
	"may": true, "might": true, "must": true, "there": true, "here": true,
	"when": true, "where": true, "why": true, "how": true, "which": true,
	"who": true, "whom": true, "what": true, "all": true, "each": true,
	"any": true, "both": true, "more": true, "most": true, "some": true,
	"such": true, "other": true, "into": true, "upon": true, "about": true,
	"against": true, "between": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true, "under": true,
	"over": true, "also": true, "only": true, "same": true, "because": true,
	"while": true, "until": true, "out": true, "up": true, "down": true,
}

// Tokenizer splits text into normalized index terms.
type Tokenizer struct {
	minLen int
}

// NewTokenizer creates a Tokenizer. minLen below 2 is raised to 2.
func NewTokenizer(minLen int) *Tokenizer {
	if minLen < 2 {
		minLen = 2
	}
	return &Tokenizer{minLen: minLen}
}

// Tokenize returns lowercase NFC-normalized word tokens of at least the
// configured length, with stopwords and pure-numeric tokens removed.
func (t *Tokenizer) Tokenize(text string) []string {
	text = norm.NFC.String(text)

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len(word) < t.minLen || stopwords[word] || numericOnly(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func numericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}
