package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TokenizerOptions controls which tokens survive tokenization.
type TokenizerOptions struct {
	RemovePunct   bool `yaml:"remove_punct"`
	RemoveNumbers bool `yaml:"remove_numbers"`
	RemoveSymbols bool `yaml:"remove_symbols"`
	Lowercase     bool `yaml:"lowercase"`
}

// DefaultTokenizerOptions drops punctuation, numbers and symbols and
// lower-cases everything.
func DefaultTokenizerOptions() TokenizerOptions {
	return TokenizerOptions{
		RemovePunct:   true,
		RemoveNumbers: true,
		RemoveSymbols: true,
		Lowercase:     true,
	}
}

// Tokenizer splits text into an ordered token sequence.
type Tokenizer struct {
	opts TokenizerOptions
}

// NewTokenizer creates a tokenizer with the given options
func NewTokenizer(opts TokenizerOptions) *Tokenizer {
	return &Tokenizer{opts: opts}
}

// Options returns the tokenizer configuration.
func (t *Tokenizer) Options() TokenizerOptions {
	return t.opts
}

// Tokenize splits text into tokens, preserving source order.
// Word tokens are runs of letters, digits and marks; an apostrophe or
// hyphen between two such runes stays inside the word ("don't", "gpt-4").
// Each punctuation or symbol rune becomes its own token.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	text = norm.NFKC.String(text)
	runes := []rune(text)

	tokens := make([]string, 0, len(runes)/4)
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if t.opts.RemoveNumbers && isNumeric(word) {
			return
		}
		tokens = append(tokens, t.fold(word))
	}

	var prev rune
	for i, r := range runes {
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case isWordRune(r):
			current.WriteRune(r)
		case isJoiner(r) && current.Len() > 0 && isWordRune(next):
			current.WriteRune(r)
		case isDecimalMark(r) && current.Len() > 0 && unicode.IsDigit(prev) && unicode.IsDigit(next):
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r):
			flush()
			if !t.opts.RemovePunct {
				tokens = append(tokens, string(r))
			}
		case unicode.IsSymbol(r):
			flush()
			if !t.opts.RemoveSymbols {
				tokens = append(tokens, string(r))
			}
		default:
			// control and other non-printing runes separate tokens
			flush()
		}
		prev = r
	}
	flush()

	return tokens
}

func (t *Tokenizer) fold(word string) string {
	if !t.opts.Lowercase {
		return word
	}
	return cases.Lower(language.Und).String(word)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func isDecimalMark(r rune) bool {
	return r == '.' || r == ','
}

func isJoiner(r rune) bool {
	return r == '\'' || r == '-' || r == '’'
}

// isNumeric reports whether the token is digits, optionally with inner
// '.' or ',' separators ("3.14", "1,000"). Mixed tokens like "gpt-4" or
// "python3" are not numeric.
func isNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case isDecimalMark(r):
		default:
			return false
		}
	}
	return digits > 0
}
