// Package pattern compiles dictionary word patterns into reusable
// predicates. A pattern is compiled once and then matched against many
// terms, so all parsing happens in Compile.
//
// Grammar:
//
//	great     exact term, case-insensitive
//	love*     prefix: love, loved, lovely, lover
//	*ness     suffix: kindness, sadness
//	*hope*    substring: hope, hopeful, unhopeful
//	un*able   glob: '*' is zero or more runes, '?' is exactly one rune
//
// Wildcards never stem: the literal part must appear in full, so love*
// rejects "loving" (the e is dropped) as well as "glove". Use lov* to
// cover both love and loving.
//
// Whitespace inside a pattern is replaced by Separator, so the phrase
// "did not like" matches the compound term "did_not_like".
package pattern

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

const (
	// Wildcard matches zero or more runes.
	Wildcard = '*'
	// AnyRune matches exactly one rune.
	AnyRune = '?'
	// Separator joins the tokens of a compound term.
	Separator = "_"
)

// Kind is the matching strategy chosen at compile time.
type Kind int

const (
	Exact Kind = iota
	Prefix
	Suffix
	Contains
	Glob
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Contains:
		return "contains"
	case Glob:
		return "glob"
	}
	return "unknown"
}

// Pattern is a compiled, immutable word pattern. Safe for concurrent use.
type Pattern struct {
	raw     string
	folded  string
	kind    Kind
	literal string
	match   func(string) bool
}

// Fold returns the case-folded form used for all case-insensitive
// comparisons in lexiscore.
func Fold(s string) string {
	// Casers carry state and must not be shared between goroutines.
	return cases.Fold().String(s)
}

// Compile parses raw into a Pattern.
func Compile(raw string) (*Pattern, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, &internalerr.PatternError{Pattern: raw, Msg: "empty pattern"}
	}
	folded := Fold(collapseWildcards(strings.Join(fields, Separator)))
	if !hasLiteral(folded) {
		return nil, &internalerr.PatternError{Pattern: raw, Msg: "pattern has no literal characters"}
	}

	p := &Pattern{raw: raw, folded: folded}
	p.kind, p.literal = classify(folded)

	lit := p.literal
	switch p.kind {
	case Exact:
		p.match = func(term string) bool { return term == lit }
	case Prefix:
		p.match = func(term string) bool { return strings.HasPrefix(term, lit) }
	case Suffix:
		p.match = func(term string) bool { return strings.HasSuffix(term, lit) }
	case Contains:
		p.match = func(term string) bool { return strings.Contains(term, lit) }
	default:
		glob := []rune(folded)
		p.match = func(term string) bool { return globMatch(glob, []rune(term)) }
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level tables.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Raw returns the pattern as written in configuration.
func (p *Pattern) Raw() string { return p.raw }

// String returns the normalized pattern.
func (p *Pattern) String() string { return p.folded }

// Kind reports the matching strategy.
func (p *Pattern) Kind() Kind { return p.kind }

// Literal returns the literal part for exact/prefix/suffix/contains
// patterns, and the full glob otherwise.
func (p *Pattern) Literal() string { return p.literal }

// IsExact reports whether the pattern contains no wildcard.
func (p *Pattern) IsExact() bool { return p.kind == Exact }

// Match reports whether term matches, ignoring case.
func (p *Pattern) Match(term string) bool {
	return p.match(Fold(term))
}

// MatchFolded is Match for a term already passed through Fold. Callers
// matching one term against many patterns fold once and use this.
func (p *Pattern) MatchFolded(term string) bool {
	return p.match(term)
}

func classify(s string) (Kind, string) {
	if !strings.ContainsAny(s, "*?") {
		return Exact, s
	}
	if strings.ContainsRune(s, AnyRune) {
		return Glob, s
	}
	lead := strings.HasPrefix(s, "*")
	trail := strings.HasSuffix(s, "*")
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "*"), "*")
	if strings.ContainsRune(inner, Wildcard) {
		return Glob, s
	}
	switch {
	case lead && trail:
		return Contains, inner
	case trail:
		return Prefix, inner
	case lead:
		return Suffix, inner
	}
	return Glob, s
}

func collapseWildcards(s string) string {
	for strings.Contains(s, "**") {
		s = strings.ReplaceAll(s, "**", "*")
	}
	return s
}

func hasLiteral(s string) bool {
	for _, r := range s {
		if r != Wildcard && r != AnyRune {
			return true
		}
	}
	return false
}

// globMatch matches s against pat where pat may contain Wildcard and
// AnyRune. Backtracks only to the most recent Wildcard, so it runs in
// O(len(pat)*len(s)) worst case.
func globMatch(pat, s []rune) bool {
	p, i := 0, 0
	star, mark := -1, 0
	for i < len(s) {
		switch {
		case p < len(pat) && pat[p] == Wildcard:
			star, mark = p, i
			p++
		case p < len(pat) && (pat[p] == AnyRune || pat[p] == s[i]):
			p++
			i++
		case star >= 0:
			p = star + 1
			mark++
			i = mark
		default:
			return false
		}
	}
	for p < len(pat) && pat[p] == Wildcard {
		p++
	}
	return p == len(pat)
}
