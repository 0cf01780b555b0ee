package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/pattern"
)

// CompoundRule is a multi-token phrase merged into a single term before
// stopword filtering and counting. Each token may be a wildcard pattern;
// a bare "*" token matches any one token.
type CompoundRule struct {
	Phrase string
	tokens []*pattern.Pattern // nil matches any token
}

// Len returns the number of tokens the rule consumes.
func (r CompoundRule) Len() int { return len(r.tokens) }

// Compounder merges configured phrases into single terms using greedy
// longest-match. Tokens of a merged phrase are joined by pattern.Separator.
type Compounder struct {
	rules []CompoundRule // longest first, then configuration order
}

// NewCompounder compiles phrases into rules. Each phrase is split on
// whitespace and needs at least two tokens.
func NewCompounder(phrases []string) (*Compounder, error) {
	rules := make([]CompoundRule, 0, len(phrases))
	for i, phrase := range phrases {
		fields := strings.Fields(phrase)
		if len(fields) < 2 {
			return nil, &internalerr.ConfigurationError{
				Field: fmt.Sprintf("compounds[%d]", i),
				Msg:   fmt.Sprintf("phrase %q needs at least two tokens", phrase),
			}
		}
		rule := CompoundRule{Phrase: strings.Join(fields, " ")}
		literal := false
		for _, f := range fields {
			// A bare "*" stands for any single token ("not *").
			if strings.Trim(f, string(pattern.Wildcard)) == "" {
				rule.tokens = append(rule.tokens, nil)
				continue
			}
			p, err := pattern.Compile(f)
			if err != nil {
				return nil, fmt.Errorf("compounds[%d]: %w", i, err)
			}
			rule.tokens = append(rule.tokens, p)
			literal = true
		}
		if !literal {
			return nil, &internalerr.ConfigurationError{
				Field: fmt.Sprintf("compounds[%d]", i),
				Msg:   fmt.Sprintf("phrase %q has no literal token", phrase),
			}
		}
		rules = append(rules, rule)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].tokens) > len(rules[j].tokens)
	})

	return &Compounder{rules: rules}, nil
}

// Rules returns the compiled rules in the order they are tried.
func (c *Compounder) Rules() []CompoundRule {
	out := make([]CompoundRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Apply scans tokens left to right. At each position rules are tried
// longest first; ties go to the rule listed first. A matched phrase is
// emitted as one term and the scan resumes after it. Terms that already
// contain pattern.Separator are compounds and never take part in a match,
// so applying the same rules twice yields the same output.
func (c *Compounder) Apply(tokens []string) []string {
	if len(c.rules) == 0 || len(tokens) < 2 {
		out := make([]string, len(tokens))
		copy(out, tokens)
		return out
	}

	folded := make([]string, len(tokens))
	for i, tok := range tokens {
		folded[i] = pattern.Fold(tok)
	}

	result := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		n := c.matchAt(folded, i)
		if n > 0 {
			result = append(result, strings.Join(tokens[i:i+n], pattern.Separator))
			i += n
			continue
		}
		result = append(result, tokens[i])
		i++
	}
	return result
}

// matchAt returns the length of the first rule matching at position i,
// or 0 when none does.
func (c *Compounder) matchAt(folded []string, i int) int {
	remaining := len(folded) - i
	for _, rule := range c.rules {
		n := len(rule.tokens)
		if n > remaining {
			continue
		}
		if rule.matches(folded[i : i+n]) {
			return n
		}
	}
	return 0
}

func (r CompoundRule) matches(window []string) bool {
	for k, p := range r.tokens {
		if strings.Contains(window[k], pattern.Separator) {
			return false
		}
		if p != nil && !p.MatchFolded(window[k]) {
			return false
		}
	}
	return true
}
