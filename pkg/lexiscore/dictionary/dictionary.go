// Package dictionary matches term-count tables against category word
// lists. A Dictionary is compiled once per analysis run and is safe for
// concurrent use by many workers.
package dictionary

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/pattern"
)

// Category is a named pattern list as written in configuration.
type Category struct {
	Name     string
	Patterns []string
}

// Dictionary is an ordered set of compiled categories.
type Dictionary struct {
	categories []compiledCategory
	index      map[string]int
}

type compiledCategory struct {
	name      string
	raw       []string
	exact     map[string]struct{} // folded literal terms
	wildcards []*pattern.Pattern
}

// Counts maps category name to the number of matched term occurrences.
type Counts map[string]int

// Sum returns the total over all categories. A term matching several
// categories is included once per category.
func (c Counts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// New compiles categories. It fails with a ConfigurationError when a
// category name is empty or repeated, and with a PatternError when a
// pattern is empty or has no literal characters.
func New(categories []Category) (*Dictionary, error) {
	d := &Dictionary{
		categories: make([]compiledCategory, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for i, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, &internalerr.ConfigurationError{
				Field: fmt.Sprintf("dictionary[%d]", i),
				Msg:   "category name is empty",
			}
		}
		if _, dup := d.index[name]; dup {
			return nil, &internalerr.ConfigurationError{
				Field: fmt.Sprintf("dictionary[%d]", i),
				Msg:   fmt.Sprintf("duplicate category %q", name),
			}
		}

		cc := compiledCategory{
			name:  name,
			raw:   append([]string(nil), cat.Patterns...),
			exact: make(map[string]struct{}),
		}
		for _, raw := range cat.Patterns {
			p, err := pattern.Compile(raw)
			if err != nil {
				var pe *internalerr.PatternError
				if errors.As(err, &pe) {
					pe.Category = name
				}
				return nil, err
			}
			if p.IsExact() {
				cc.exact[p.Literal()] = struct{}{}
			} else {
				cc.wildcards = append(cc.wildcards, p)
			}
		}

		d.index[name] = len(d.categories)
		d.categories = append(d.categories, cc)
	}

	return d, nil
}

// Categories returns category names in configuration order.
func (d *Dictionary) Categories() []string {
	out := make([]string, len(d.categories))
	for i, c := range d.categories {
		out[i] = c.name
	}
	return out
}

// Len returns the number of categories.
func (d *Dictionary) Len() int {
	return len(d.categories)
}

// Patterns returns the configured patterns of a category.
func (d *Dictionary) Patterns(category string) ([]string, bool) {
	i, ok := d.index[category]
	if !ok {
		return nil, false
	}
	return append([]string(nil), d.categories[i].raw...), true
}

func (c *compiledCategory) matches(folded string) bool {
	if _, ok := c.exact[folded]; ok {
		return true
	}
	for _, p := range c.wildcards {
		if p.MatchFolded(folded) {
			return true
		}
	}
	return false
}

// MatchTerm returns the categories a single term belongs to.
func (d *Dictionary) MatchTerm(term string) []string {
	folded := pattern.Fold(term)
	var out []string
	for i := range d.categories {
		if d.categories[i].matches(folded) {
			out = append(out, d.categories[i].name)
		}
	}
	return out
}

// Match computes per-category counts for one document's term-count
// table. Each distinct term adds its count to every category it matches,
// once per category no matter how many of that category's patterns it
// hits. Every category is present in the result, possibly with 0.
func (d *Dictionary) Match(counts map[string]int) Counts {
	result := make(Counts, len(d.categories))
	for _, c := range d.categories {
		result[c.name] = 0
	}
	for term, n := range counts {
		folded := pattern.Fold(term)
		for i := range d.categories {
			if d.categories[i].matches(folded) {
				result[d.categories[i].name] += n
			}
		}
	}
	return result
}

// Contribution is one matched term and its count.
type Contribution struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Contributions lists, per category, which terms produced the count,
// sorted by count descending then term. Categories without matches are
// omitted.
func (d *Dictionary) Contributions(counts map[string]int) map[string][]Contribution {
	out := make(map[string][]Contribution)
	for term, n := range counts {
		folded := pattern.Fold(term)
		for i := range d.categories {
			if d.categories[i].matches(folded) {
				name := d.categories[i].name
				out[name] = append(out[name], Contribution{Term: term, Count: n})
			}
		}
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].Term < list[j].Term
		})
	}
	return out
}
