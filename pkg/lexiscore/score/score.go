// Package score turns per-document category counts into proportions,
// composite indices and neutral fractions, per document or per group.
//
// Group scores sum counts and totals first and divide second. This is
// not the mean of per-document ratios: it weights each document by its
// total, so short documents do not dominate a group.
package score

import (
	"fmt"
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

// Denominator selects the total a count is divided by.
type Denominator int

const (
	// Matched divides by the sum of all category counts.
	Matched Denominator = iota
	// Terms divides by the number of terms surviving stopword removal.
	Terms
	// Tokens divides by the raw token count before compounding and
	// stopword removal.
	Tokens
)

func (d Denominator) String() string {
	switch d {
	case Matched:
		return "matched"
	case Terms:
		return "terms"
	case Tokens:
		return "tokens"
	}
	return fmt.Sprintf("denominator(%d)", int(d))
}

// ParseDenominator parses "matched", "terms" or "tokens". Empty means
// Matched.
func ParseDenominator(s string) (Denominator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "matched":
		return Matched, nil
	case "terms":
		return Terms, nil
	case "tokens":
		return Tokens, nil
	}
	return Matched, &internalerr.ConfigurationError{Field: "denominator", Msg: fmt.Sprintf("unknown value %q", s)}
}

// MarshalText implements encoding.TextMarshaler.
func (d Denominator) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Denominator) UnmarshalText(text []byte) error {
	v, err := ParseDenominator(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Tally holds category counts and totals for a document or a group.
type Tally struct {
	Counts map[string]int `json:"counts"`
	Terms  int            `json:"terms"`
	Tokens int            `json:"tokens"`
}

// Matched returns the sum of all category counts.
func (t Tally) Matched() int {
	total := 0
	for _, n := range t.Counts {
		total += n
	}
	return total
}

// Total returns the denominator value selected by d.
func (t Tally) Total(d Denominator) int {
	switch d {
	case Terms:
		return t.Terms
	case Tokens:
		return t.Tokens
	default:
		return t.Matched()
	}
}

// Proportion returns count(category) / Total(d).
func (t Tally) Proportion(category string, d Denominator) Value {
	return Ratio(float64(t.Counts[category]), float64(t.Total(d)))
}

// Proportions returns Proportion for each category.
func (t Tally) Proportions(categories []string, d Denominator) map[string]Value {
	out := make(map[string]Value, len(categories))
	for _, c := range categories {
		out[c] = t.Proportion(c, d)
	}
	return out
}

// Neutral returns (total − matched) / total: the share of the total that
// matched no category. With overlapping categories a term is counted more
// than once and the result can drop below 0. It is not clamped.
func (t Tally) Neutral(d Denominator) Value {
	total := t.Total(d)
	return Ratio(float64(total-t.Matched()), float64(total))
}

// Composite returns c's score for this tally.
func (t Tally) Composite(c Composite) Value {
	return c.Score(t)
}

func (t *Tally) add(o Tally) {
	if t.Counts == nil {
		t.Counts = make(map[string]int, len(o.Counts))
	}
	for cat, n := range o.Counts {
		t.Counts[cat] += n
	}
	t.Terms += o.Terms
	t.Tokens += o.Tokens
}

func (t Tally) clone() Tally {
	c := Tally{Counts: make(map[string]int, len(t.Counts)), Terms: t.Terms, Tokens: t.Tokens}
	for k, v := range t.Counts {
		c.Counts[k] = v
	}
	return c
}

// Composite is a linear combination of category counts divided by a
// chosen denominator, e.g. (positive − negative) / terms.
type Composite struct {
	Name        string             `yaml:"name" json:"name"`
	Weights     map[string]float64 `yaml:"weights" json:"weights"`
	Denominator Denominator        `yaml:"denominator" json:"denominator"`
}

// NetComposite returns (positive − negative) / d.
func NetComposite(name, positive, negative string, d Denominator) Composite {
	return Composite{
		Name:        name,
		Weights:     map[string]float64{positive: 1, negative: -1},
		Denominator: d,
	}
}

// Validate checks that every weighted category exists.
func (c Composite) Validate(categories []string) error {
	known := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		known[cat] = struct{}{}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &internalerr.ConfigurationError{Field: "composites", Msg: "composite name is empty"}
	}
	if len(c.Weights) == 0 {
		return &internalerr.ConfigurationError{Field: "composites." + c.Name, Msg: "no weights"}
	}
	for cat := range c.Weights {
		if _, ok := known[cat]; !ok {
			return &internalerr.ConfigurationError{
				Field: "composites." + c.Name,
				Msg:   fmt.Sprintf("unknown category %q", cat),
			}
		}
	}
	return nil
}

// Score computes Σ weight·count / Total(Denominator).
func (c Composite) Score(t Tally) Value {
	num := 0.0
	for cat, w := range c.Weights {
		num += w * float64(t.Counts[cat])
	}
	return Ratio(num, float64(t.Total(c.Denominator)))
}
