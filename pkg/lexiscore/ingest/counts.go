package ingest

import "sort"

// TermCounts maps a surviving term to its number of occurrences in one
// document. Every count is at least 1.
type TermCounts map[string]int

// TermCount is a single entry of a TermCounts table.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// CountTerms builds the term-count table for one document's filtered
// terms. Order of terms does not matter.
func CountTerms(terms []string) TermCounts {
	counts := make(TermCounts, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		counts[t]++
	}
	return counts
}

// Total returns the sum of all counts.
func (c TermCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Terms returns the distinct terms, sorted.
func (c TermCounts) Terms() []string {
	out := make([]string, 0, len(c))
	for t := range c {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Sorted returns entries by count descending, then term ascending.
func (c TermCounts) Sorted() []TermCount {
	out := make([]TermCount, 0, len(c))
	for t, n := range c {
		out = append(out, TermCount{Term: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}
