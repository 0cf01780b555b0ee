package score

import "sort"

// Row is the scored result of one document.
type Row struct {
	DocID string            `json:"doc_id"`
	Meta  map[string]string `json:"meta,omitempty"`
	Tally
}

// NewRow builds a row from a document's category counts and totals.
// counts is copied.
func NewRow(docID string, counts map[string]int, terms, tokens int, meta map[string]string) Row {
	return Row{
		DocID: docID,
		Meta:  meta,
		Tally: Tally{Counts: copyCounts(counts), Terms: terms, Tokens: tokens},
	}
}

// Empty reports whether no term survived filtering.
func (r Row) Empty() bool {
	return r.Terms == 0
}

// GroupKey returns the value r groups under for key. The empty key groups
// by document.
func (r Row) GroupKey(key string) string {
	if key == "" {
		return r.DocID
	}
	return r.Meta[key]
}

// Group is the summed tally of all documents sharing a grouping key.
type Group struct {
	Key  string `json:"key"`
	Docs int    `json:"docs"`
	Tally
}

// Aggregator reduces rows into groups by summing counts and totals.
// Add and Merge only add, so partial aggregators built by independent
// workers can be merged in any order with identical results.
// An Aggregator is not safe for concurrent use; give each worker its own
// and Merge them.
type Aggregator struct {
	key    string
	groups map[string]*Group
}

// NewAggregator creates an aggregator grouping by the metadata key. An
// empty key groups by document ID. Rows without the key are grouped
// under "".
func NewAggregator(key string) *Aggregator {
	return &Aggregator{key: key, groups: make(map[string]*Group)}
}

// Key returns the grouping key.
func (a *Aggregator) Key() string { return a.key }

// Add folds one row into its group.
func (a *Aggregator) Add(r Row) {
	k := r.GroupKey(a.key)
	g, ok := a.groups[k]
	if !ok {
		g = &Group{Key: k}
		a.groups[k] = g
	}
	g.Docs++
	g.add(r.Tally)
}

// Merge adds every group of o into a.
func (a *Aggregator) Merge(o *Aggregator) {
	for k, og := range o.groups {
		g, ok := a.groups[k]
		if !ok {
			g = &Group{Key: k}
			a.groups[k] = g
		}
		g.Docs += og.Docs
		g.add(og.Tally)
	}
}

// Groups returns the groups sorted by key.
func (a *Aggregator) Groups() []Group {
	out := make([]Group, 0, len(a.groups))
	for _, g := range a.groups {
		out = append(out, Group{Key: g.Key, Docs: g.Docs, Tally: g.clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Total returns one group summing every row added so far.
func (a *Aggregator) Total() Group {
	total := Group{Tally: Tally{Counts: map[string]int{}}}
	for _, g := range a.groups {
		total.Docs += g.Docs
		total.add(g.Tally)
	}
	return total
}

// GroupBy is a convenience for aggregating a slice of rows.
func GroupBy(rows []Row, key string) []Group {
	a := NewAggregator(key)
	for _, r := range rows {
		a.Add(r)
	}
	return a.Groups()
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
