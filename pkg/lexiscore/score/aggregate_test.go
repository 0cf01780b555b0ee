package score

import (
	"reflect"
	"testing"
)

func sampleRows() []Row {
	return []Row{
		NewRow("d1", map[string]int{"pos": 1, "neg": 0}, 2, 4, map[string]string{"country": "fr", "year": "2020"}),
		NewRow("d2", map[string]int{"pos": 3, "neg": 3}, 40, 60, map[string]string{"country": "fr", "year": "2021"}),
		NewRow("d3", map[string]int{"pos": 0, "neg": 2}, 10, 12, map[string]string{"country": "de", "year": "2020"}),
		NewRow("d4", map[string]int{"pos": 0, "neg": 0}, 0, 3, map[string]string{"country": "de"}),
		NewRow("d5", map[string]int{"pos": 2, "neg": 1}, 5, 5, nil),
	}
}

func TestGroupBySumsBeforeRatio(t *testing.T) {
	groups := GroupBy(sampleRows(), "country")

	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups (de, fr, missing), got %d", len(groups))
	}
	byKey := make(map[string]Group)
	for _, g := range groups {
		byKey[g.Key] = g
	}

	fr := byKey["fr"]
	if fr.Docs != 2 || fr.Counts["pos"] != 4 || fr.Terms != 42 {
		t.Errorf("Unexpected fr group: %+v", fr)
	}
	got := mustGet(t, fr.Proportion("pos", Terms))
	if !approx(got, 4.0/42.0) {
		t.Errorf("Expected summed ratio %v, got %v", 4.0/42.0, got)
	}
	// Mean of per-document ratios would be (0.5 + 0.075) / 2.
	if approx(got, (0.5+0.075)/2) {
		t.Error("Group proportion must not be the mean of document proportions")
	}

	if missing := byKey[""]; missing.Docs != 1 || missing.Counts["pos"] != 2 {
		t.Errorf("Rows without key should group under \"\", got %+v", missing)
	}
}

func TestGroupProportionEqualsWeightedMean(t *testing.T) {
	rows := sampleRows()
	for _, d := range []Denominator{Matched, Terms, Tokens} {
		for _, g := range GroupBy(rows, "country") {
			var weighted, weights float64
			for _, r := range rows {
				if r.GroupKey("country") != g.Key {
					continue
				}
				p := r.Proportion("neg", d)
				if !p.Valid {
					continue
				}
				w := float64(r.Total(d))
				weighted += w * p.Float
				weights += w
			}
			gp := g.Proportion("neg", d)
			if weights == 0 {
				if gp.Valid {
					t.Errorf("%v/%s: expected undefined", d, g.Key)
				}
				continue
			}
			if !approx(mustGet(t, gp), weighted/weights) {
				t.Errorf("%v/%s: group %v != weighted mean %v", d, g.Key, gp.Float, weighted/weights)
			}
		}
	}
}

func TestGroupByDocument(t *testing.T) {
	groups := GroupBy(sampleRows(), "")
	if len(groups) != 5 {
		t.Fatalf("Expected one group per document, got %d", len(groups))
	}
	if groups[0].Key != "d1" || groups[0].Docs != 1 {
		t.Errorf("Unexpected first group: %+v", groups[0])
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	rows := sampleRows()

	whole := NewAggregator("year")
	for _, r := range rows {
		whole.Add(r)
	}

	left, right := NewAggregator("year"), NewAggregator("year")
	for i, r := range rows {
		if i%2 == 0 {
			left.Add(r)
		} else {
			right.Add(r)
		}
	}

	ab := NewAggregator("year")
	ab.Merge(left)
	ab.Merge(right)
	ba := NewAggregator("year")
	ba.Merge(right)
	ba.Merge(left)

	if !reflect.DeepEqual(whole.Groups(), ab.Groups()) {
		t.Errorf("Merged groups differ from sequential:\n%+v\n%+v", whole.Groups(), ab.Groups())
	}
	if !reflect.DeepEqual(ab.Groups(), ba.Groups()) {
		t.Error("Merge order changed the result")
	}
}

func TestAggregatorTotal(t *testing.T) {
	a := NewAggregator("country")
	for _, r := range sampleRows() {
		a.Add(r)
	}
	total := a.Total()
	if total.Docs != 5 || total.Counts["pos"] != 6 || total.Counts["neg"] != 6 || total.Terms != 57 {
		t.Errorf("Unexpected total: %+v", total)
	}
}

func TestGroupsAreCopies(t *testing.T) {
	a := NewAggregator("country")
	a.Add(sampleRows()[0])

	g := a.Groups()[0]
	g.Counts["pos"] = 100
	if a.Groups()[0].Counts["pos"] != 1 {
		t.Error("Groups should return copies")
	}
}

func TestNewRowCopiesCounts(t *testing.T) {
	counts := map[string]int{"pos": 1}
	r := NewRow("d", counts, 1, 1, nil)
	counts["pos"] = 9
	if r.Counts["pos"] != 1 {
		t.Error("NewRow should copy counts")
	}
}
