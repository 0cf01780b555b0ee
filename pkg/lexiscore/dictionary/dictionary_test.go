package dictionary

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

func mustNew(t *testing.T, cats ...Category) *Dictionary {
	t.Helper()
	d, err := New(cats)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestMatchSentimentExample(t *testing.T) {
	d := mustNew(t,
		Category{Name: "positive", Patterns: []string{"great", "like", "love*"}},
		Category{Name: "negative", Patterns: []string{"terrible", "did not like"}},
	)

	counts := map[string]int{"food": 1, "great": 1, "did_not_like": 1, "service": 1}
	got := d.Match(counts)

	want := Counts{"positive": 1, "negative": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestMatchSumsTermCounts(t *testing.T) {
	d := mustNew(t, Category{Name: "positive", Patterns: []string{"good", "love*"}})

	got := d.Match(map[string]int{"good": 3, "loved": 2, "lovely": 1, "loving": 4})
	if got["positive"] != 6 {
		t.Errorf("Expected 6, got %d", got["positive"])
	}
}

func TestMatchTermCountedOncePerCategory(t *testing.T) {
	d := mustNew(t, Category{Name: "positive", Patterns: []string{"love*", "lov*", "loved", "*ove*"}})

	got := d.Match(map[string]int{"loved": 2})
	if got["positive"] != 2 {
		t.Errorf("Term matching several patterns should count once, got %d", got["positive"])
	}
}

func TestMatchOverlappingCategoriesCountIndependently(t *testing.T) {
	d := mustNew(t,
		Category{Name: "positive", Patterns: []string{"sick*"}},
		Category{Name: "negative", Patterns: []string{"sick"}},
	)

	got := d.Match(map[string]int{"sick": 2})
	if got["positive"] != 2 || got["negative"] != 2 {
		t.Errorf("Overlapping term should count in both categories, got %v", got)
	}
	if got.Sum() != 4 {
		t.Errorf("Sum should include both categories, got %d", got.Sum())
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	d := mustNew(t, Category{Name: "negative", Patterns: []string{"Terrible"}})

	got := d.Match(map[string]int{"TERRIBLE": 1})
	if got["negative"] != 1 {
		t.Errorf("Expected case-insensitive match, got %v", got)
	}
}

func TestMatchAllCategoriesPresent(t *testing.T) {
	d := mustNew(t,
		Category{Name: "positive", Patterns: []string{"good"}},
		Category{Name: "negative", Patterns: []string{"bad"}},
		Category{Name: "empty"},
	)

	got := d.Match(nil)
	want := Counts{"positive": 0, "negative": 0, "empty": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected zero counts for every category, got %v", got)
	}
}

func TestMatchTerm(t *testing.T) {
	d := mustNew(t,
		Category{Name: "economy", Patterns: []string{"tax*", "*market*"}},
		Category{Name: "negative", Patterns: []string{"tax"}},
	)

	if got := d.MatchTerm("tax"); !reflect.DeepEqual(got, []string{"economy", "negative"}) {
		t.Errorf("Expected both categories in order, got %v", got)
	}
	if got := d.MatchTerm("supermarkets"); !reflect.DeepEqual(got, []string{"economy"}) {
		t.Errorf("Expected economy, got %v", got)
	}
	if got := d.MatchTerm("bread"); len(got) != 0 {
		t.Errorf("Expected no categories, got %v", got)
	}
}

func TestCategoriesKeepOrder(t *testing.T) {
	d := mustNew(t,
		Category{Name: "zeta", Patterns: []string{"z"}},
		Category{Name: "alpha", Patterns: []string{"a"}},
	)
	if got := d.Categories(); !reflect.DeepEqual(got, []string{"zeta", "alpha"}) {
		t.Errorf("Expected configuration order, got %v", got)
	}
	if d.Len() != 2 {
		t.Errorf("Expected 2 categories, got %d", d.Len())
	}

	pats, ok := d.Patterns("alpha")
	if !ok || !reflect.DeepEqual(pats, []string{"a"}) {
		t.Errorf("Expected [a], got %v %v", pats, ok)
	}
	if _, ok := d.Patterns("missing"); ok {
		t.Error("Unknown category should report false")
	}
}

func TestNewConfigurationErrors(t *testing.T) {
	tests := map[string][]Category{
		"empty name":     {{Name: "", Patterns: []string{"x"}}},
		"blank name":     {{Name: "  ", Patterns: []string{"x"}}},
		"duplicate name": {{Name: "pos", Patterns: []string{"x"}}, {Name: "pos", Patterns: []string{"y"}}},
	}
	for name, cats := range tests {
		_, err := New(cats)
		if !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
		var ce *internalerr.ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("%s: expected *ConfigurationError", name)
		}
	}
}

func TestNewPatternErrors(t *testing.T) {
	_, err := New([]Category{{Name: "pos", Patterns: []string{"good", ""}}})
	if !errors.Is(err, internalerr.ErrInvalidPattern) {
		t.Fatalf("Expected ErrInvalidPattern, got %v", err)
	}
	var pe *internalerr.PatternError
	if !errors.As(err, &pe) {
		t.Fatal("Expected *PatternError")
	}
	if pe.Category != "pos" {
		t.Errorf("PatternError should name the category, got %q", pe.Category)
	}
}

func TestContributions(t *testing.T) {
	d := mustNew(t,
		Category{Name: "positive", Patterns: []string{"good*", "great"}},
		Category{Name: "negative", Patterns: []string{"bad"}},
	)

	got := d.Contributions(map[string]int{"good": 1, "goodness": 3, "great": 1, "meh": 5})
	want := map[string][]Contribution{
		"positive": {{"goodness", 3}, {"good", 1}, {"great", 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
