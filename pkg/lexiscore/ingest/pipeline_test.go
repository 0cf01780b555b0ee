package ingest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/stoplist"
)

func newTestPipeline(t *testing.T, stops []string, phrases ...string) *Pipeline {
	t.Helper()
	c, err := NewCompounder(phrases)
	if err != nil {
		t.Fatalf("NewCompounder: %v", err)
	}
	return NewPipeline(NewTokenizer(DefaultTokenizerOptions()), c, stoplist.NewManager(stops))
}

func TestPipelineCompoundsBeforeStopwords(t *testing.T) {
	p := newTestPipeline(t, []string{"the", "was", "but", "i", "did", "not"}, "did not like")

	result := p.Process("The food was great, but I did not like the service.")

	want := []string{"food", "great", "did_not_like", "service"}
	if !reflect.DeepEqual(result.Terms, want) {
		t.Errorf("Expected %v, got %v", want, result.Terms)
	}
	if len(result.Tokens) != 11 {
		t.Errorf("Expected 11 raw tokens, got %d: %v", len(result.Tokens), result.Tokens)
	}
}

func TestPipelineCountsMatchSurvivingTerms(t *testing.T) {
	p := newTestPipeline(t, []string{"the", "a", "and", "of"}, "new york")

	texts := []string{
		"The cat and the dog.",
		"New York, New York: a city of cities",
		"",
		"the the the",
	}
	for _, text := range texts {
		result := p.Process(text)
		if result.Counts.Total() != len(result.Terms) {
			t.Errorf("%q: count total %d != surviving terms %d", text, result.Counts.Total(), len(result.Terms))
		}
	}
}

func TestPipelineOnlyStopwords(t *testing.T) {
	p := newTestPipeline(t, []string{"the", "a", "and", "of", "in"})

	result := p.Process("the and of a in")
	if len(result.Terms) != 0 {
		t.Errorf("Only stopwords should produce 0 terms, got %v", result.Terms)
	}
	if len(result.Tokens) != 5 {
		t.Errorf("Raw tokens should be kept, got %v", result.Tokens)
	}
}

func TestPipelineEmptyText(t *testing.T) {
	p := NewPipeline(nil, nil, nil)

	result := p.Process("")
	if len(result.Tokens) != 0 || len(result.Terms) != 0 || result.Counts.Total() != 0 {
		t.Errorf("Empty text should produce empty output, got %+v", result)
	}
}

func TestPipelineProcessDocInvalid(t *testing.T) {
	p := NewPipeline(nil, nil, nil)

	_, err := p.ProcessDoc(Doc{ID: "x", Text: "\xff"})
	if !errors.Is(err, internalerr.ErrInvalidDocument) {
		t.Errorf("Expected ErrInvalidDocument, got %v", err)
	}

	result, err := p.ProcessDoc(Doc{ID: "ok", Text: "Terrible."})
	if err != nil {
		t.Fatalf("ProcessDoc: %v", err)
	}
	if !reflect.DeepEqual(result.Terms, []string{"terrible"}) {
		t.Errorf("Expected [terrible], got %v", result.Terms)
	}
}
