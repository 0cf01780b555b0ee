package ingest

import "github.com/cognicore/lexiscore/pkg/lexiscore/stoplist"

// Pipeline orchestrates the per-document flow:
// text → tokenization → compounding → stopword filtering → term counts
//
// Compounding runs before stopword removal so that a phrase such as
// "did not like" survives even when "did" and "not" are stopwords.
type Pipeline struct {
	tokenizer  *Tokenizer
	compounder *Compounder
	stoplist   *stoplist.Manager
}

// NewPipeline creates a pipeline with the given components. A nil
// compounder or stoplist disables that stage.
func NewPipeline(tokenizer *Tokenizer, compounder *Compounder, stops *stoplist.Manager) *Pipeline {
	if tokenizer == nil {
		tokenizer = NewTokenizer(DefaultTokenizerOptions())
	}
	return &Pipeline{
		tokenizer:  tokenizer,
		compounder: compounder,
		stoplist:   stops,
	}
}

// ProcessedDoc represents a document after pipeline processing
type ProcessedDoc struct {
	Tokens []string   // raw tokens from the tokenizer
	Terms  []string   // terms after compounding and stopword removal
	Counts TermCounts // term-count table built from Terms
}

// Process runs text through the pipeline. It never fails: empty text
// yields empty output.
func (p *Pipeline) Process(text string) ProcessedDoc {
	// 1. Tokenize
	tokens := p.tokenizer.Tokenize(text)

	// 2. Compound multi-token phrases (greedy longest match)
	terms := tokens
	if p.compounder != nil {
		terms = p.compounder.Apply(tokens)
	}

	// 3. Remove stopwords
	if p.stoplist != nil {
		terms = p.stoplist.Filter(terms)
	}

	// 4. Count
	return ProcessedDoc{
		Tokens: tokens,
		Terms:  terms,
		Counts: CountTerms(terms),
	}
}

// ProcessDoc validates d and runs its text through the pipeline.
func (p *Pipeline) ProcessDoc(d Doc) (ProcessedDoc, error) {
	if err := d.Validate(); err != nil {
		return ProcessedDoc{}, err
	}
	return p.Process(d.Text), nil
}
