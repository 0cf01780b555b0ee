package lexiscore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/lexiscore/internal/logger"
	"github.com/cognicore/lexiscore/pkg/lexiscore/dictionary"
	"github.com/cognicore/lexiscore/pkg/lexiscore/ingest"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/metrics"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
)

// Analyzer is the main scoring facade: it runs documents through the
// pipeline, matches them against the dictionary and optionally persists
// the resulting rows.
type Analyzer struct {
	pipeline *ingest.Pipeline
	dict     *dictionary.Dictionary
	store    store.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	workers  int
	now      func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Analyzer. Only Dictionary is really needed: a nil
// Pipeline uses default tokenizer options with no compounds or stopwords,
// and Store, Metrics and Logger are optional.
type Options struct {
	Pipeline   *ingest.Pipeline
	Dictionary *dictionary.Dictionary
	Store      store.Store
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	// Workers bounds concurrent documents. 0 means GOMAXPROCS.
	Workers int
}

// New creates an Analyzer with the given dependencies
func New(opts Options) (*Analyzer, error) {
	if opts.Workers < 0 {
		return nil, &internalerr.ConfigurationError{Field: "workers", Msg: "must not be negative"}
	}

	a := &Analyzer{
		pipeline: opts.Pipeline,
		dict:     opts.Dictionary,
		store:    opts.Store,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		workers:  opts.Workers,
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	if a.pipeline == nil {
		a.pipeline = ingest.NewPipeline(nil, nil, nil)
	}
	if a.dict == nil {
		d, err := dictionary.New(nil)
		if err != nil {
			return nil, err
		}
		a.dict = d
	}
	if a.logger == nil {
		a.logger = logger.WithComponent("analyzer")
	}
	if a.workers == 0 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	return a, nil
}

// Close releases the store, if any.
func (a *Analyzer) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Dictionary returns the dictionary documents are matched against.
func (a *Analyzer) Dictionary() *dictionary.Dictionary { return a.dict }

// DocError ties a per-document failure or warning to its input.
type DocError struct {
	DocID string
	Index int // position in the input batch
	Err   error
}

func (e *DocError) Error() string {
	return fmt.Sprintf("doc %q (#%d): %v", e.DocID, e.Index, e.Err)
}

func (e *DocError) Unwrap() error { return e.Err }

// Result is the outcome of one Analyze call.
type Result struct {
	RunID      string
	Categories []string
	// Rows holds one row per valid document, in input order. Documents
	// with no surviving terms are included with all-zero counts.
	Rows []score.Row
	// Warnings lists documents that produced no terms.
	Warnings []*DocError
	// Errors lists documents that could not be processed.
	Errors []*DocError
}

// Group aggregates the rows by a metadata key; "" groups by document.
func (r *Result) Group(key string) []score.Group {
	return score.GroupBy(r.Rows, key)
}

type slot struct {
	row score.Row
	err error
}

// Analyze scores a batch of documents. Invalid documents are reported in
// Result.Errors and do not stop the batch. Cancelling ctx stops
// scheduling further documents; Analyze then returns ctx's error and
// nothing is persisted.
func (a *Analyzer) Analyze(ctx context.Context, docs []ingest.Doc) (*Result, error) {
	if a.metrics != nil {
		done := a.metrics.StartBatch()
		defer done()
	}

	runID := a.newID()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx, a.logger)
	log.Debug("analysis started", "docs", len(docs), "workers", a.workers)

	// Each worker writes only its own slot.
	slots := make([]slot, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = a.analyzeDoc(docs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	res := &Result{
		RunID:      runID,
		Categories: a.dict.Categories(),
		Rows:       make([]score.Row, 0, len(docs)),
	}
	for i, s := range slots {
		if s.err != nil {
			res.Errors = append(res.Errors, &DocError{DocID: docs[i].ID, Index: i, Err: s.err})
			log.Warn("document skipped", "doc_id", docs[i].ID, "index", i, "error", s.err)
			a.observe(metrics.StatusError, score.Row{})
			continue
		}
		if s.row.Empty() {
			res.Warnings = append(res.Warnings, &DocError{DocID: docs[i].ID, Index: i, Err: internalerr.ErrEmptyDocument})
			a.observe(metrics.StatusEmpty, s.row)
		} else {
			a.observe(metrics.StatusOK, s.row)
		}
		res.Rows = append(res.Rows, s.row)
	}

	if a.store != nil {
		run := store.Run{
			ID:           runID,
			CreatedAt:    a.now().UTC(),
			Categories:   res.Categories,
			DocCount:     len(res.Rows),
			ErrorCount:   len(res.Errors),
			WarningCount: len(res.Warnings),
		}
		if err := a.store.SaveRun(ctx, run, res.Rows); err != nil {
			return res, fmt.Errorf("save run %s: %w", runID, err)
		}
	}

	log.Info("analysis complete",
		"docs", len(docs),
		"rows", len(res.Rows),
		"warnings", len(res.Warnings),
		"errors", len(res.Errors))
	return res, nil
}

func (a *Analyzer) analyzeDoc(d ingest.Doc) slot {
	processed, err := a.pipeline.ProcessDoc(d)
	if err != nil {
		return slot{err: err}
	}
	counts := a.dict.Match(processed.Counts)
	return slot{row: score.NewRow(d.ID, counts, processed.Counts.Total(), len(processed.Tokens), copyMeta(d.Meta))}
}

func (a *Analyzer) observe(status string, row score.Row) {
	if a.metrics == nil {
		return
	}
	a.metrics.ObserveDocument(status, row.Terms, row.Counts)
}

func (a *Analyzer) newID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(a.now()), a.entropy).String()
}

// Explanation shows how one document was scored.
type Explanation struct {
	DocID         string                               `json:"doc_id"`
	Tokens        []string                             `json:"tokens"`
	Terms         []string                             `json:"terms"`
	Counts        []ingest.TermCount                   `json:"counts"`
	Contributions map[string][]dictionary.Contribution `json:"contributions"`
}

// Explain runs a single document through the pipeline and reports the
// tokens, surviving terms and the terms behind each category count.
func (a *Analyzer) Explain(d ingest.Doc) (*Explanation, error) {
	processed, err := a.pipeline.ProcessDoc(d)
	if err != nil {
		return nil, err
	}
	return &Explanation{
		DocID:         d.ID,
		Tokens:        processed.Tokens,
		Terms:         processed.Terms,
		Counts:        processed.Counts.Sorted(),
		Contributions: a.dict.Contributions(processed.Counts),
	}, nil
}

// Runs lists stored runs, newest first.
func (a *Analyzer) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if a.store == nil {
		return nil, errNoStore
	}
	return a.store.ListRuns(ctx, limit)
}

// LoadRun returns a stored run as a Result. Warnings are rebuilt from
// empty rows; per-document errors are not stored.
func (a *Analyzer) LoadRun(ctx context.Context, id string) (*Result, error) {
	if a.store == nil {
		return nil, errNoStore
	}
	run, err := a.store.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := a.store.Rows(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: run.ID, Categories: run.Categories, Rows: rows}
	for i, r := range rows {
		if r.Empty() {
			res.Warnings = append(res.Warnings, &DocError{DocID: r.DocID, Index: i, Err: internalerr.ErrEmptyDocument})
		}
	}
	return res, nil
}

var errNoStore = errors.New("lexiscore: no store configured")

func copyMeta(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
