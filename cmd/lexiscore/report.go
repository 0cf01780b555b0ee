package main

import (
	"time"

	"github.com/cognicore/lexiscore/pkg/lexiscore"
	"github.com/cognicore/lexiscore/pkg/lexiscore/config"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
)

type report struct {
	RunID        string                   `json:"run_id"`
	Categories   []string                 `json:"categories"`
	Denominator  score.Denominator        `json:"denominator"`
	GroupBy      string                   `json:"group_by,omitempty"`
	Rows         []rowJSON                `json:"rows"`
	Groups       []groupJSON              `json:"groups,omitempty"`
	Total        groupJSON                `json:"total"`
	Warnings     []docErrorJSON           `json:"warnings,omitempty"`
	Errors       []docErrorJSON           `json:"errors,omitempty"`
	Explanations []*lexiscore.Explanation `json:"explanations,omitempty"`
}

type rowJSON struct {
	score.Row
	lexiscore.Scores
}

type groupJSON struct {
	score.Group
	lexiscore.Scores
}

type docErrorJSON struct {
	DocID string `json:"doc_id"`
	Index int    `json:"index"`
	Error string `json:"error"`
}

func buildReport(res *lexiscore.Result, settings config.Settings, explanations []*lexiscore.Explanation) report {
	scoring := lexiscore.Scoring{
		Categories:  res.Categories,
		Denominator: settings.Denominator,
		Composites:  settings.Composites,
	}

	r := report{
		RunID:        res.RunID,
		Categories:   res.Categories,
		Denominator:  settings.Denominator,
		GroupBy:      settings.GroupBy,
		Rows:         make([]rowJSON, 0, len(res.Rows)),
		Warnings:     docErrors(res.Warnings),
		Errors:       docErrors(res.Errors),
		Explanations: explanations,
	}

	agg := score.NewAggregator(settings.GroupBy)
	for _, row := range res.Rows {
		r.Rows = append(r.Rows, rowJSON{Row: row, Scores: scoring.Score(row.Tally)})
		agg.Add(row)
	}

	if settings.GroupBy != "" {
		for _, g := range agg.Groups() {
			r.Groups = append(r.Groups, groupJSON{Group: g, Scores: scoring.Score(g.Tally)})
		}
	}
	total := agg.Total()
	r.Total = groupJSON{Group: total, Scores: scoring.Score(total.Tally)}

	return r
}

func docErrors(in []*lexiscore.DocError) []docErrorJSON {
	if len(in) == 0 {
		return nil
	}
	out := make([]docErrorJSON, len(in))
	for i, e := range in {
		out[i] = docErrorJSON{DocID: e.DocID, Index: e.Index, Error: e.Err.Error()}
	}
	return out
}

type runJSON struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Categories   []string  `json:"categories"`
	DocCount     int       `json:"doc_count"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
}

func runsReport(runs []store.Run) []runJSON {
	out := make([]runJSON, len(runs))
	for i, r := range runs {
		out[i] = runJSON{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt,
			Categories:   r.Categories,
			DocCount:     r.DocCount,
			ErrorCount:   r.ErrorCount,
			WarningCount: r.WarningCount,
		}
	}
	return out
}
