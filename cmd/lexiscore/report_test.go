package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/lexiscore/pkg/lexiscore"
	"github.com/cognicore/lexiscore/pkg/lexiscore/config"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/metrics"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
)

func testResult() *lexiscore.Result {
	return &lexiscore.Result{
		RunID:      "01RUN",
		Categories: []string{"positive", "negative"},
		Rows: []score.Row{
			score.NewRow("a", map[string]int{"positive": 2, "negative": 0}, 4, 5, map[string]string{"country": "fr"}),
			score.NewRow("b", map[string]int{"positive": 0, "negative": 0}, 0, 1, map[string]string{"country": "de"}),
		},
		Warnings: []*lexiscore.DocError{{DocID: "b", Index: 1, Err: internalerr.ErrEmptyDocument}},
		Errors:   []*lexiscore.DocError{{DocID: "", Index: 2, Err: errors.New("bad")}},
	}
}

func TestBuildReportJSON(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Denominator = score.Terms
	settings.GroupBy = "country"
	settings.Composites = []score.Composite{score.NetComposite("net", "positive", "negative", score.Terms)}

	var buf bytes.Buffer
	if err := writeJSON(&buf, buildReport(testResult(), settings, nil)); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}

	var decoded struct {
		Denominator string `json:"denominator"`
		Rows        []struct {
			DocID       string              `json:"doc_id"`
			Counts      map[string]int      `json:"counts"`
			Proportions map[string]*float64 `json:"proportions"`
			Neutral     *float64            `json:"neutral"`
			Composites  map[string]*float64 `json:"composites"`
		} `json:"rows"`
		Groups []struct {
			Key  string `json:"key"`
			Docs int    `json:"docs"`
		} `json:"groups"`
		Total struct {
			Docs    int      `json:"docs"`
			Neutral *float64 `json:"neutral"`
		} `json:"total"`
		Errors []docErrorJSON `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Denominator != "terms" {
		t.Errorf("Expected denominator terms, got %q", decoded.Denominator)
	}
	if len(decoded.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(decoded.Rows))
	}

	a := decoded.Rows[0]
	if a.Proportions["positive"] == nil || *a.Proportions["positive"] != 0.5 {
		t.Errorf("Expected positive 0.5 for a, got %v", a.Proportions["positive"])
	}
	if a.Composites["net"] == nil || *a.Composites["net"] != 0.5 {
		t.Errorf("Expected net 0.5 for a, got %v", a.Composites["net"])
	}

	b := decoded.Rows[1]
	if b.Proportions["positive"] != nil || b.Neutral != nil {
		t.Errorf("Expected null scores for empty doc, got %v %v", b.Proportions["positive"], b.Neutral)
	}

	if len(decoded.Groups) != 2 || decoded.Groups[0].Key != "de" {
		t.Errorf("Unexpected groups %+v", decoded.Groups)
	}
	if decoded.Total.Docs != 2 || decoded.Total.Neutral == nil || *decoded.Total.Neutral != 0.5 {
		t.Errorf("Unexpected total %+v", decoded.Total)
	}
	if len(decoded.Errors) != 1 || decoded.Errors[0].Error != "bad" {
		t.Errorf("Unexpected errors %+v", decoded.Errors)
	}
}

func TestBuildReportWithoutGrouping(t *testing.T) {
	r := buildReport(testResult(), config.DefaultSettings(), nil)
	if r.Groups != nil {
		t.Errorf("Expected no groups without group key, got %d", len(r.Groups))
	}
	if len(r.Warnings) != 1 || r.Warnings[0].DocID != "b" {
		t.Errorf("Unexpected warnings %+v", r.Warnings)
	}
}

func TestWriteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveDocument(metrics.StatusOK, 3, map[string]int{"positive": 2})

	var buf bytes.Buffer
	if err := writeMetrics(&buf, reg); err != nil {
		t.Fatalf("writeMetrics: %v", err)
	}
	if !strings.Contains(buf.String(), `lexiscore_category_matches_total{category="positive"} 2`) {
		t.Errorf("Expected category counter in output, got:\n%s", buf.String())
	}
}
