package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
)

func TestMemstoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New()
	defer st.Close()

	rows := []score.Row{
		score.NewRow("d1", map[string]int{"positive": 1}, 3, 5, map[string]string{"country": "fr"}),
	}
	run := store.Run{ID: "r1", CreatedAt: time.Now(), Categories: []string{"positive"}, DocCount: 1}
	if err := st.SaveRun(ctx, run, rows); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's data must not affect the store.
	rows[0].Counts["positive"] = 99
	rows[0].Meta["country"] = "de"

	loaded, err := st.Rows(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded[0].Counts["positive"] != 1 || loaded[0].Meta["country"] != "fr" {
		t.Errorf("Store should keep copies, got %+v", loaded[0])
	}

	got, err := st.GetRun(ctx, "r1")
	if err != nil || got.DocCount != 1 {
		t.Errorf("GetRun = %+v, %v", got, err)
	}
}

func TestMemstoreNotFound(t *testing.T) {
	st := New()
	if _, err := st.GetRun(context.Background(), "x"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := st.Rows(context.Background(), "x"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemstoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	st := New()
	for _, id := range []string{"01A", "01C", "01B"} {
		st.SaveRun(ctx, store.Run{ID: id}, nil)
	}

	runs, _ := st.ListRuns(ctx, 2)
	if len(runs) != 2 || runs[0].ID != "01C" || runs[1].ID != "01B" {
		t.Errorf("Unexpected order: %+v", runs)
	}

	st.DeleteRun(ctx, "01C")
	runs, _ = st.ListRuns(ctx, 0)
	if len(runs) != 2 || runs[0].ID != "01B" {
		t.Errorf("Unexpected runs after delete: %+v", runs)
	}
}

func TestMemstoreRequiresID(t *testing.T) {
	err := New().SaveRun(context.Background(), store.Run{}, nil)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
