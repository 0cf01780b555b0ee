package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/cognicore/lexiscore/internal/corpus"
	"github.com/cognicore/lexiscore/internal/logger"
	"github.com/cognicore/lexiscore/pkg/lexiscore"
	"github.com/cognicore/lexiscore/pkg/lexiscore/config"
	"github.com/cognicore/lexiscore/pkg/lexiscore/metrics"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/sqlite"
)

func main() {
	var (
		input       = flag.String("input", "", "Path to JSONL corpus (required unless -run or -list-runs)")
		stoplistCfg = flag.String("stoplist", "", "Stoplist YAML file")
		compounds   = flag.String("compounds", "", "Compound phrases file")
		dictCfg     = flag.String("dictionary", "", "Dictionary YAML file (required)")
		settingsCfg = flag.String("settings", "", "Settings YAML file")
		dbPath      = flag.String("db", "", "SQLite database to store runs in")
		groupBy     = flag.String("group-by", "", "Metadata key to group by (overrides settings)")
		denominator = flag.String("denominator", "", "matched, terms or tokens (overrides settings)")
		explain     = flag.Bool("explain", false, "Include per-document term contributions")
		dumpMetrics = flag.Bool("metrics", false, "Write Prometheus metrics to stderr when done")
		runID       = flag.String("run", "", "Print the report of a stored run (requires -db)")
		listRuns    = flag.Bool("list-runs", false, "List stored runs (requires -db)")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		logFormat   = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	slogger := logger.Setup(*logLevel, *logFormat)

	if *input == "" && *runID == "" && !*listRuns {
		log.Fatal("--input required")
	}
	if *dictCfg == "" && *input != "" {
		log.Fatal("--dictionary required")
	}
	if (*runID != "" || *listRuns) && *dbPath == "" {
		log.Fatal("--db required with --run and --list-runs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.Loader{
		StoplistPath:   *stoplistCfg,
		CompoundsPath:  *compounds,
		DictionaryPath: *dictCfg,
		SettingsPath:   *settingsCfg,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	settings := components.Settings
	if *groupBy != "" {
		settings.GroupBy = *groupBy
	}
	if *denominator != "" {
		d, err := score.ParseDenominator(*denominator)
		if err != nil {
			log.Fatalf("parse denominator: %v", err)
		}
		settings.Denominator = d
	}

	var st store.Store
	if *dbPath != "" {
		st, err = sqlite.OpenSQLite(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
	}

	reg := prometheus.NewRegistry()
	analyzer, err := lexiscore.New(lexiscore.Options{
		Pipeline:   components.Pipeline,
		Dictionary: components.Dictionary,
		Store:      st,
		Metrics:    metrics.New(reg),
		Logger:     slogger.With("component", "analyzer"),
		Workers:    settings.Workers,
	})
	if err != nil {
		log.Fatalf("create analyzer: %v", err)
	}
	defer analyzer.Close()

	var out any
	switch {
	case *listRuns:
		runs, err := analyzer.Runs(ctx, 0)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		out = runsReport(runs)

	case *runID != "":
		res, err := analyzer.LoadRun(ctx, *runID)
		if err != nil {
			log.Fatalf("load run: %v", err)
		}
		if err := config.ValidateComposites(settings.Composites, res.Categories); err != nil {
			log.Fatalf("composites for run %s: %v", res.RunID, err)
		}
		out = buildReport(res, settings, nil)

	default:
		docs, err := corpus.LoadJSONL(*input, slogger)
		if err != nil {
			log.Fatalf("load docs: %v", err)
		}
		res, err := analyzer.Analyze(ctx, docs)
		if err != nil {
			log.Fatalf("analyze: %v", err)
		}

		var explanations []*lexiscore.Explanation
		if *explain {
			for _, d := range docs {
				ex, err := analyzer.Explain(d)
				if err != nil {
					continue
				}
				explanations = append(explanations, ex)
			}
		}
		out = buildReport(res, settings, explanations)
	}

	if err := writeJSON(os.Stdout, out); err != nil {
		log.Fatalf("write report: %v", err)
	}

	if *dumpMetrics {
		if err := writeMetrics(os.Stderr, reg); err != nil {
			log.Fatalf("write metrics: %v", err)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
