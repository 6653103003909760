package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/reportqc/internal/aiqc"
	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/cache"
	"github.com/ShayCichocki/reportqc/internal/config"
	"github.com/ShayCichocki/reportqc/internal/exec"
	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/internal/qc"
	"github.com/ShayCichocki/reportqc/internal/render"
	"github.com/ShayCichocki/reportqc/internal/state"
	"github.com/ShayCichocki/reportqc/internal/validation"
)

// components are the collaborators shared by check and iterate.
type components struct {
	pipeline *qc.Pipeline
	client   api.Completer
	verdicts *cache.Memory
	history  *state.DB
}

// Close logs the language model usage of the run and releases the history
// database.
func (c *components) Close() {
	logUsage(c.client, c.verdicts)
	if c.history != nil {
		c.history.Close()
	}
}

// logUsage reports token usage, estimated spend and verdict cache
// effectiveness for clients that track usage.
func logUsage(client api.Completer, verdicts *cache.Memory) {
	tracker := api.TrackerOf(client)
	if tracker == nil || tracker.Calls() == 0 {
		return
	}
	in, out := tracker.Total()
	fields := logrus.Fields{
		"model":         client.Model(),
		"calls":         tracker.Calls(),
		"input_tokens":  in,
		"output_tokens": out,
	}
	if cost, ok := tracker.Cost(); ok {
		fields["cost_usd"] = fmt.Sprintf("%.4f", cost)
	}
	if verdicts != nil {
		hits, misses := verdicts.Stats()
		fields["cache_entries"] = verdicts.Len()
		fields["cache_hits"] = hits
		fields["cache_misses"] = misses
	}
	logging.Log.WithFields(fields).Info("language model usage")
}

// recorder writes the result file and, when available, the history row.
func (c *components) recorder(resultPath string) qc.Recorder {
	rs := qc.Recorders{qc.FileRecorder{Path: resultPath}}
	if c.history != nil {
		rs = append(rs, qc.HistoryRecorder{Store: c.history})
	}
	return rs
}

// buildComponents wires the pipeline from cfg. A missing model is not an
// error: the AI phase is skipped. A history database that cannot be opened
// is logged and skipped.
func buildComponents(ctx context.Context, cfg *config.Config, noAI bool) (*components, error) {
	p := cfg.Policy()

	rules := validation.DefaultRules()
	if cfg.Rules.File != "" {
		var err error
		if rules, err = validation.LoadRules(cfg.Rules.File); err != nil {
			return nil, err
		}
	}

	c := &components{}
	if !noAI && !cfg.QC.SkipAI {
		client, err := api.NewFromConfig(ctx, cfg)
		switch {
		case errors.Is(err, api.ErrNotConfigured):
			logging.Log.WithError(err).Info("language model not configured, AI phase will be skipped")
		case err != nil:
			return nil, err
		default:
			c.client = client
		}
	}

	var analyzer *aiqc.Analyzer
	if c.client != nil {
		c.verdicts = cache.NewMemory()
		analyzer = aiqc.NewAnalyzer(c.client, c.verdicts, p.AI)
	}
	c.pipeline = qc.NewPipeline(validation.New(p, rules), analyzer, p)
	if noAI || cfg.QC.SkipAI {
		c.pipeline.DisableAI()
	}

	if cfg.Output.HistoryDB != "" {
		db, err := state.OpenAndMigrate(cfg.Output.HistoryDB)
		if err != nil {
			logging.Log.WithError(err).Warn("history database unavailable, runs will not be recorded")
		} else {
			c.history = db
		}
	}
	return c, nil
}

// newRenderer builds the configured renderer, or nil when none is set.
func newRenderer(cfg *config.Config) render.Renderer {
	if len(cfg.Render.Command) == 0 {
		return nil
	}
	return render.NewCommand(exec.NewRunner(), cfg.Render.Command, cfg.Render.Output, "")
}
