package qc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/internal/render"
	"github.com/ShayCichocki/reportqc/internal/report"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// ErrRegenerate is returned when the report could not be rendered. The
// loop stops rather than validate a stale report.
var ErrRegenerate = errors.New("regenerate report")

// Options carries per-run settings for a Controller.
type Options struct {
	// Contact is passed to the renderer.
	Contact string
	// ResearchPath is recorded on every result.
	ResearchPath string
	// ReportPath, if set, receives each rendered report and is recorded on
	// every result.
	ReportPath string
}

// Outcome is the final state of an iteration run.
type Outcome struct {
	State  State
	Rounds int
	// Result is the last round's result.
	Result *models.QCResult
	// Record is the research record the last report was rendered from.
	Record *models.ResearchRecord
	HTML   string
	// ByCategory partitions the last findings for manual review. It is set
	// only when the run is rejected.
	ByCategory map[models.Category][]models.Finding
}

// Passed reports whether the report may be sent.
func (o *Outcome) Passed() bool {
	return o != nil && o.State == StatePassed
}

// Controller runs the validate, fix and regenerate loop.
type Controller struct {
	pipeline *Pipeline
	fixer    Fixer
	renderer render.Renderer
	recorder Recorder
	loop     policy.LoopPolicy
	opts     Options

	sleep func(ctx context.Context, d time.Duration) error
}

// NewController creates a Controller. fixer and recorder may be nil.
func NewController(p *Pipeline, fixer Fixer, r render.Renderer, rec Recorder, loop policy.LoopPolicy, opts Options) *Controller {
	if loop.MaxIterations < 1 {
		loop.MaxIterations = policy.Default().Loop.MaxIterations
	}
	return &Controller{
		pipeline: p,
		fixer:    fixer,
		renderer: r,
		recorder: rec,
		loop:     loop,
		opts:     opts,
		sleep:    sleepContext,
	}
}

// Run iterates over rec until the report passes or the round limit is hit.
// When html is empty the report is rendered first.
func (c *Controller) Run(ctx context.Context, rec *models.ResearchRecord, html string) (*Outcome, error) {
	current := rec.Clone()
	out := &Outcome{State: StateValidating, Record: current}

	if html == "" {
		var err error
		if html, err = c.render(ctx, current, 1); err != nil {
			return out, err
		}
	}

	var (
		result *models.QCResult
		round  = 1
		state  = StateValidating
	)
	for !state.Terminal() {
		log := logging.Log.WithFields(logrus.Fields{"round": round, "state": state})
		var ev Event

		switch state {
		case StateValidating:
			result = c.pipeline.Run(ctx, current, html, round)
			result.ResearchPath, result.ReportPath = c.opts.ResearchPath, c.opts.ReportPath
			if err := c.record(result); err != nil {
				out.Result, out.Rounds, out.HTML = result, round, html
				return out, err
			}
			ev = EventFailed
			if result.Passed() {
				ev = EventPassed
			}

		case StateAnalyzingFailure:
			current = c.fix(ctx, log, current, result.Findings)
			out.Record = current
			ev = EventFixed

		case StateRegenerating:
			if err := c.sleep(ctx, c.loop.RoundDelay); err != nil {
				out.Result, out.Rounds, out.HTML = result, round, html
				return out, err
			}
			next, err := c.render(ctx, current, round+1)
			if err != nil {
				out.Result, out.Rounds, out.HTML = result, round, html
				return out, err
			}
			html = next
			round++
			ev = EventRegenerated
		}

		next, err := Transition(state, ev, round, c.loop.MaxIterations)
		if err != nil {
			return out, err
		}
		log.WithField("next", next).Debug("transition")
		state = next
	}

	out.State, out.Rounds, out.Result, out.HTML = state, round, result, html
	log := logging.Log.WithFields(logrus.Fields{"rounds": round, "firm": current.FirmName})
	if state == StateRejected {
		out.ByCategory = models.GroupByCategory(result.Findings)
		log.Warn("report rejected, manual review required")
	} else {
		log.Info("report passed")
	}
	return out, nil
}

// fix applies AI guidance to rec. Any failure keeps rec.
func (c *Controller) fix(ctx context.Context, log *logrus.Entry, rec *models.ResearchRecord, findings []models.Finding) *models.ResearchRecord {
	if c.fixer == nil {
		log.Debug("no fixer configured, regenerating from the same record")
		return rec
	}

	guidance, err := c.fixer.Guidance(ctx, rec, findings)
	if err != nil {
		log.WithError(err).Warn("fix guidance failed")
		guidance = ""
	}

	fixed, err := c.fixer.Apply(ctx, rec.Clone(), findings, guidance)
	if err != nil {
		log.WithError(err).Warn("fix not applied, keeping previous record")
		return rec
	}
	if fixed == nil {
		log.Warn("fix returned no record, keeping previous record")
		return rec
	}
	return fixed
}

func (c *Controller) render(ctx context.Context, rec *models.ResearchRecord, round int) (string, error) {
	if c.renderer == nil {
		return "", fmt.Errorf("%w: %v", ErrRegenerate, render.ErrNoCommand)
	}
	html, err := c.renderer.Render(ctx, rec, c.opts.Contact)
	if err != nil {
		logging.Log.WithError(err).WithField("round", round).Error("report regeneration failed")
		return "", fmt.Errorf("%w: round %d: %v", ErrRegenerate, round, err)
	}
	if c.opts.ReportPath != "" {
		if err := report.WriteHTML(c.opts.ReportPath, html); err != nil {
			return "", fmt.Errorf("%w: round %d: %v", ErrRegenerate, round, err)
		}
	}
	return html, nil
}

func (c *Controller) record(r *models.QCResult) error {
	if c.recorder == nil {
		return nil
	}
	if err := c.recorder.Record(r); err != nil {
		return fmt.Errorf("record round %d: %w", r.Iteration, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
