// Package aiqc runs the AI-analysis phase: a single language model review
// of the rendered report whose verdict is folded into the finding list.
// The phase is advisory. When it cannot run, or fails, it contributes no
// findings and records why.
package aiqc

import (
	"context"
	"encoding/json"

	"github.com/ShayCichocki/reportqc/internal/api"
	"github.com/ShayCichocki/reportqc/internal/cache"
	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// Skip reasons recorded on the verdict.
const (
	SkipNoClient   = "no language model configured"
	SkipGateFailed = "identity gate failed"
	SkipDisabled   = "disabled"
)

// Result is the outcome of one analysis.
type Result struct {
	Findings []models.Finding
	Verdict  models.AIVerdict
}

// Analyzer issues the analysis request.
type Analyzer struct {
	client api.Completer
	cache  cache.Store
	policy policy.AIPolicy
}

// NewAnalyzer creates an Analyzer. client may be nil, in which case every
// analysis is skipped. store may be nil to disable caching.
func NewAnalyzer(client api.Completer, store cache.Store, p policy.AIPolicy) *Analyzer {
	return &Analyzer{client: client, cache: store, policy: p}
}

// Skipped returns a result for a phase that did not run.
func Skipped(reason string) Result {
	return Result{Verdict: models.AIVerdict{Skipped: true, SkipReason: reason}}
}

// Analyze reviews html for rec. gateFailed skips the call when the
// record's identity is not trustworthy.
func (a *Analyzer) Analyze(ctx context.Context, rec *models.ResearchRecord, html string, gateFailed bool) Result {
	if a == nil || a.client == nil {
		return Skipped(SkipNoClient)
	}
	if gateFailed {
		return Skipped(SkipGateFailed)
	}

	prompt := BuildPrompt(rec, Excerpt(html, rec.Website, a.policy.ExcerptChars))
	key := cache.Key(a.client.Model(), systemPrompt, prompt)
	log := logging.Log.WithField("phase", "ai")

	if a.cache != nil {
		if data, ok := a.cache.Get(key); ok {
			var r Reply
			if err := json.Unmarshal(data, &r); err == nil {
				log.Debug("using cached analysis")
				res := a.result(&r)
				res.Verdict.Cached = true
				return res
			}
		}
	}

	reply, err := a.client.Complete(ctx, api.Request{
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: a.policy.AnalysisMaxTokens,
		Timeout:   a.policy.AnalysisTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("analysis request failed")
		return Result{Verdict: models.AIVerdict{Error: err.Error()}}
	}

	r, err := ParseReply(reply)
	if err != nil {
		log.WithError(err).Warn("analysis reply unusable")
		return Result{Verdict: models.AIVerdict{Error: err.Error()}}
	}

	if a.cache != nil {
		if data, err := json.Marshal(r); err == nil {
			a.cache.Put(key, data)
		}
	}
	return a.result(r)
}

func (a *Analyzer) result(r *Reply) Result {
	return Result{
		Findings: r.Findings(),
		Verdict: models.AIVerdict{
			Ran:          true,
			WouldAct:     bool(r.WouldAct),
			BiggestIssue: r.BiggestIssue,
		},
	}
}
