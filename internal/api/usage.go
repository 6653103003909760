package api

import (
	"strings"
	"sync"
)

// Pricing is a model's list price in USD per million tokens.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// modelPricing is matched in order against the model name, so more specific
// names come first. Bedrock profile names contain the Anthropic name.
var modelPricing = []struct {
	match string
	price Pricing
}{
	{"claude-haiku-4", Pricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}},
	{"claude-sonnet-4", Pricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}},
	{"claude-opus-4", Pricing{InputPerMillion: 15.00, OutputPerMillion: 75.00}},
	{"gpt-4o-mini", Pricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}},
	{"gpt-4o", Pricing{InputPerMillion: 2.50, OutputPerMillion: 10.00}},
}

// PricingFor returns the list price of model, if known.
func PricingFor(model string) (Pricing, bool) {
	m := strings.ToLower(model)
	for _, p := range modelPricing {
		if strings.Contains(m, p.match) {
			return p.price, true
		}
	}
	return Pricing{}, false
}

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu        sync.Mutex
	model     string
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a tracker priced for model.
func NewTokenTracker(model string) *TokenTracker {
	return &TokenTracker{model: model}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Cost estimates the spend in USD. ok is false for a model with no known
// price.
func (t *TokenTracker) Cost() (usd float64, ok bool) {
	price, ok := PricingFor(t.model)
	if !ok {
		return 0, false
	}
	in, out := t.Total()
	return float64(in)/1_000_000*price.InputPerMillion + float64(out)/1_000_000*price.OutputPerMillion, true
}

// Tracked is implemented by clients that record token usage.
type Tracked interface {
	Tracker() *TokenTracker
}

// TrackerOf returns c's token tracker, or nil when c does not track usage.
func TrackerOf(c Completer) *TokenTracker {
	if t, ok := c.(Tracked); ok {
		return t.Tracker()
	}
	return nil
}
