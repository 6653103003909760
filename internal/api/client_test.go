package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewClient_WithAPIKey(t *testing.T) {
	client, err := NewClient(ClientConfig{
		APIKey: "test-key-123",
		Model:  anthropic.Model("claude-haiku-4-5-20251001"),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Model() != string(anthropic.Model("claude-haiku-4-5-20251001")) {
		t.Errorf("Model = %q", client.Model())
	}
	if client.Tracker() == nil {
		t.Error("Tracker should not be nil")
	}
}

func TestNewClient_NoAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewClient(ClientConfig{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Model() != string(anthropic.Model("claude-sonnet-4-5-20250929")) {
		t.Errorf("Default model = %q", client.Model())
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.Model("claude-sonnet-4-5-20250929"))
	if got != "us.anthropic.claude-sonnet-4-5-20250929-v1:0" {
		t.Errorf("translated = %q", got)
	}
	if got := translateModelForBedrock("custom-model"); got != "custom-model" {
		t.Errorf("unknown model should pass through, got %q", got)
	}
}

func TestClient_Complete(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5-20250929",
			"content": [{"type": "text", "text": "{\"wouldAct\": true}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 120, "output_tokens": 30}
		}`)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	text, err := client.Complete(context.Background(), Request{Prompt: "review this", MaxTokens: 2048, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != `{"wouldAct": true}` {
		t.Errorf("text = %q", text)
	}
	if body["temperature"] != float64(0) {
		t.Errorf("temperature = %v, want 0", body["temperature"])
	}
	if body["max_tokens"] != float64(2048) {
		t.Errorf("max_tokens = %v, want 2048", body["max_tokens"])
	}
	in, out := client.Tracker().Total()
	if in != 120 || out != 30 {
		t.Errorf("tracked tokens = %d/%d", in, out)
	}
}

func TestGuard_Timeout(t *testing.T) {
	_, err := guard(context.Background(), nil, 20*time.Millisecond, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestGuard_PassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	_, err := guard(context.Background(), newLimiter(0), time.Second, func(ctx context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) || errors.Is(err, ErrTimeout) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker("claude-sonnet-4-5")
	tracker.Add(100, 50)
	tracker.Add(1_000_000, 1_000_000)

	input, output := tracker.Total()
	if input != 1_000_100 || output != 1_000_050 {
		t.Errorf("Total = %d/%d", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls = %d, want 2", tracker.Calls())
	}
	cost, ok := tracker.Cost()
	if !ok || cost < 18.0 || cost > 18.01 {
		t.Errorf("Cost = %f, %v, want about 18", cost, ok)
	}
}

func TestPricingFor(t *testing.T) {
	tests := []struct {
		model string
		want  float64
		ok    bool
	}{
		{"claude-sonnet-4-5", 3.00, true},
		{"us.anthropic.claude-haiku-4-5-20251001-v1:0", 1.00, true},
		{"gpt-4o-mini", 0.15, true},
		{"gpt-4o", 2.50, true},
		{"llama3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, ok := PricingFor(tt.model)
			if ok != tt.ok || p.InputPerMillion != tt.want {
				t.Errorf("PricingFor(%q) = %v, %v", tt.model, p, ok)
			}
		})
	}
}

func TestTokenTracker_UnknownModelHasNoCost(t *testing.T) {
	tracker := NewTokenTracker("llama3")
	tracker.Add(500, 500)
	if cost, ok := tracker.Cost(); ok || cost != 0 {
		t.Errorf("Cost = %f, %v, want 0, false", cost, ok)
	}
}

func TestTrackerOf(t *testing.T) {
	if TrackerOf(stubCompleter{}) != nil {
		t.Error("untracked completer should have no tracker")
	}
	client := newOpenAIClient(&fakeChat{}, "gpt-4o-mini", nil)
	if TrackerOf(client) != client.Tracker() {
		t.Error("TrackerOf should return the client's tracker")
	}
}

type stubCompleter struct{}

func (stubCompleter) Complete(context.Context, Request) (string, error) { return "", nil }
func (stubCompleter) Model() string                                     { return "stub" }
