package api

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChat struct {
	got   []*schema.Message
	opts  *model.Options
	reply string
	usage *schema.TokenUsage
	err   error
}

func (f *fakeChat) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = in
	f.opts = model.GetCommonOptions(nil, opts...)
	if f.err != nil {
		return nil, f.err
	}
	msg := &schema.Message{Role: schema.Assistant, Content: f.reply}
	if f.usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: f.usage}
	}
	return msg, nil
}

func (f *fakeChat) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestOpenAIClient_Complete(t *testing.T) {
	chat := &fakeChat{reply: "guidance"}
	c := newOpenAIClient(chat, "gpt-4o-mini", newLimiter(0))

	text, err := c.Complete(context.Background(), Request{System: "be strict", Prompt: "fix it", MaxTokens: 1024})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "guidance" {
		t.Errorf("text = %q", text)
	}
	if len(chat.got) != 2 || chat.got[0].Role != schema.System || chat.got[1].Content != "fix it" {
		t.Errorf("messages = %+v", chat.got)
	}
	if chat.opts.Temperature == nil || *chat.opts.Temperature != 0 {
		t.Errorf("temperature not pinned to zero: %+v", chat.opts.Temperature)
	}
	if chat.opts.MaxTokens == nil || *chat.opts.MaxTokens != 1024 {
		t.Errorf("max tokens = %+v", chat.opts.MaxTokens)
	}
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("Model = %q", c.Model())
	}
}

func TestOpenAIClient_TracksUsage(t *testing.T) {
	chat := &fakeChat{reply: "ok", usage: &schema.TokenUsage{PromptTokens: 800, CompletionTokens: 200, TotalTokens: 1000}}
	c := newOpenAIClient(chat, "gpt-4o-mini", nil)

	for i := 0; i < 2; i++ {
		if _, err := c.Complete(context.Background(), Request{Prompt: "x"}); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}
	in, out := c.Tracker().Total()
	if in != 1600 || out != 400 {
		t.Errorf("tracked tokens = %d/%d, want 1600/400", in, out)
	}
	if c.Tracker().Calls() != 2 {
		t.Errorf("Calls = %d, want 2", c.Tracker().Calls())
	}
	if _, ok := c.Tracker().Cost(); !ok {
		t.Error("gpt-4o-mini should have a price")
	}
}

func TestOpenAIClient_Error(t *testing.T) {
	c := newOpenAIClient(&fakeChat{err: errors.New("429 too many requests")}, "m", nil)
	if _, err := c.Complete(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewOpenAIClient_NoKey(t *testing.T) {
	if _, err := NewOpenAIClient(context.Background(), OpenAIConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
