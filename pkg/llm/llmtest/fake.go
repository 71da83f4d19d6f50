// Package llmtest provides a scripted llm.Provider for tests of code that
// sits on top of a chat model.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
)

// Call records one request seen by the fake.
type Call struct {
	Messages []llm.Message
	Config   llm.CallConfig
}

// Reply is one scripted answer. Err takes precedence over Content.
type Reply struct {
	Content string
	Err     error
}

// Provider answers calls from a fixed script, in order. When the script
// runs out it returns ErrScriptExhausted.
type Provider struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

// ErrScriptExhausted is returned once every scripted reply was consumed.
var ErrScriptExhausted = errors.New("llmtest: no scripted reply left")

var _ llm.Provider = (*Provider)(nil)

// New returns a provider that answers with the given contents in order.
func New(contents ...string) *Provider {
	p := &Provider{}
	for _, c := range contents {
		p.replies = append(p.replies, Reply{Content: c})
	}
	return p
}

// Push appends a reply to the script.
func (p *Provider) Push(r Reply) {
	p.mu.Lock()
	p.replies = append(p.replies, r)
	p.mu.Unlock()
}

// Calls returns a copy of every call received so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	msgs := make([]llm.Message, len(messages))
	copy(msgs, messages)
	p.calls = append(p.calls, Call{Messages: msgs, Config: llm.ApplyOptions(opts...)})

	if len(p.replies) == 0 {
		return nil, ErrScriptExhausted
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &llm.Response{Content: r.Content, Model: "llmtest", Done: true}, nil
}
