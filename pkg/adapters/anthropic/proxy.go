// Package anthropic provides an AgentProxy backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aretw0/ensemble/pkg/adapters/internal/persona"
	"github.com/aretw0/ensemble/pkg/ports"
)

// Options configures the Anthropic proxy (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       sdk.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Proxy wraps the Anthropic Messages API behind the ports.AgentProxy
// interface. Each turn is a single stateless exchange: the engine carries
// all cross-turn context inside the rendered prompt.
type Proxy struct {
	client *sdk.Client
	opts   Options
}

var _ ports.AgentProxy = (*Proxy)(nil)

// New creates a proxy using the official client. Without WithAPIKey the
// SDK reads ANTHROPIC_API_KEY from the environment.
func New(optFns ...func(o *Options)) *Proxy {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := sdk.NewClient(clientOpts...)
	return &Proxy{client: &client, opts: opts}
}

// NewFromClient creates a proxy over an existing client.
func NewFromClient(client *sdk.Client, optFns ...func(o *Options)) *Proxy {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Proxy{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       sdk.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Invoke sends the rendered prompt as one user message and returns the
// concatenated text blocks of the response.
func (p *Proxy) Invoke(ctx context.Context, call ports.AgentCall) (string, error) {
	params := sdk.MessageNewParams{
		Model:       p.opts.Model,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: sdk.Float(p.opts.Temperature),
		System:      []sdk.TextBlockParam{{Text: persona.SystemPrompt(call)}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(call.Prompt)),
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	return text.String(), nil
}
