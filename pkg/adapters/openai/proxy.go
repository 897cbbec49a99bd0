// Package openai provides an AgentProxy backed by the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/aretw0/ensemble/pkg/adapters/internal/persona"
	"github.com/aretw0/ensemble/pkg/ports"
)

// Options configures the OpenAI proxy. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without
// breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Proxy wraps the OpenAI Chat Completions API behind the ports.AgentProxy
// interface.
type Proxy struct {
	client *sdk.Client
	opts   Options
}

var _ ports.AgentProxy = (*Proxy)(nil)

// New creates a proxy using the official client. Without WithAPIKey the
// SDK reads OPENAI_API_KEY from the environment.
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
		Model:               sdk.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
}

// Invoke sends the rendered prompt as one user message and returns the
// assistant's text content.
func (p *Proxy) Invoke(ctx context.Context, call ports.AgentCall) (string, error) {
	params := sdk.ChatCompletionNewParams{
		Model:               p.opts.Model,
		Temperature:         sdk.Float(p.opts.Temperature),
		MaxCompletionTokens: sdk.Int(p.opts.MaxCompletionTokens),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(persona.SystemPrompt(call)),
			sdk.UserMessage(call.Prompt),
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
