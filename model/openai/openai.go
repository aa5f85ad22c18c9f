//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/nordeval/nordeval/log"
	"github.com/nordeval/nordeval/model"
	"github.com/nordeval/nordeval/tokenizer"
)

// Model generates completions through an OpenAI-compatible chat endpoint.
// The chat API returns text, so completions are re-encoded into token ids
// through the configured tokenizer before being handed back to the harness.
type Model struct {
	client openai.Client
	name   string
	tok    tokenizer.Tokenizer
}

var _ model.Generator = (*Model)(nil)

// New creates an OpenAI-compatible model with the given name and options.
// A tokenizer is required because the harness consumes token-id sequences,
// not raw completion text.
func New(name string, opt ...Option) (*Model, error) {
	o := newOptions(opt...)
	if o.Tokenizer == nil {
		return nil, errors.New("openai model requires a tokenizer")
	}

	var clientOpts []openaiopt.RequestOption
	if o.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.BaseURL))
	}
	if o.HTTPClient != nil {
		clientOpts = append(clientOpts, openaiopt.WithHTTPClient(o.HTTPClient))
	}
	clientOpts = append(clientOpts, o.OpenAIOptions...)

	return &Model{
		client: openai.NewClient(clientOpts...),
		name:   name,
		tok:    o.Tokenizer,
	}, nil
}

// Name returns the model name as sent to the endpoint.
func (m *Model) Name() string {
	return m.name
}

// Generate sends one chat completion request per input prompt and returns
// the generated sequences in input order. The chat API exposes no full-vocab
// logprobs, so the output is always *model.Sequences.
func (m *Model) Generate(ctx context.Context, req *model.Request) (model.Output, error) {
	if req == nil || len(req.Inputs) == 0 {
		return nil, errors.New("empty generation request")
	}

	out := &model.Sequences{IDs: make([][]int, len(req.Inputs))}
	for i, prompt := range req.Inputs {
		text, err := m.complete(ctx, prompt, req)
		if err != nil {
			return nil, fmt.Errorf("complete input %d: %w", i, err)
		}
		enc, err := m.tok.Encode(text, false)
		if err != nil {
			return nil, fmt.Errorf("encode completion %d: %w", i, err)
		}
		out.IDs[i] = enc.IDs
	}
	return out, nil
}

// complete performs a single chat completion call and returns the text of
// the first choice.
func (m *Model) complete(ctx context.Context, prompt string, req *model.Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(m.name),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if req.MaxNewTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxNewTokens))
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.Stop,
		}
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	text := completion.Choices[0].Message.Content
	log.Debugf("chat completion for model %s returned %d characters", m.name, len(text))
	return text, nil
}
