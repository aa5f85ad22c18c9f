//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package openai implements a model.Generator against any OpenAI-compatible
// chat completion endpoint.
package openai

import (
	"net/http"

	openaiopt "github.com/openai/openai-go/option"

	"github.com/nordeval/nordeval/tokenizer"
)

// options contains configuration options for creating a Model.
type options struct {
	// APIKey for the OpenAI client.
	APIKey string
	// BaseURL for the OpenAI client. It is optional for OpenAI-compatible APIs.
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// OpenAIOptions are extra options for the OpenAI client.
	OpenAIOptions []openaiopt.RequestOption
	// Tokenizer re-encodes completion text into token ids.
	Tokenizer tokenizer.Tokenizer
}

// Option is a function that configures the model.
type Option func(*options)

// newOptions applies the given options to a fresh options struct.
func newOptions(opt ...Option) *options {
	o := &options{}
	for _, f := range opt {
		f(o)
	}
	return o
}

// WithAPIKey sets the API key for the OpenAI client.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.APIKey = key
	}
}

// WithBaseURL sets the base URL for the OpenAI client.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.BaseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.HTTPClient = client
	}
}

// WithOpenAIOptions appends extra OpenAI client options.
func WithOpenAIOptions(openaiOpts ...openaiopt.RequestOption) Option {
	return func(o *options) {
		o.OpenAIOptions = append(o.OpenAIOptions, openaiOpts...)
	}
}

// WithTokenizer sets the tokenizer used to re-encode completion text into
// the token-id sequences the harness consumes. Required.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) {
		o.Tokenizer = tok
	}
}
