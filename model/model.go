//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package model defines the interfaces nordeval uses to talk to language
// model runtimes, and the output forms those runtimes can hand back. The
// harness never loads a model itself; adapters implement these interfaces
// against local inference servers or hosted APIs.
package model

import "context"

// Request is a batch of rendered prompts submitted for generation.
type Request struct {
	// Inputs are the fully rendered prompts, one per batch item.
	Inputs []string
	// MaxNewTokens caps the number of generated tokens per item; zero
	// leaves the runtime default in place.
	MaxNewTokens int
	// Stop are sequences at which the runtime may stop generating. Label
	// resolution truncates at these markers regardless, so runtimes that
	// ignore them stay correct.
	Stop []string
}

// Output is the result of one generation request. It is a sealed union:
// a runtime returns exactly one of the concrete forms below, never both.
// Consumers switch exhaustively over the two variants.
type Output interface {
	// isOutput restricts implementations to this package.
	isOutput()
}

// Logprobs carries per-generation-step log-probabilities over the full
// vocabulary, shaped [step][batch item][vocabulary id].
type Logprobs struct {
	Steps [][][]float64
}

func (*Logprobs) isOutput() {}

// Sequences carries decoded output token-id sequences, one per batch item.
type Sequences struct {
	IDs [][]int
}

func (*Sequences) isOutput() {}

// Generator is a model runtime evaluated through free-text generation.
type Generator interface {
	// Generate produces output for every prompt in the request, preserving
	// input order. Implementations must be safe for concurrent use.
	Generate(ctx context.Context, req *Request) (Output, error)
}

// ClassScorer is a model runtime with a fixed classification head: it
// scores whole texts against the task's classes.
type ClassScorer interface {
	// ScoreClasses returns one score vector per input text, in input
	// order; vector positions follow the task's label candidate order.
	ScoreClasses(ctx context.Context, texts []string) ([][]float64, error)
}

// TokenScorer is a model runtime with a token-level classification head.
type TokenScorer interface {
	// ScoreTokens returns, per input sequence, one score vector per token
	// position, shaped [input][token][class].
	ScoreTokens(ctx context.Context, ids [][]int) ([][][]float64, error)
}
