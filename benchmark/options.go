//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package benchmark

import (
	"github.com/nordeval/nordeval/model"
	"github.com/nordeval/nordeval/qa"
	"github.com/nordeval/nordeval/tokenizer"
)

const (
	// defaultSeed matches the seed the published benchmark scores were
	// produced with.
	defaultSeed = 4242
	// defaultNumRuns repeats the benchmark once.
	defaultNumRuns = 1
	// defaultBatchSize is the number of prompts per generation request.
	defaultBatchSize = 32
)

type options struct {
	generator   model.Generator
	classScorer model.ClassScorer
	tokenScorer model.TokenScorer
	spanScorer  qa.Scorer
	tok         tokenizer.Tokenizer
	modelName   string
	seed        int64
	numRuns     int
	batchSize   int
	concurrency int
	resultPath  string
}

func newOptions(opt ...Option) *options {
	opts := &options{
		seed:      defaultSeed,
		numRuns:   defaultNumRuns,
		batchSize: defaultBatchSize,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a Benchmarker.
type Option func(*options)

// WithGenerator sets the generative model runtime under evaluation.
func WithGenerator(g model.Generator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// WithClassScorer sets a classification-head runtime under evaluation.
func WithClassScorer(s model.ClassScorer) Option {
	return func(o *options) {
		o.classScorer = s
	}
}

// WithTokenScorer sets a token-classification-head runtime under evaluation.
func WithTokenScorer(s model.TokenScorer) Option {
	return func(o *options) {
		o.tokenScorer = s
	}
}

// WithSpanScorer sets the extractive QA runtime under evaluation.
func WithSpanScorer(s qa.Scorer) Option {
	return func(o *options) {
		o.spanScorer = s
	}
}

// WithTokenizer sets the tokenization engine of the model under evaluation.
func WithTokenizer(t tokenizer.Tokenizer) Option {
	return func(o *options) {
		o.tok = t
	}
}

// WithModelName sets the model identifier recorded in results.
func WithModelName(name string) Option {
	return func(o *options) {
		o.modelName = name
	}
}

// WithSeed sets the sampling seed. Run r of a benchmark samples its few-shot
// examples with seed+r, so repeated runs see different prompts but the whole
// benchmark stays reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithNumRuns sets how many times the benchmark is repeated. Non-positive
// values are ignored.
func WithNumRuns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.numRuns = n
		}
	}
}

// WithBatchSize caps the number of prompts per generation request.
// Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithConcurrency sets how many generation requests may be in flight at
// once. Values above one enable the worker pool; the default runs batches
// serially.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithResultPath appends every finished result as one JSON line to the file
// at path.
func WithResultPath(path string) Option {
	return func(o *options) {
		o.resultPath = path
	}
}
