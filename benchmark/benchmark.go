//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package benchmark orchestrates the evaluation of one model on one dataset:
// it samples prompts, drives the model runtime, resolves predictions and
// aggregates metric scores across repeated runs.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/log"
	"github.com/nordeval/nordeval/metric"
	"github.com/nordeval/nordeval/model"
	"github.com/nordeval/nordeval/qa"
	"github.com/nordeval/nordeval/seqclass"
	"github.com/nordeval/nordeval/telemetry"
	"github.com/nordeval/nordeval/tokenclass"
	"github.com/nordeval/nordeval/tokenizer"
)

// Benchmarker evaluates one model on one dataset.
type Benchmarker interface {
	// Run benchmarks the model on the dataset splits and returns the
	// aggregated result.
	Run(ctx context.Context, splits *dataset.Splits) (*Result, error)
	// Close releases owned resources.
	Close() error
}

// New creates a Benchmarker for the given task configuration. The options
// must supply the model runtime the task needs: a generator or class scorer
// for sequence classification, a token scorer for token classification and a
// span scorer for question answering.
func New(cfg *dataset.TaskConfig, opt ...Option) (Benchmarker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := newOptions(opt...)
	switch cfg.Task {
	case dataset.SequenceClassification:
		if opts.generator == nil && opts.classScorer == nil {
			return nil, fmt.Errorf("task %s requires a generator or a class scorer", cfg.Name)
		}
		if opts.generator != nil && opts.classScorer != nil {
			return nil, fmt.Errorf("task %s: configure either a generator or a class scorer, not both", cfg.Name)
		}
		if opts.generator != nil && opts.tok == nil {
			return nil, fmt.Errorf("task %s: generative evaluation requires a tokenizer", cfg.Name)
		}
	case dataset.TokenClassification:
		if opts.tokenScorer == nil {
			return nil, fmt.Errorf("task %s requires a token scorer", cfg.Name)
		}
		if opts.tok == nil {
			return nil, fmt.Errorf("task %s requires a tokenizer", cfg.Name)
		}
	case dataset.QuestionAnswering:
		if opts.spanScorer == nil {
			return nil, fmt.Errorf("task %s requires a span scorer", cfg.Name)
		}
		if opts.tok == nil {
			return nil, fmt.Errorf("task %s requires a tokenizer", cfg.Name)
		}
	}
	b := &benchmarker{
		cfg:         cfg,
		generator:   opts.generator,
		classScorer: opts.classScorer,
		tokenScorer: opts.tokenScorer,
		spanScorer:  opts.spanScorer,
		tok:         opts.tok,
		modelName:   opts.modelName,
		seed:        opts.seed,
		numRuns:     opts.numRuns,
		batchSize:   opts.batchSize,
		resultPath:  opts.resultPath,
	}
	if opts.concurrency > 1 {
		pool, err := createGenerateBatchPool(opts.concurrency)
		if err != nil {
			return nil, fmt.Errorf("create generation pool: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

// benchmarker is the default implementation of Benchmarker.
type benchmarker struct {
	cfg         *dataset.TaskConfig
	generator   model.Generator
	classScorer model.ClassScorer
	tokenScorer model.TokenScorer
	spanScorer  qa.Scorer
	tok         tokenizer.Tokenizer
	modelName   string
	seed        int64
	numRuns     int
	batchSize   int
	pool        *ants.PoolWithFunc
	resultPath  string
}

// Run benchmarks the model across the configured number of runs and
// aggregates the scores.
func (b *benchmarker) Run(ctx context.Context, splits *dataset.Splits) (*Result, error) {
	if splits == nil {
		return nil, errors.New("splits are nil")
	}
	if len(splits.Test) == 0 {
		return nil, fmt.Errorf("dataset %s has no test split", b.cfg.Name)
	}

	attrs := []attribute.KeyValue{
		attribute.String("nordeval.dataset", b.cfg.Name),
		attribute.String("nordeval.task", string(b.cfg.Task)),
		attribute.String("nordeval.model", b.modelName),
	}
	ctx, span := telemetry.Tracer.Start(ctx, "benchmark.run")
	defer span.End()
	span.SetAttributes(attrs...)
	telemetry.RecordRun(ctx, attrs...)

	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		Model:     b.modelName,
		Dataset:   b.cfg.Name,
		Task:      string(b.cfg.Task),
		Language:  b.cfg.Language.String(),
		NumRuns:   b.numRuns,
		RawScores: make(map[string][]float64, len(b.cfg.Metrics)),
		StartedAt: start.UTC(),
	}
	log.Infof("benchmarking %s on %s: %d test examples, %d run(s)",
		b.modelName, b.cfg.Name, len(splits.Test), b.numRuns)

	for run := 0; run < b.numRuns; run++ {
		scores, err := b.scoreRun(ctx, run, splits)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", run, err)
		}
		for _, name := range b.cfg.Metrics {
			result.RawScores[name] = append(result.RawScores[name], scores[name])
		}
		telemetry.RecordExamples(ctx, len(splits.Test), attrs...)
		log.Infof("run %d/%d of %s on %s: %v", run+1, b.numRuns, b.modelName, b.cfg.Name, scores)
	}

	result.Scores = aggregate(result.RawScores)
	result.Duration = time.Since(start)
	if b.resultPath != "" {
		if err := appendResult(b.resultPath, result); err != nil {
			return nil, fmt.Errorf("persist result: %w", err)
		}
	}
	log.Infof("finished %s on %s in %s", b.modelName, b.cfg.Name, result.Duration)
	return result, nil
}

// Close releases the worker pool, if any.
func (b *benchmarker) Close() error {
	if b.pool != nil {
		b.pool.Release()
	}
	return nil
}

// scoreRun executes one benchmark run and returns its metric scores.
func (b *benchmarker) scoreRun(ctx context.Context, run int, splits *dataset.Splits) (map[string]float64, error) {
	switch b.cfg.Task {
	case dataset.SequenceClassification:
		return b.scoreSequenceClassification(ctx, run, splits)
	case dataset.TokenClassification:
		return b.scoreTokenClassification(ctx, splits.Test)
	case dataset.QuestionAnswering:
		return b.scoreQuestionAnswering(ctx, splits.Test)
	}
	return nil, fmt.Errorf("unknown task type %q", b.cfg.Task)
}

// scoreSequenceClassification evaluates one run of a classification dataset,
// generatively or through a classification head depending on configuration.
func (b *benchmarker) scoreSequenceClassification(ctx context.Context, run int, splits *dataset.Splits) (map[string]float64, error) {
	evals := splits.Test
	var predIdx []int
	if b.generator != nil {
		preds, err := b.generatePredictions(ctx, run, splits)
		if err != nil {
			return nil, err
		}
		if len(preds) != len(evals) {
			return nil, fmt.Errorf("model produced %d predictions for %d examples", len(preds), len(evals))
		}
		predIdx, err = seqclass.LabelIndices(preds, b.cfg.Labels)
		if err != nil {
			return nil, fmt.Errorf("map predicted labels: %w", err)
		}
	} else {
		var err error
		predIdx, err = b.scoredPredictions(ctx, evals)
		if err != nil {
			return nil, err
		}
	}

	refs := make([]string, len(evals))
	for i, ex := range evals {
		refs[i] = ex.Label
	}
	refIdx, err := seqclass.LabelIndices(refs, b.cfg.Labels)
	if err != nil {
		return nil, fmt.Errorf("map reference labels: %w", err)
	}
	return b.classificationScores(predIdx, refIdx)
}

// generatePredictions samples this run's few-shot examples, renders the
// prompts, generates model output batch by batch and resolves it to labels.
func (b *benchmarker) generatePredictions(ctx context.Context, run int, splits *dataset.Splits) ([]string, error) {
	fewShot, err := seqclass.SampleFewShot(splits.Train, b.cfg.Labels, b.cfg.NumFewShot, b.seed+int64(run))
	if err != nil {
		return nil, fmt.Errorf("sample few-shot examples: %w", err)
	}
	prompts, err := seqclass.RenderPrompts(fewShot, splits.Test, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("render prompts: %w", err)
	}
	outputs, err := b.generateBatches(ctx, b.batchRequests(prompts))
	if err != nil {
		return nil, err
	}
	preds := make([]string, 0, len(prompts))
	for i, out := range outputs {
		labels, err := seqclass.ResolveLabels(out, b.tok, b.cfg.Labels, b.cfg.StopSequences)
		if err != nil {
			return nil, fmt.Errorf("resolve labels of batch %d: %w", i, err)
		}
		preds = append(preds, labels...)
	}
	return preds, nil
}

// batchRequests slices the prompts into generation requests of at most
// batchSize prompts each.
func (b *benchmarker) batchRequests(prompts []string) []*model.Request {
	size := b.batchSize
	reqs := make([]*model.Request, 0, (len(prompts)+size-1)/size)
	for lo := 0; lo < len(prompts); lo += size {
		hi := lo + size
		if hi > len(prompts) {
			hi = len(prompts)
		}
		reqs = append(reqs, &model.Request{
			Inputs:       prompts[lo:hi],
			MaxNewTokens: b.cfg.MaxNewTokens,
			Stop:         b.cfg.StopSequences,
		})
	}
	return reqs
}

// scoredPredictions runs the classification head over the raw texts and
// picks the best class per example.
func (b *benchmarker) scoredPredictions(ctx context.Context, evals []dataset.Example) ([]int, error) {
	texts := make([]string, len(evals))
	for i, ex := range evals {
		texts[i] = ex.Text
	}
	start := time.Now()
	rows, err := b.classScorer.ScoreClasses(ctx, texts)
	telemetry.RecordInference(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("score classes: %w", err)
	}
	if len(rows) != len(texts) {
		return nil, fmt.Errorf("got %d score rows for %d texts", len(rows), len(texts))
	}
	for i, row := range rows {
		if len(row) != b.cfg.Labels.Len() {
			return nil, fmt.Errorf("example %d: got %d class scores, want %d", i, len(row), b.cfg.Labels.Len())
		}
	}
	return seqclass.ArgmaxRows(rows)
}

// classificationScores computes the configured classification metrics.
func (b *benchmarker) classificationScores(preds, refs []int) (map[string]float64, error) {
	scores := make(map[string]float64, len(b.cfg.Metrics))
	for _, name := range b.cfg.Metrics {
		var score float64
		var err error
		switch name {
		case metric.NameAccuracy:
			score, err = metric.Accuracy(preds, refs)
		case metric.NameMCC:
			score, err = metric.MatthewsCorrelation(preds, refs)
		case metric.NameMacroF1:
			score, err = metric.MacroF1(preds, refs)
		default:
			return nil, fmt.Errorf("task %s: unsupported classification metric %q", b.cfg.Name, name)
		}
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", name, err)
		}
		scores[name] = score
	}
	return scores, nil
}

// scoreTokenClassification evaluates a token classification dataset: encode
// each word sequence, score every token, reduce token predictions back to
// word labels and compare entities.
func (b *benchmarker) scoreTokenClassification(ctx context.Context, evals []dataset.Example) (map[string]float64, error) {
	encodings := make([]tokenizer.Encoding, len(evals))
	ids := make([][]int, len(evals))
	for i, ex := range evals {
		enc, err := b.tok.EncodeWords(ex.Tokens, true)
		if err != nil {
			return nil, fmt.Errorf("encode example %d: %w", i, err)
		}
		encodings[i] = enc
		ids[i] = enc.IDs
	}

	start := time.Now()
	scores, err := b.tokenScorer.ScoreTokens(ctx, ids)
	telemetry.RecordInference(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("score tokens: %w", err)
	}
	if len(scores) != len(evals) {
		return nil, fmt.Errorf("got %d token score sequences for %d examples", len(scores), len(evals))
	}

	predTags := make([][]string, len(evals))
	refTags := make([][]string, len(evals))
	for i, ex := range evals {
		if len(scores[i]) != len(encodings[i].IDs) {
			return nil, fmt.Errorf("example %d: got scores for %d tokens, want %d",
				i, len(scores[i]), len(encodings[i].IDs))
		}
		tokenPreds, err := seqclass.ArgmaxRows(scores[i])
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		words, err := tokenclass.WordPredictions(tokenPreds, encodings[i], b.cfg.Labels)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		predTags[i] = words
		refTags[i] = ex.Labels
	}

	results := make(map[string]float64, len(b.cfg.Metrics))
	for _, name := range b.cfg.Metrics {
		switch name {
		case metric.NameEntityF1:
			score, err := metric.EntityF1(predTags, refTags)
			if err != nil {
				return nil, fmt.Errorf("compute %s: %w", name, err)
			}
			results[name] = score
		default:
			return nil, fmt.Errorf("task %s: unsupported token classification metric %q", b.cfg.Name, name)
		}
	}
	return results, nil
}

// scoreQuestionAnswering evaluates an extractive QA dataset: window the
// question/context pairs, score the spans, resolve the best answer per
// example and compare against the reference answers.
func (b *benchmarker) scoreQuestionAnswering(ctx context.Context, evals []dataset.Example) (map[string]float64, error) {
	cfg := qa.NewConfig(b.tok.ModelMaxLength())
	windows, err := qa.BuildEvaluationWindows(b.tok, cfg, evals)
	if err != nil {
		return nil, fmt.Errorf("build evaluation windows: %w", err)
	}

	start := time.Now()
	spanScores, err := b.spanScorer.Score(ctx, windows)
	telemetry.RecordInference(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("score windows: %w", err)
	}
	answers, err := qa.ResolveAnswers(evals, windows, spanScores)
	if err != nil {
		return nil, fmt.Errorf("resolve answers: %w", err)
	}

	preds := make([]string, len(answers))
	for i, ans := range answers {
		preds[i] = ans.Text
	}
	refs := make([][]string, len(evals))
	for i, ex := range evals {
		if len(ex.Answers) == 0 {
			// Unanswerable questions score against the empty string.
			refs[i] = []string{""}
			continue
		}
		for _, span := range ex.Answers {
			refs[i] = append(refs[i], span.Text)
		}
	}

	results := make(map[string]float64, len(b.cfg.Metrics))
	for _, name := range b.cfg.Metrics {
		var score float64
		switch name {
		case metric.NameExactMatch:
			score, err = metric.ExactMatch(preds, refs)
		case metric.NameTokenF1:
			score, err = metric.TokenF1(preds, refs)
		default:
			return nil, fmt.Errorf("task %s: unsupported QA metric %q", b.cfg.Name, name)
		}
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", name, err)
		}
		results[name] = score
	}
	return results, nil
}
