//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package benchmark

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Result is the outcome of benchmarking one model on one dataset.
type Result struct {
	// RunID uniquely identifies this benchmark invocation.
	RunID string `json:"run_id"`
	// Model is the identifier of the model under evaluation.
	Model string `json:"model"`
	// Dataset names the dataset the model was evaluated on.
	Dataset string `json:"dataset"`
	// Task is the task type of the dataset.
	Task string `json:"task"`
	// Language is the primary language of the dataset.
	Language string `json:"language"`
	// NumRuns is how many times the benchmark was repeated.
	NumRuns int `json:"num_runs"`
	// RawScores holds the per-run scores of each metric, in run order.
	RawScores map[string][]float64 `json:"raw_scores"`
	// Scores aggregates the raw scores of each metric across runs.
	Scores map[string]AggregateScore `json:"scores"`
	// StartedAt records when the benchmark started.
	StartedAt time.Time `json:"started_at"`
	// Duration records the total benchmark latency.
	Duration time.Duration `json:"duration"`
}

// AggregateScore summarizes one metric across runs.
type AggregateScore struct {
	// Mean is the average score over all runs.
	Mean float64 `json:"mean"`
	// Margin is the half-width of the 95% confidence interval around the
	// mean, zero when the benchmark ran only once.
	Margin float64 `json:"margin"`
}

// aggregate summarizes every metric's raw per-run scores.
func aggregate(raw map[string][]float64) map[string]AggregateScore {
	agg := make(map[string]AggregateScore, len(raw))
	for name, scores := range raw {
		agg[name] = summarize(scores)
	}
	return agg
}

// summarize reduces one metric's run scores to mean and confidence margin.
// The margin uses the sample standard deviation, so a single run carries no
// spread estimate.
func summarize(scores []float64) AggregateScore {
	n := float64(len(scores))
	if n == 0 {
		return AggregateScore{}
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / n
	if len(scores) == 1 {
		return AggregateScore{Mean: mean}
	}
	var ss float64
	for _, s := range scores {
		d := s - mean
		ss += d * d
	}
	stdev := math.Sqrt(ss / (n - 1))
	return AggregateScore{Mean: mean, Margin: 1.96 * stdev / math.Sqrt(n)}
}

// resultFileMu serializes appends when several benchmarkers in one process
// share a result file.
var resultFileMu sync.Mutex

// appendResult writes the result as one JSON line at the end of the file,
// creating the file and its directory as needed.
func appendResult(path string, result *Result) error {
	resultFileMu.Lock()
	defer resultFileMu.Unlock()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
