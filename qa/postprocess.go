//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package qa

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/tokenizer"
)

const (
	// defaultNBest is how many start and end candidates are considered per window.
	defaultNBest = 20
	// defaultMaxAnswerLength caps answer spans, in tokens.
	defaultMaxAnswerLength = 30
)

// SpanScores holds per-token start and end logits for one window.
type SpanScores struct {
	Start []float64
	End   []float64
}

// Scorer produces span scores for a batch of windows.
type Scorer interface {
	Score(ctx context.Context, windows []Window) ([]SpanScores, error)
}

// Answer is the best answer found for one example. Text is empty when the
// no-answer score beats every candidate span.
type Answer struct {
	ExampleID string
	Text      string
	Score     float64
}

type resolveOptions struct {
	nBest           int
	maxAnswerLength int
}

// ResolveOption configures answer resolution.
type ResolveOption func(*resolveOptions)

// WithNBest sets how many start and end logits are considered per window.
func WithNBest(n int) ResolveOption {
	return func(o *resolveOptions) {
		o.nBest = n
	}
}

// WithMaxAnswerLength caps candidate answer spans at n tokens.
func WithMaxAnswerLength(n int) ResolveOption {
	return func(o *resolveOptions) {
		o.maxAnswerLength = n
	}
}

// ResolveAnswers turns window span scores back into one text answer per
// example. Candidate spans must start and end on context tokens, run forward
// and stay within the answer length cap; the best-scoring span across all of
// an example's windows wins, unless the no-answer score beats it.
func ResolveAnswers(examples []dataset.Example, windows []Window, scores []SpanScores, opt ...ResolveOption) ([]Answer, error) {
	o := &resolveOptions{
		nBest:           defaultNBest,
		maxAnswerLength: defaultMaxAnswerLength,
	}
	for _, f := range opt {
		f(o)
	}

	if len(scores) != len(windows) {
		return nil, fmt.Errorf("got %d span scores for %d windows", len(scores), len(windows))
	}
	byExample := make(map[string][]int, len(examples))
	for i, w := range windows {
		byExample[w.ExampleID] = append(byExample[w.ExampleID], i)
	}

	answers := make([]Answer, 0, len(examples))
	for _, ex := range examples {
		indices := byExample[ex.ID]
		if len(indices) == 0 {
			return nil, fmt.Errorf("example %s has no windows", ex.ID)
		}
		ans, err := resolveExample(ex, windows, scores, indices, o)
		if err != nil {
			return nil, fmt.Errorf("resolve example %s: %w", ex.ID, err)
		}
		answers = append(answers, ans)
	}
	return answers, nil
}

// resolveExample scans one example's windows for the best answer span.
func resolveExample(ex dataset.Example, windows []Window, scores []SpanScores, indices []int, o *resolveOptions) (Answer, error) {
	nullScore := math.Inf(-1)
	best := Answer{ExampleID: ex.ID, Score: math.Inf(-1)}
	found := false

	for _, wi := range indices {
		w := windows[wi]
		s := scores[wi]
		if len(s.Start) != len(w.TokenIDs) || len(s.End) != len(w.TokenIDs) {
			return Answer{}, fmt.Errorf("window %d: %d start and %d end scores for %d tokens",
				wi, len(s.Start), len(s.End), len(w.TokenIDs))
		}

		if null := s.Start[w.NoAnswerIndex] + s.End[w.NoAnswerIndex]; null > nullScore {
			nullScore = null
		}

		starts := topIndices(s.Start, o.nBest)
		ends := topIndices(s.End, o.nBest)
		for _, si := range starts {
			for _, ei := range ends {
				if w.Tags[si] != tokenizer.TagContext || w.Tags[ei] != tokenizer.TagContext {
					continue
				}
				if ei < si || ei-si+1 > o.maxAnswerLength {
					continue
				}
				score := s.Start[si] + s.End[ei]
				if !found || score > best.Score {
					lo, hi := w.Offsets[si].Start, w.Offsets[ei].End
					if lo < 0 || hi > len(ex.Context) || lo > hi {
						return Answer{}, fmt.Errorf("window %d: token offsets [%d,%d) outside context of %d bytes",
							wi, lo, hi, len(ex.Context))
					}
					best.Text = ex.Context[lo:hi]
					best.Score = score
					found = true
				}
			}
		}
	}

	if !found || best.Score <= nullScore {
		return Answer{ExampleID: ex.ID, Text: "", Score: nullScore}, nil
	}
	return best, nil
}

// topIndices returns the indices of the n largest values, best first. Ties
// keep the earlier token position first.
func topIndices(vals []float64, n int) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return vals[idx[a]] > vals[idx[b]]
	})
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}
