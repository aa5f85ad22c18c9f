//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package qa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/qa"
)

// parisWindows tokenizes the capital-of-France example into its single
// window: [CLS] six question words [SEP] six context words [SEP] [PAD].
func parisWindows(t *testing.T) ([]dataset.Example, []qa.Window) {
	t.Helper()
	examples := []dataset.Example{{
		ID:       "q1",
		Question: "What is the capital of France?",
		Context:  "Paris is the capital of France.",
	}}
	windows, err := qa.BuildEvaluationWindows(newFakeTokenizer(16), qa.Config{MaxLength: 16, Stride: 4}, examples)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	return examples, windows
}

// flatScores builds start/end score vectors filled with a baseline value.
func flatScores(n int, baseline float64) qa.SpanScores {
	s := qa.SpanScores{Start: make([]float64, n), End: make([]float64, n)}
	for i := range s.Start {
		s.Start[i] = baseline
		s.End[i] = baseline
	}
	return s
}

// TestResolveAnswers_PicksBestSpan verifies the top-scoring context span is
// sliced out of the original context by byte offsets.
func TestResolveAnswers_PicksBestSpan(t *testing.T) {
	examples, windows := parisWindows(t)

	s := flatScores(len(windows[0].TokenIDs), -10)
	s.Start[windows[0].NoAnswerIndex] = -20
	s.End[windows[0].NoAnswerIndex] = -20
	s.Start[8] = 5 // "Paris"
	s.End[8] = 5

	answers, err := qa.ResolveAnswers(examples, windows, []qa.SpanScores{s})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "q1", answers[0].ExampleID)
	assert.Equal(t, "Paris", answers[0].Text)
	assert.InDelta(t, 10.0, answers[0].Score, 1e-9)
}

// TestResolveAnswers_NoAnswerWins verifies the empty answer is returned when
// the class-token score beats every candidate span.
func TestResolveAnswers_NoAnswerWins(t *testing.T) {
	examples, windows := parisWindows(t)

	s := flatScores(len(windows[0].TokenIDs), -10)
	s.Start[8] = 5
	s.End[8] = 5
	s.Start[windows[0].NoAnswerIndex] = 6
	s.End[windows[0].NoAnswerIndex] = 6

	answers, err := qa.ResolveAnswers(examples, windows, []qa.SpanScores{s})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Empty(t, answers[0].Text)
	assert.InDelta(t, 12.0, answers[0].Score, 1e-9)
}

// TestResolveAnswers_SkipsNonContextTokens verifies spans touching question
// or special tokens never become answers, however well they score.
func TestResolveAnswers_SkipsNonContextTokens(t *testing.T) {
	examples, windows := parisWindows(t)

	s := flatScores(len(windows[0].TokenIDs), -10)
	s.Start[windows[0].NoAnswerIndex] = -20
	s.End[windows[0].NoAnswerIndex] = -20
	s.Start[4] = 10 // question token
	s.End[4] = 10
	s.Start[9] = 2 // "is"
	s.End[9] = 3

	answers, err := qa.ResolveAnswers(examples, windows, []qa.SpanScores{s})
	require.NoError(t, err)
	assert.Equal(t, "is", answers[0].Text)
}

// TestResolveAnswers_MaxAnswerLength verifies the token length cap prunes
// long spans that would otherwise win.
func TestResolveAnswers_MaxAnswerLength(t *testing.T) {
	examples, windows := parisWindows(t)

	s := flatScores(len(windows[0].TokenIDs), -10)
	s.Start[windows[0].NoAnswerIndex] = -20
	s.End[windows[0].NoAnswerIndex] = -20
	s.Start[8] = 5
	s.End[8] = 1
	s.End[13] = 5 // "France."

	answers, err := qa.ResolveAnswers(examples, windows, []qa.SpanScores{s})
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answers[0].Text)

	answers, err = qa.ResolveAnswers(examples, windows, []qa.SpanScores{s}, qa.WithMaxAnswerLength(1))
	require.NoError(t, err)
	assert.Equal(t, "Paris", answers[0].Text)
}

// TestResolveAnswers_NBestTruncation verifies only the top-n logits per side
// are considered as span endpoints.
func TestResolveAnswers_NBestTruncation(t *testing.T) {
	examples, windows := parisWindows(t)

	s := flatScores(len(windows[0].TokenIDs), -10)
	s.Start[windows[0].NoAnswerIndex] = -20
	s.End[windows[0].NoAnswerIndex] = -20
	s.Start[4] = 10 // question token outranks the real span
	s.End[4] = 10
	s.Start[8] = 5
	s.End[8] = 5

	answers, err := qa.ResolveAnswers(examples, windows, []qa.SpanScores{s}, qa.WithNBest(1))
	require.NoError(t, err)
	assert.Empty(t, answers[0].Text, "the only candidate pair is filtered out")

	answers, err = qa.ResolveAnswers(examples, windows, []qa.SpanScores{s})
	require.NoError(t, err)
	assert.Equal(t, "Paris", answers[0].Text)
}

// TestResolveAnswers_AggregatesAcrossWindows verifies the best span is taken
// across all windows of an example.
func TestResolveAnswers_AggregatesAcrossWindows(t *testing.T) {
	examples := []dataset.Example{{
		ID:       "q1",
		Question: "Hur många bor där?",
		Context:  longContext,
	}}
	windows, err := qa.BuildEvaluationWindows(newFakeTokenizer(16), qa.Config{MaxLength: 16, Stride: 4}, examples)
	require.NoError(t, err)
	require.Len(t, windows, 3)

	scores := make([]qa.SpanScores, len(windows))
	for i, w := range windows {
		scores[i] = flatScores(len(w.TokenIDs), -10)
		scores[i].Start[w.NoAnswerIndex] = -20
		scores[i].End[w.NoAnswerIndex] = -20
	}
	scores[0].Start[6] = 1 // "Stockholm" in the first window
	scores[0].End[6] = 1
	scores[2].Start[10] = 5 // "invånare" in the last window
	scores[2].End[10] = 5

	answers, err := qa.ResolveAnswers(examples, windows, scores)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "invånare", answers[0].Text)
	assert.InDelta(t, 10.0, answers[0].Score, 1e-9)
}

// TestResolveAnswers_InputValidation verifies shape mismatches and orphaned
// examples are reported instead of silently mis-scored.
func TestResolveAnswers_InputValidation(t *testing.T) {
	examples, windows := parisWindows(t)

	_, err := qa.ResolveAnswers(examples, windows, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "span scores")

	short := qa.SpanScores{Start: []float64{0}, End: []float64{0}}
	_, err = qa.ResolveAnswers(examples, windows, []qa.SpanScores{short})
	require.Error(t, err)

	_, err = qa.ResolveAnswers(examples, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no windows")
}
