//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordeval/nordeval/metric"
)

// TestEntityF1_ExactAgreement verifies matching tag sequences score full
// marks.
func TestEntityF1_ExactAgreement(t *testing.T) {
	tags := [][]string{{"B-PER", "I-PER", "O", "B-LOC"}}
	f1, err := metric.EntityF1(tags, tags)
	require.NoError(t, err)
	assert.InDelta(t, 100, f1, 1e-9)
}

// TestEntityF1_PartialSpan verifies a truncated entity counts as both a
// false positive and a false negative.
func TestEntityF1_PartialSpan(t *testing.T) {
	preds := [][]string{{"B-PER", "O", "O", "B-LOC"}}
	refs := [][]string{{"B-PER", "I-PER", "O", "B-LOC"}}

	f1, err := metric.EntityF1(preds, refs)
	require.NoError(t, err)
	assert.InDelta(t, 50, f1, 1e-9)
}

// TestEntityF1_StrayInsideTag verifies an I- tag opening a span is treated
// like a begin tag on both sides.
func TestEntityF1_StrayInsideTag(t *testing.T) {
	preds := [][]string{{"O", "I-PER", "I-PER"}}
	refs := [][]string{{"O", "B-PER", "I-PER"}}

	f1, err := metric.EntityF1(preds, refs)
	require.NoError(t, err)
	assert.InDelta(t, 100, f1, 1e-9)
}

// TestEntityF1_TypeChangeSplitsSpan verifies a type switch without a B- tag
// starts a new entity.
func TestEntityF1_TypeChangeSplitsSpan(t *testing.T) {
	preds := [][]string{{"B-PER", "I-LOC"}}
	refs := [][]string{{"B-PER", "B-LOC"}}

	f1, err := metric.EntityF1(preds, refs)
	require.NoError(t, err)
	assert.InDelta(t, 100, f1, 1e-9)
}

// TestEntityF1_NoEntities verifies all-outside sequences agree perfectly.
func TestEntityF1_NoEntities(t *testing.T) {
	tags := [][]string{{"O", "O", "O"}}
	f1, err := metric.EntityF1(tags, tags)
	require.NoError(t, err)
	assert.InDelta(t, 100, f1, 1e-9)
}

// TestEntityF1_MicroAveraging verifies counts pool across sequences before
// the F1 is taken.
func TestEntityF1_MicroAveraging(t *testing.T) {
	preds := [][]string{
		{"B-PER", "O"},
		{"B-LOC", "O"},
	}
	refs := [][]string{
		{"B-PER", "O"},
		{"O", "B-LOC"},
	}

	// tp=1 (PER), fp=1 (LOC at 0), fn=1 (LOC at 1) → 2/(2+1+1).
	f1, err := metric.EntityF1(preds, refs)
	require.NoError(t, err)
	assert.InDelta(t, 50, f1, 1e-9)
}

// TestEntityF1_ShapeErrors verifies mismatched sequence counts and lengths
// are rejected.
func TestEntityF1_ShapeErrors(t *testing.T) {
	_, err := metric.EntityF1([][]string{{"O"}}, nil)
	assert.Error(t, err)

	_, err = metric.EntityF1([][]string{{"O", "O"}}, [][]string{{"O"}})
	assert.Error(t, err)
}
