//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLabelSet_Valid builds a set and checks ordering, prompt labels and
// length are preserved.
func TestNewLabelSet_Valid(t *testing.T) {
	s, err := NewLabelSet(
		[]string{"negative", "neutral", "positive"},
		[]string{"Negativ", "Neutral", "Positiv"},
	)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"negative", "neutral", "positive"}, s.Labels())
	assert.Equal(t, "neutral", s.Canonical(1))
	// Prompt labels are normalized to lowercase.
	assert.Equal(t, "negativ", s.PromptLabel(0))
	assert.Equal(t, "positiv", s.PromptLabel(2))
}

// TestNewLabelSet_RejectsBijectionViolations covers the constructor error
// paths: length mismatch, duplicates on either side and empty labels.
func TestNewLabelSet_RejectsBijectionViolations(t *testing.T) {
	cases := []struct {
		name      string
		canonical []string
		prompt    []string
	}{
		{"empty set", nil, nil},
		{"length mismatch", []string{"a", "b"}, []string{"x"}},
		{"duplicate canonical", []string{"Yes", "yes"}, []string{"ja", "jo"}},
		{"duplicate prompt", []string{"a", "b"}, []string{"same", "Same"}},
		{"empty canonical", []string{"a", ""}, []string{"x", "y"}},
		{"empty prompt", []string{"a", "b"}, []string{"x", ""}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewLabelSet(c.canonical, c.prompt)
			assert.Error(t, err)
		})
	}
}

// TestLabelSet_IndexCaseInsensitive resolves labels regardless of casing.
func TestLabelSet_IndexCaseInsensitive(t *testing.T) {
	s, err := NewLabelSet([]string{"correct", "incorrect"}, []string{"ja", "nej"})
	require.NoError(t, err)

	for _, label := range []string{"correct", "Correct", "CORRECT"} {
		i, err := s.Index(label)
		require.NoError(t, err)
		assert.Equal(t, 0, i)
	}
	i, err := s.Index("INCORRECT")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

// TestLabelSet_IndexUnknown surfaces a typed error naming the offending
// label and the full mapping.
func TestLabelSet_IndexUnknown(t *testing.T) {
	s, err := NewLabelSet([]string{"negative", "positive"}, []string{"negativ", "positiv"})
	require.NoError(t, err)

	_, err = s.Index("sarcastic")
	require.Error(t, err)

	var unknown *UnknownLabelError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "sarcastic", unknown.Label)
	assert.Equal(t, map[string]int{"negative": 0, "positive": 1}, unknown.Mapping)
	assert.Contains(t, err.Error(), `"sarcastic"`)
	assert.Contains(t, err.Error(), "negative")
}

// TestTaskConfig_Validate accepts every built-in config and rejects broken
// ones.
func TestTaskConfig_Validate(t *testing.T) {
	for _, cfg := range Builtin() {
		assert.NoError(t, cfg.Validate(), "builtin config %s", cfg.Name)
	}

	missingLabels := &TaskConfig{
		Name:    "broken",
		Task:    SequenceClassification,
		Metrics: []string{"mcc"},
	}
	assert.Error(t, missingLabels.Validate())

	unknownTask := &TaskConfig{
		Name:    "broken",
		Task:    TaskType("regression"),
		Metrics: []string{"mcc"},
	}
	assert.Error(t, unknownTask.Validate())

	noMetrics := ScandiQASv()
	noMetrics.Metrics = nil
	assert.Error(t, noMetrics.Validate())
}
