//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package seqclass_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/model"
	"github.com/nordeval/nordeval/seqclass"
	"github.com/nordeval/nordeval/tokenizer"
)

// stubTokenizer resolves fixed strings to fixed token ids and back. Encode
// and Decode are the only methods label resolution touches.
type stubTokenizer struct {
	encode map[string][]int
	decode map[int]string
}

func (s *stubTokenizer) Encode(text string, _ bool) (tokenizer.Encoding, error) {
	ids, ok := s.encode[text]
	if !ok {
		return tokenizer.Encoding{}, fmt.Errorf("no stub encoding for %q", text)
	}
	return tokenizer.Encoding{IDs: ids}, nil
}

func (s *stubTokenizer) EncodeWords([]string, bool) (tokenizer.Encoding, error) {
	return tokenizer.Encoding{}, errors.New("not implemented")
}

func (s *stubTokenizer) EncodePairs(*tokenizer.PairRequest) (*tokenizer.Batch, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenizer) Decode(ids []int, _ bool) (string, error) {
	words := make([]string, len(ids))
	for i, id := range ids {
		w, ok := s.decode[id]
		if !ok {
			return "", fmt.Errorf("no stub word for id %d", id)
		}
		words[i] = w
	}
	return strings.Join(words, " "), nil
}

func (s *stubTokenizer) SpecialTokenID(tokenizer.SpecialToken) (int, error) {
	return 0, errors.New("not implemented")
}

func (s *stubTokenizer) ModelMaxLength() int { return 512 }

func polaritySet(t *testing.T) *dataset.LabelSet {
	t.Helper()
	set, err := dataset.NewLabelSet(
		[]string{"positive", "negative"},
		[]string{"positiv", "negativ"},
	)
	require.NoError(t, err)
	return set
}

// TestResolveLabels_LogprobsFirstToken verifies candidate scores come from
// the first generated step via each prompt label's first token id, and the
// returned labels are canonical.
func TestResolveLabels_LogprobsFirstToken(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{encode: map[string][]int{
		"positiv": {7, 9}, // multi-token label, first token represents it
		"negativ": {8},
	}}

	step0 := [][]float64{
		{0, 0, 0, 0, 0, 0, 0, -0.5, -2.0, 0},
		{0, 0, 0, 0, 0, 0, 0, -3.0, -0.1, 0},
	}
	// A later step favoring the other candidate must be ignored.
	step1 := [][]float64{
		{0, 0, 0, 0, 0, 0, 0, -9.0, 0.0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0.0, -9.0, 0},
	}

	labels, err := seqclass.ResolveLabels(&model.Logprobs{Steps: [][][]float64{step0, step1}}, tok, set, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"positive", "negative"}, labels)
}

// TestResolveLabels_LogprobsTieBreak verifies equal scores resolve to the
// earlier candidate.
func TestResolveLabels_LogprobsTieBreak(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{encode: map[string][]int{
		"positiv": {7},
		"negativ": {8},
	}}

	step0 := [][]float64{{0, 0, 0, 0, 0, 0, 0, -1.0, -1.0, 0}}
	labels, err := seqclass.ResolveLabels(&model.Logprobs{Steps: [][][]float64{step0}}, tok, set, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"positive"}, labels)
}

// TestResolveLabels_LogprobsEmptyLabelEncoding verifies a label that
// tokenizes to nothing fails fast as a configuration error.
func TestResolveLabels_LogprobsEmptyLabelEncoding(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{encode: map[string][]int{
		"positiv": {},
		"negativ": {8},
	}}

	_, err := seqclass.ResolveLabels(&model.Logprobs{Steps: [][][]float64{{{0}}}}, tok, set, nil)
	require.Error(t, err)

	var lte *seqclass.LabelTokenError
	require.ErrorAs(t, err, &lte)
	assert.Equal(t, "positiv", lte.Label)
}

// TestResolveLabels_LogprobsVocabularyBounds verifies a representative id
// outside the vocabulary is reported instead of read out of range.
func TestResolveLabels_LogprobsVocabularyBounds(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{encode: map[string][]int{
		"positiv": {70},
		"negativ": {8},
	}}

	_, err := seqclass.ResolveLabels(&model.Logprobs{Steps: [][][]float64{{make([]float64, 10)}}}, tok, set, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside vocabulary")
}

// TestResolveLabels_EditDistanceTypo verifies a misspelled generation still
// resolves to its nearest candidate.
func TestResolveLabels_EditDistanceTypo(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{decode: map[int]string{42: "Negetive"}}

	labels, err := seqclass.ResolveLabels(&model.Sequences{IDs: [][]int{{42}}}, tok, set, []string{"\n"})
	require.NoError(t, err)
	assert.Equal(t, []string{"negative"}, labels)
}

// TestResolveLabels_EditDistanceStopTruncation verifies the generation is
// cut at the earliest stop marker before matching.
func TestResolveLabels_EditDistanceStopTruncation(t *testing.T) {
	set, err := dataset.NewLabelSet([]string{"ja", "nej"}, []string{"ja", "nej"})
	require.NoError(t, err)
	tok := &stubTokenizer{decode: map[int]string{
		1: "ja", 2: "visst\nDokument:", 3: "nej",
	}}

	// Decodes to "ja visst\nDokument: nej"; everything after the line break
	// must be ignored.
	labels, err := seqclass.ResolveLabels(&model.Sequences{IDs: [][]int{{1, 2, 3}}}, tok, set, []string{"\n", "Dokument"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ja"}, labels)
}

// TestResolveLabels_EditDistanceTieBreak verifies equidistant candidates
// resolve to the earlier one.
func TestResolveLabels_EditDistanceTieBreak(t *testing.T) {
	set, err := dataset.NewLabelSet([]string{"ja", "nu"}, []string{"ja", "nu"})
	require.NoError(t, err)
	tok := &stubTokenizer{decode: map[int]string{5: "na"}}

	labels, err := seqclass.ResolveLabels(&model.Sequences{IDs: [][]int{{5}}}, tok, set, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ja"}, labels)
}

// TestResolveLabels_Deterministic verifies repeated resolution of the same
// output yields identical labels.
func TestResolveLabels_Deterministic(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{
		encode: map[string][]int{"positiv": {7}, "negativ": {8}},
		decode: map[int]string{42: "Negetive"},
	}

	lp := &model.Logprobs{Steps: [][][]float64{{{0, 0, 0, 0, 0, 0, 0, -0.5, -2.0, 0}}}}
	seqs := &model.Sequences{IDs: [][]int{{42}}}

	for i := 0; i < 3; i++ {
		labels, err := seqclass.ResolveLabels(lp, tok, set, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"positive"}, labels)

		labels, err = seqclass.ResolveLabels(seqs, tok, set, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"negative"}, labels)
	}
}

// TestResolveLabels_BadInput verifies nil output, missing steps and a nil
// label set are rejected.
func TestResolveLabels_BadInput(t *testing.T) {
	set := polaritySet(t)
	tok := &stubTokenizer{}

	_, err := seqclass.ResolveLabels(nil, tok, set, nil)
	assert.Error(t, err)

	_, err = seqclass.ResolveLabels(&model.Logprobs{}, tok, set, nil)
	assert.Error(t, err)

	_, err = seqclass.ResolveLabels(&model.Sequences{}, tok, nil, nil)
	assert.Error(t, err)
}
