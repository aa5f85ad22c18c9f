//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package tokenclass aligns word-level labels with sub-token sequences for
// token classification tasks. Tokenizers split words into sub-tokens; the
// first sub-token of every word carries the word's label and all other
// positions are masked.
package tokenclass

import (
	"errors"
	"fmt"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/tokenizer"
)

// IgnoreIndex marks token positions excluded from loss and scoring: special
// tokens and non-first sub-tokens of a word.
const IgnoreIndex = -100

// AlignLabels maps word-level labels onto the token positions of a
// word-split encoding. The encoding must carry word ids; positions without a
// word and continuation sub-tokens get IgnoreIndex.
func AlignLabels(enc tokenizer.Encoding, wordLabels []string, set *dataset.LabelSet) ([]int, error) {
	if set == nil {
		return nil, errors.New("label alignment requires a label set")
	}
	if enc.WordIDs == nil {
		return nil, errors.New("encoding carries no word ids; labels cannot be aligned")
	}
	if len(enc.WordIDs) != len(enc.IDs) {
		return nil, fmt.Errorf("%d word ids for %d tokens", len(enc.WordIDs), len(enc.IDs))
	}

	labels := make([]int, len(enc.IDs))
	prevWord := -1
	for i, word := range enc.WordIDs {
		switch {
		case word < 0:
			labels[i] = IgnoreIndex
		case word == prevWord:
			labels[i] = IgnoreIndex
		default:
			if word >= len(wordLabels) {
				return nil, fmt.Errorf("token %d references word %d but only %d word labels given",
					i, word, len(wordLabels))
			}
			id, err := set.Index(wordLabels[word])
			if err != nil {
				return nil, err
			}
			labels[i] = id
		}
		prevWord = word
	}
	return labels, nil
}

// WordPredictions inverts the alignment for scoring: for every word, the
// label predicted at its first sub-token, as a canonical label string.
func WordPredictions(tokenPreds []int, enc tokenizer.Encoding, set *dataset.LabelSet) ([]string, error) {
	if set == nil {
		return nil, errors.New("prediction mapping requires a label set")
	}
	if enc.WordIDs == nil {
		return nil, errors.New("encoding carries no word ids; predictions cannot be mapped")
	}
	if len(tokenPreds) != len(enc.WordIDs) {
		return nil, fmt.Errorf("%d predictions for %d tokens", len(tokenPreds), len(enc.WordIDs))
	}

	var words []string
	prevWord := -1
	for i, word := range enc.WordIDs {
		first := word >= 0 && word != prevWord
		prevWord = word
		if !first {
			continue
		}
		if word != len(words) {
			return nil, fmt.Errorf("token %d starts word %d but %d words were seen so far",
				i, word, len(words))
		}
		id := tokenPreds[i]
		if id < 0 || id >= set.Len() {
			return nil, fmt.Errorf("predicted class %d at token %d outside the %d-label set",
				id, i, set.Len())
		}
		words = append(words, set.Canonical(id))
	}
	return words, nil
}
