//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package seqclass

import (
	"errors"
	"fmt"

	"github.com/nordeval/nordeval/dataset"
)

// Argmax returns the index of the largest score. The first maximum wins on
// ties; an empty vector is an error.
func Argmax(scores []float64) (int, error) {
	if len(scores) == 0 {
		return 0, errors.New("argmax of empty score vector")
	}
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best, nil
}

// ArgmaxRows applies Argmax to every row of a score matrix.
func ArgmaxRows(scores [][]float64) ([]int, error) {
	out := make([]int, len(scores))
	for i, row := range scores {
		idx, err := Argmax(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = idx
	}
	return out, nil
}

// LabelIndices maps label strings to canonical indices by case-insensitive
// lookup. A label absent from the set surfaces a *dataset.UnknownLabelError
// naming the offending string and the full mapping.
func LabelIndices(labels []string, set *dataset.LabelSet) ([]int, error) {
	if set == nil {
		return nil, errors.New("label lookup requires a label set")
	}
	out := make([]int, len(labels))
	for i, label := range labels {
		idx, err := set.Index(label)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}
