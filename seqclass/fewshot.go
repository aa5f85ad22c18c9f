//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package seqclass implements few-shot prompted sequence classification:
// sampling a balanced set of demonstration examples, rendering prompts, and
// resolving generated output back to canonical labels.
package seqclass

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/nordeval/nordeval/dataset"
)

// StarvationError reports that a label required to complete the round-robin
// few-shot cycle has no remaining training example.
type StarvationError struct {
	Label    string
	Selected int
	Want     int
}

func (e *StarvationError) Error() string {
	return fmt.Sprintf("no remaining training example with label %q after selecting %d of %d few-shot examples",
		e.Label, e.Selected, e.Want)
}

// SampleFewShot deterministically picks k demonstration examples from the
// training pool. Labels are assigned round-robin over the seed-shuffled label
// order so the sample stays balanced, every selected example is textually
// distinct, and the presentation order is reshuffled with the same seed at
// the end. The pool itself is never modified.
func SampleFewShot(pool []dataset.Example, set *dataset.LabelSet, k int, seed int64) ([]dataset.Example, error) {
	if set == nil || set.Len() == 0 {
		return nil, errors.New("few-shot sampling requires a label set")
	}
	if k <= 0 {
		return []dataset.Example{}, nil
	}

	rng := rand.New(rand.NewSource(seed))
	remaining := make([]dataset.Example, len(pool))
	copy(remaining, pool)
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	labels := set.Labels()
	rng.Shuffle(len(labels), func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})

	selected := make([]dataset.Example, 0, k)
	for len(selected) < k {
		label := labels[len(selected)%len(labels)]
		idx := -1
		for i, ex := range remaining {
			if strings.EqualFold(ex.Label, label) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &StarvationError{Label: label, Selected: len(selected), Want: k}
		}
		chosen := remaining[idx]
		selected = append(selected, chosen)

		// Every example sharing the chosen text leaves the pool, so the
		// prompt never repeats a demonstration verbatim.
		next := make([]dataset.Example, 0, len(remaining)-1)
		for _, ex := range remaining {
			if ex.Text != chosen.Text {
				next = append(next, ex)
			}
		}
		remaining = next
	}

	order := rand.New(rand.NewSource(seed))
	order.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, nil
}
