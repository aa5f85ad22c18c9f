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
	"math"
	"strings"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/internal/levenshtein"
	"github.com/nordeval/nordeval/model"
	"github.com/nordeval/nordeval/tokenizer"
)

// LabelTokenError reports a prompt label that cannot be represented by a
// first token id because tokenizing it produced nothing. This is a task
// configuration defect, not a per-item condition.
type LabelTokenError struct {
	Label string
}

func (e *LabelTokenError) Error() string {
	return fmt.Sprintf("prompt label %q tokenized to zero tokens; no representative token id", e.Label)
}

// ResolveLabels maps generated model output to one canonical label per batch
// item. Which strategy runs is decided by the output form: vocabulary
// log-probabilities use the first generated step, decoded sequences fall
// back to edit distance. Both are deterministic, with ties resolved to the
// earlier candidate.
func ResolveLabels(out model.Output, tok tokenizer.Tokenizer, set *dataset.LabelSet, stops []string) ([]string, error) {
	if set == nil || set.Len() == 0 {
		return nil, errors.New("label resolution requires a label set")
	}
	switch v := out.(type) {
	case *model.Logprobs:
		return resolveFromLogprobs(v, tok, set)
	case *model.Sequences:
		return resolveFromSequences(v, tok, set, stops)
	case nil:
		return nil, errors.New("nil model output")
	}
	return nil, fmt.Errorf("unsupported model output %T", out)
}

// resolveFromLogprobs scores every candidate by the log-probability of its
// prompt label's first token at the first generated position. A label split
// into several tokens is represented by its first token alone.
func resolveFromLogprobs(lp *model.Logprobs, tok tokenizer.Tokenizer, set *dataset.LabelSet) ([]string, error) {
	if len(lp.Steps) == 0 {
		return nil, errors.New("logprob output has no generation steps")
	}

	repIDs := make([]int, set.Len())
	for i := range repIDs {
		enc, err := tok.Encode(set.PromptLabel(i), false)
		if err != nil {
			return nil, fmt.Errorf("tokenize prompt label %q: %w", set.PromptLabel(i), err)
		}
		if len(enc.IDs) == 0 {
			return nil, &LabelTokenError{Label: set.PromptLabel(i)}
		}
		repIDs[i] = enc.IDs[0]
	}

	step := lp.Steps[0]
	labels := make([]string, len(step))
	for b, vocab := range step {
		best, bestVal := -1, math.Inf(-1)
		for c, id := range repIDs {
			if id < 0 || id >= len(vocab) {
				return nil, fmt.Errorf("representative token id %d of label %q outside vocabulary of size %d",
					id, set.Canonical(c), len(vocab))
			}
			if vocab[id] > bestVal {
				best, bestVal = c, vocab[id]
			}
		}
		labels[b] = set.Canonical(best)
	}
	return labels, nil
}

// resolveFromSequences decodes each generated sequence, cuts it at the first
// stop marker, and picks the candidate with the smallest edit distance to
// the remaining phrase.
func resolveFromSequences(seq *model.Sequences, tok tokenizer.Tokenizer, set *dataset.LabelSet, stops []string) ([]string, error) {
	labels := make([]string, len(seq.IDs))
	for b, ids := range seq.IDs {
		text, err := tok.Decode(ids, true)
		if err != nil {
			return nil, fmt.Errorf("decode sequence %d: %w", b, err)
		}
		raw := strings.ToLower(strings.TrimSpace(truncateAtStop(text, stops)))

		best, bestDist := -1, 0
		for c := 0; c < set.Len(); c++ {
			d := levenshtein.Distance(raw, strings.ToLower(set.Canonical(c)))
			if best < 0 || d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[b] = set.Canonical(best)
	}
	return labels, nil
}

// truncateAtStop cuts the text at the earliest occurrence of any stop marker.
func truncateAtStop(text string, stops []string) string {
	cut := len(text)
	for _, s := range stops {
		if s == "" {
			continue
		}
		if i := strings.Index(text, s); i >= 0 && i < cut {
			cut = i
		}
	}
	return text[:cut]
}
