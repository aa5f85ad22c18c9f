//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"fmt"
	"strings"
	"unicode"
)

// ExactMatch returns the share of predictions that exactly equal one of
// their reference answers after normalization, as a percentage. Every
// example needs at least one reference; unanswerable examples use the empty
// string as their reference.
func ExactMatch(preds []string, refs [][]string) (float64, error) {
	if err := checkPairs(len(preds), len(refs)); err != nil {
		return 0, err
	}
	var sum float64
	for i, pred := range preds {
		if len(refs[i]) == 0 {
			return 0, fmt.Errorf("example %d has no reference answers", i)
		}
		p := normalizeAnswer(pred)
		for _, ref := range refs[i] {
			if p == normalizeAnswer(ref) {
				sum++
				break
			}
		}
	}
	return 100 * sum / float64(len(preds)), nil
}

// TokenF1 returns the mean best token-overlap F1 between each prediction
// and its references, as a percentage.
func TokenF1(preds []string, refs [][]string) (float64, error) {
	if err := checkPairs(len(preds), len(refs)); err != nil {
		return 0, err
	}
	var sum float64
	for i, pred := range preds {
		if len(refs[i]) == 0 {
			return 0, fmt.Errorf("example %d has no reference answers", i)
		}
		best := 0.0
		for _, ref := range refs[i] {
			if f1 := tokenF1(pred, ref); f1 > best {
				best = f1
			}
		}
		sum += best
	}
	return 100 * sum / float64(len(preds)), nil
}

// tokenF1 scores one prediction against one reference by token overlap.
func tokenF1(pred, ref string) float64 {
	p := strings.Fields(normalizeAnswer(pred))
	r := strings.Fields(normalizeAnswer(ref))
	if len(p) == 0 || len(r) == 0 {
		// An empty answer only matches another empty answer.
		if len(p) == len(r) {
			return 1
		}
		return 0
	}

	counts := make(map[string]int, len(r))
	for _, tok := range r {
		counts[tok]++
	}
	common := 0
	for _, tok := range p {
		if counts[tok] > 0 {
			counts[tok]--
			common++
		}
	}
	if common == 0 {
		return 0
	}
	precision := float64(common) / float64(len(p))
	recall := float64(common) / float64(len(r))
	return 2 * precision * recall / (precision + recall)
}

// normalizeAnswer lowercases, strips punctuation and collapses whitespace.
// Articles are kept: unlike English SQuAD scoring, the benchmarked languages
// attach definiteness as suffixes, so there is no stopword list to strip.
func normalizeAnswer(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
