//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Accuracy returns the share of matching prediction/reference pairs.
func Accuracy(preds, refs []int) (float64, error) {
	if err := checkPairs(len(preds), len(refs)); err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range preds {
		if p == refs[i] {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(preds)), nil
}

// MatthewsCorrelation returns the multi-class Matthews correlation
// coefficient over the classes observed in either sequence, scaled to
// [-100, 100]. A degenerate distribution (single class, or constant
// predictions) has no correlation and scores zero.
func MatthewsCorrelation(preds, refs []int) (float64, error) {
	if err := checkPairs(len(preds), len(refs)); err != nil {
		return 0, err
	}

	classes := observedClasses(preds, refs)
	k := len(classes)
	confusion := make([][]float64, k)
	for i := range confusion {
		confusion[i] = make([]float64, k)
	}
	for i, p := range preds {
		confusion[classes[refs[i]]][classes[p]]++
	}

	var trace, total float64
	rowSum := make([]float64, k)
	colSum := make([]float64, k)
	for r := 0; r < k; r++ {
		trace += confusion[r][r]
		for c := 0; c < k; c++ {
			rowSum[r] += confusion[r][c]
			colSum[c] += confusion[r][c]
			total += confusion[r][c]
		}
	}

	var sumRP, sumRR, sumPP float64
	for i := 0; i < k; i++ {
		sumRP += rowSum[i] * colSum[i]
		sumRR += rowSum[i] * rowSum[i]
		sumPP += colSum[i] * colSum[i]
	}

	numerator := trace*total - sumRP
	denominator := math.Sqrt(total*total-sumPP) * math.Sqrt(total*total-sumRR)
	if denominator == 0 {
		return 0, nil
	}
	return 100 * numerator / denominator, nil
}

// MacroF1 returns the unweighted mean of per-class F1 scores over the
// classes observed in either sequence, as a percentage. A reference class
// the model never predicts still contributes its zero.
func MacroF1(preds, refs []int) (float64, error) {
	if err := checkPairs(len(preds), len(refs)); err != nil {
		return 0, err
	}

	classes := observedClasses(preds, refs)
	tp := make([]float64, len(classes))
	fp := make([]float64, len(classes))
	fn := make([]float64, len(classes))
	for i, p := range preds {
		if p == refs[i] {
			tp[classes[p]]++
			continue
		}
		fp[classes[p]]++
		fn[classes[refs[i]]]++
	}

	var sum float64
	for c := range tp {
		if denom := 2*tp[c] + fp[c] + fn[c]; denom > 0 {
			sum += 2 * tp[c] / denom
		}
	}
	return 100 * sum / float64(len(classes)), nil
}

// observedClasses maps every class id seen in either sequence to a dense
// index, in ascending id order.
func observedClasses(preds, refs []int) map[int]int {
	seen := map[int]bool{}
	for _, p := range preds {
		seen[p] = true
	}
	for _, r := range refs {
		seen[r] = true
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	classes := make(map[int]int, len(ids))
	for i, id := range ids {
		classes[id] = i
	}
	return classes
}

func checkPairs(preds, refs int) error {
	if preds != refs {
		return fmt.Errorf("%d predictions for %d references", preds, refs)
	}
	if preds == 0 {
		return errors.New("no prediction/reference pairs to score")
	}
	return nil
}
