//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package metric implements the scores reported by the benchmark harness.
// All metrics return percentages in [0, 100], or [-100, 100] for
// correlation-style scores.
package metric

// Metric names as referenced by task configurations.
const (
	NameAccuracy   = "accuracy"
	NameMCC        = "mcc"
	NameMacroF1    = "macro_f1"
	NameEntityF1   = "entity_f1"
	NameExactMatch = "em"
	NameTokenF1    = "f1"
)
