//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// TaskType identifies the kind of supervision a dataset provides.
type TaskType string

const (
	// SequenceClassification assigns one label to a whole text.
	SequenceClassification TaskType = "sequence-classification"
	// TokenClassification assigns one label per word (BIO tagging).
	TokenClassification TaskType = "token-classification"
	// QuestionAnswering extracts an answer span from a context.
	QuestionAnswering TaskType = "question-answering"
)

// TaskConfig carries everything the harness needs to benchmark one dataset.
// The fields mirror the configuration the surrounding tooling passes
// through: label set, prompt strings, few-shot count, seed-independent stop
// markers and metric names.
type TaskConfig struct {
	// Name identifies the dataset, e.g. "absabank-imm".
	Name string
	// Task selects the evaluation pipeline.
	Task TaskType
	// Language is the primary language of the dataset.
	Language language.Tag
	// Labels is the candidate set for classification tasks; nil for QA.
	Labels *LabelSet
	// PromptPrefix is an optional instruction placed before the few-shot
	// block, separated from it by a double line break.
	PromptPrefix string
	// PromptTemplate renders one example using {text} and {label}
	// placeholders.
	PromptTemplate string
	// NumFewShot is the number of examples sampled into the few-shot block.
	NumFewShot int
	// StopSequences truncate generated text during label resolution.
	StopSequences []string
	// MaxNewTokens caps generation length for generative evaluation.
	MaxNewTokens int
	// Metrics names the scores reported for this dataset.
	Metrics []string
}

// Validate reports configuration defects that would corrupt a benchmark
// run. It is called once when a benchmarker is constructed.
func (c *TaskConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("task config is nil")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("task config has no dataset name")
	}
	switch c.Task {
	case SequenceClassification, TokenClassification:
		if c.Labels == nil {
			return fmt.Errorf("task %s: %s requires a label set", c.Name, c.Task)
		}
	case QuestionAnswering:
	default:
		return fmt.Errorf("task %s: unknown task type %q", c.Name, c.Task)
	}
	if c.NumFewShot < 0 {
		return fmt.Errorf("task %s: negative few-shot count %d", c.Name, c.NumFewShot)
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("task %s: no metrics configured", c.Name)
	}
	return nil
}
