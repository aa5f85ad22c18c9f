//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package dataset defines the data model shared by all nordeval tasks:
// examples, splits, label sets and per-task configuration.
package dataset

// AnswerSpan is one reference answer of an extractive QA example.
type AnswerSpan struct {
	// Start is the byte offset of the answer within the example context.
	// Loaders ingesting corpora produced with code-point indexing convert
	// at the boundary.
	Start int `json:"answer_start"`
	// Text is the answer exactly as it appears in the context.
	Text string `json:"text"`
}

// Example is one dataset row. Which fields are populated depends on the
// task: sequence classification uses Text and Label, token classification
// uses Tokens and Labels (word-level BIO tags), question answering uses
// Question, Context and Answers. An empty Answers slice marks an
// unanswerable question.
type Example struct {
	ID       string       `json:"id,omitempty"`
	Text     string       `json:"text,omitempty"`
	Label    string       `json:"label,omitempty"`
	Tokens   []string     `json:"tokens,omitempty"`
	Labels   []string     `json:"labels,omitempty"`
	Question string       `json:"question,omitempty"`
	Context  string       `json:"context,omitempty"`
	Answers  []AnswerSpan `json:"answers,omitempty"`
}

// Splits bundles the train/validation/test portions of one dataset.
type Splits struct {
	// Name identifies the dataset the splits belong to.
	Name string `json:"name"`
	// Train is the pool few-shot examples are sampled from.
	Train []Example `json:"train"`
	// Val is the validation split.
	Val []Example `json:"val"`
	// Test is the split benchmark scores are computed on.
	Test []Example `json:"test"`
}
