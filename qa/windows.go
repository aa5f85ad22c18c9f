//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package qa prepares extractive question answering examples for scoring and
// turns span scores back into text answers. Long contexts are split into
// overlapping windows so every part of the context is seen by the model, and
// character-level answer annotations are aligned to token positions.
package qa

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/tokenizer"
)

// Config controls how long contexts are windowed.
type Config struct {
	// MaxLength is the token length of each window, special tokens included.
	MaxLength int
	// Stride is the token overlap between consecutive windows.
	Stride int
}

// NewConfig derives the windowing parameters from a model's maximum sequence
// length: a quarter of the budget overlaps between windows and the rest is
// the window itself.
func NewConfig(modelMaxLen int) Config {
	stride := modelMaxLen / 4
	return Config{
		MaxLength: modelMaxLen - stride,
		Stride:    stride,
	}
}

// Window is one tokenized slice of a question/context pair.
type Window struct {
	// ExampleID identifies the example this window was cut from. Several
	// windows may share one example.
	ExampleID string
	// TokenIDs are the encoded tokens of the window.
	TokenIDs []int
	// Tags classify every token as question, context or other.
	Tags []tokenizer.SequenceTag
	// Offsets are byte offsets of every token in its source string.
	Offsets []tokenizer.Offset
	// NoAnswerIndex is the class-token position used to score "no answer".
	NoAnswerIndex int
}

// LabeledWindow is a window with gold answer token positions for training.
// Both positions point at the class token when the window holds no answer.
type LabeledWindow struct {
	Window
	StartPosition int
	EndPosition   int
}

// BuildTrainingWindows tokenizes the examples into overlapping windows and
// aligns the first gold answer of each example to token positions. Windows
// that do not fully contain the answer are labeled with the class token.
func BuildTrainingWindows(tok tokenizer.Tokenizer, cfg Config, examples []dataset.Example) ([]LabeledWindow, error) {
	batch, clsID, err := encodeWindows(tok, cfg, examples)
	if err != nil {
		return nil, err
	}

	windows := make([]LabeledWindow, 0, len(batch.Encodings))
	for i, enc := range batch.Encodings {
		ex := examples[batch.SampleMapping[i]]
		w, err := newWindow(ex.ID, enc, clsID)
		if err != nil {
			return nil, fmt.Errorf("window %d of example %s: %w", i, ex.ID, err)
		}
		start, end := alignAnswer(enc, w.NoAnswerIndex, ex.Answers)
		windows = append(windows, LabeledWindow{
			Window:        w,
			StartPosition: start,
			EndPosition:   end,
		})
	}
	return windows, nil
}

// BuildEvaluationWindows tokenizes the examples into overlapping windows for
// scoring. No answer alignment happens here; the token tags let the
// postprocessing step restrict candidate spans to context tokens.
func BuildEvaluationWindows(tok tokenizer.Tokenizer, cfg Config, examples []dataset.Example) ([]Window, error) {
	batch, clsID, err := encodeWindows(tok, cfg, examples)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(batch.Encodings))
	for i, enc := range batch.Encodings {
		ex := examples[batch.SampleMapping[i]]
		w, err := newWindow(ex.ID, enc, clsID)
		if err != nil {
			return nil, fmt.Errorf("window %d of example %s: %w", i, ex.ID, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// encodeWindows strips leading whitespace off the questions and encodes the
// question/context pairs with overflow windows. Only the context side is
// truncated, so the full question appears in every window.
func encodeWindows(tok tokenizer.Tokenizer, cfg Config, examples []dataset.Example) (*tokenizer.Batch, int, error) {
	questions := make([]string, len(examples))
	contexts := make([]string, len(examples))
	for i, ex := range examples {
		questions[i] = strings.TrimLeftFunc(ex.Question, unicode.IsSpace)
		contexts[i] = ex.Context
	}

	batch, err := tok.EncodePairs(&tokenizer.PairRequest{
		Questions: questions,
		Contexts:  contexts,
		MaxLength: cfg.MaxLength,
		Stride:    cfg.Stride,
		PadToMax:  true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encode question/context pairs: %w", err)
	}
	if len(batch.SampleMapping) != len(batch.Encodings) {
		return nil, 0, fmt.Errorf("sample mapping has %d entries for %d windows",
			len(batch.SampleMapping), len(batch.Encodings))
	}

	clsID, err := tok.SpecialTokenID(tokenizer.ClassToken)
	if err != nil {
		return nil, 0, fmt.Errorf("look up class token: %w", err)
	}
	return batch, clsID, nil
}

// newWindow wraps one encoding, locating the class token that doubles as the
// no-answer position. A tokenizer without a class token in its output cannot
// express "no answer", so that is an error rather than a silent default.
func newWindow(exampleID string, enc tokenizer.Encoding, clsID int) (Window, error) {
	noAnswer := -1
	for i, id := range enc.IDs {
		if id == clsID {
			noAnswer = i
			break
		}
	}
	if noAnswer < 0 {
		return Window{}, fmt.Errorf("no class token (id %d) in window", clsID)
	}
	return Window{
		ExampleID:     exampleID,
		TokenIDs:      enc.IDs,
		Tags:          enc.Tags,
		Offsets:       enc.Offsets,
		NoAnswerIndex: noAnswer,
	}, nil
}

// alignAnswer maps the first character-annotated answer to start and end
// token positions inside the window. Unanswerable examples and windows that
// only partially overlap the answer get the class-token position twice.
func alignAnswer(enc tokenizer.Encoding, noAnswer int, answers []dataset.AnswerSpan) (int, int) {
	if len(answers) == 0 {
		return noAnswer, noAnswer
	}
	startChar := answers[0].Start
	endChar := startChar + len(answers[0].Text)

	firstCtx, lastCtx := contextBounds(enc.Tags)
	if firstCtx < 0 {
		return noAnswer, noAnswer
	}

	// The answer must sit fully inside this window's slice of the context.
	if enc.Offsets[firstCtx].Start > startChar || enc.Offsets[lastCtx].End < endChar {
		return noAnswer, noAnswer
	}

	tokenStart := firstCtx
	for tokenStart < len(enc.Offsets) && enc.Offsets[tokenStart].Start <= startChar {
		tokenStart++
	}
	start := tokenStart - 1

	tokenEnd := lastCtx
	for tokenEnd >= 0 && enc.Offsets[tokenEnd].End >= endChar {
		tokenEnd--
	}
	end := tokenEnd + 1

	if start > end {
		return noAnswer, noAnswer
	}
	return start, end
}

// contextBounds returns the first and last context token positions, or -1
// when the window holds no context tokens at all.
func contextBounds(tags []tokenizer.SequenceTag) (int, int) {
	first, last := -1, -1
	for i, tag := range tags {
		if tag != tokenizer.TagContext {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}
