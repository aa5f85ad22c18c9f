//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// UnknownLabelError reports a label string that is absent from the
// configured label set. It names the offending value and the full mapping
// so a configuration/data mismatch is immediately diagnosable.
type UnknownLabelError struct {
	// Label is the offending label string as it appeared in the data.
	Label string
	// Mapping is the configured canonical-label-to-index mapping.
	Mapping map[string]int
}

// Error implements the error interface.
func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("label %q is not present in the configured label mapping %v", e.Label, e.Mapping)
}

// LabelSet is the closed, ordered candidate set of a classification task.
// Every canonical label carries a lowercase prompt label used when the task
// is rendered into few-shot prompts; the two sides form a bijection.
type LabelSet struct {
	canonical []string
	prompt    []string
	index     map[string]int // lowercase canonical -> position
}

// NewLabelSet builds a label set from parallel canonical and prompt label
// slices. Prompt labels are lowercased. Duplicate canonical labels
// (case-insensitive) or duplicate prompt labels violate the bijection and
// are rejected.
func NewLabelSet(canonical, prompt []string) (*LabelSet, error) {
	if len(canonical) == 0 {
		return nil, errors.New("label set requires at least one label")
	}
	if len(prompt) != len(canonical) {
		return nil, fmt.Errorf("label set has %d canonical labels but %d prompt labels",
			len(canonical), len(prompt))
	}
	s := &LabelSet{
		canonical: make([]string, len(canonical)),
		prompt:    make([]string, len(prompt)),
		index:     make(map[string]int, len(canonical)),
	}
	seenPrompt := make(map[string]struct{}, len(prompt))
	for i, label := range canonical {
		key := strings.ToLower(label)
		if key == "" {
			return nil, fmt.Errorf("canonical label at position %d is empty", i)
		}
		if _, ok := s.index[key]; ok {
			return nil, fmt.Errorf("duplicate canonical label %q", label)
		}
		p := strings.ToLower(prompt[i])
		if p == "" {
			return nil, fmt.Errorf("prompt label for %q is empty", label)
		}
		if _, ok := seenPrompt[p]; ok {
			return nil, fmt.Errorf("duplicate prompt label %q", p)
		}
		seenPrompt[p] = struct{}{}
		s.canonical[i] = label
		s.prompt[i] = p
		s.index[key] = i
	}
	return s, nil
}

// Len reports the number of labels.
func (s *LabelSet) Len() int {
	return len(s.canonical)
}

// Labels returns a copy of the canonical labels in candidate order.
func (s *LabelSet) Labels() []string {
	out := make([]string, len(s.canonical))
	copy(out, s.canonical)
	return out
}

// Canonical returns the canonical label at position i.
func (s *LabelSet) Canonical(i int) string {
	return s.canonical[i]
}

// PromptLabel returns the lowercase prompt label at position i.
func (s *LabelSet) PromptLabel(i int) string {
	return s.prompt[i]
}

// Index resolves a label string to its position in the candidate set,
// case-insensitively. An absent label yields an *UnknownLabelError carrying
// the full configured mapping.
func (s *LabelSet) Index(label string) (int, error) {
	if i, ok := s.index[strings.ToLower(label)]; ok {
		return i, nil
	}
	return 0, &UnknownLabelError{Label: label, Mapping: s.Mapping()}
}

// Mapping returns the canonical-label-to-index mapping as a fresh map.
func (s *LabelSet) Mapping() map[string]int {
	m := make(map[string]int, len(s.canonical))
	for i, label := range s.canonical {
		m[label] = i
	}
	return m
}
