//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package seqclass

import (
	"fmt"
	"strings"

	"github.com/nordeval/nordeval/dataset"
)

// RenderPrompts builds one complete prompt per evaluation example: the
// rendered few-shot block, a blank line, then the example rendered with an
// empty label for the model to complete.
func RenderPrompts(fewShot, evals []dataset.Example, cfg *dataset.TaskConfig) ([]string, error) {
	block, err := renderFewShotBlock(fewShot, cfg)
	if err != nil {
		return nil, err
	}

	prompts := make([]string, len(evals))
	for i, ex := range evals {
		evalPrompt := strings.TrimSpace(renderTemplate(cfg.PromptTemplate, ex.Text, ""))
		if block == "" {
			prompts[i] = evalPrompt
			continue
		}
		prompts[i] = block + "\n\n" + evalPrompt
	}
	return prompts, nil
}

// renderFewShotBlock renders the demonstration examples with their prompt
// labels, joined by blank lines and optionally led by the task instruction.
func renderFewShotBlock(fewShot []dataset.Example, cfg *dataset.TaskConfig) (string, error) {
	rendered := make([]string, len(fewShot))
	for i, ex := range fewShot {
		idx, err := cfg.Labels.Index(ex.Label)
		if err != nil {
			return "", fmt.Errorf("render few-shot example %s: %w", ex.ID, err)
		}
		rendered[i] = renderTemplate(cfg.PromptTemplate, ex.Text, cfg.Labels.PromptLabel(idx))
	}

	block := strings.Join(rendered, "\n\n")
	if cfg.PromptPrefix != "" {
		if block == "" {
			return cfg.PromptPrefix, nil
		}
		block = cfg.PromptPrefix + "\n\n" + block
	}
	return block, nil
}

// renderTemplate substitutes the text and label placeholders. Line breaks
// inside the text are collapsed to spaces because blank lines separate the
// prompt segments.
func renderTemplate(tmpl, text, label string) string {
	out := strings.ReplaceAll(tmpl, "{text}", normalizeText(text))
	return strings.ReplaceAll(out, "{label}", label)
}

func normalizeText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}
