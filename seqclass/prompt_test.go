//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package seqclass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordeval/nordeval/dataset"
	"github.com/nordeval/nordeval/seqclass"
)

func sentimentConfig(t *testing.T) *dataset.TaskConfig {
	t.Helper()
	return &dataset.TaskConfig{
		Name:           "test-sentiment",
		Task:           dataset.SequenceClassification,
		Labels:         sentimentSet(t),
		PromptPrefix:   "Följande är dokument och deras sentiment.",
		PromptTemplate: "Dokument: {text}\nSentiment: {label}",
		Metrics:        []string{"mcc"},
	}
}

// TestRenderPrompts_Layout verifies the full prompt layout: prefix, blank
// lines between demonstrations, and the evaluation example with its label
// slot left empty and trimmed.
func TestRenderPrompts_Layout(t *testing.T) {
	cfg := sentimentConfig(t)
	fewShot := []dataset.Example{
		{ID: "a", Text: "Maten var kall.", Label: "negative"},
		{ID: "b", Text: "Fantastisk service!", Label: "positive"},
	}
	evals := []dataset.Example{{ID: "e", Text: "Helt okej upplevelse."}}

	prompts, err := seqclass.RenderPrompts(fewShot, evals, cfg)
	require.NoError(t, err)
	require.Len(t, prompts, 1)

	want := "Följande är dokument och deras sentiment.\n\n" +
		"Dokument: Maten var kall.\nSentiment: negativ\n\n" +
		"Dokument: Fantastisk service!\nSentiment: positiv\n\n" +
		"Dokument: Helt okej upplevelse.\nSentiment:"
	assert.Equal(t, want, prompts[0])
}

// TestRenderPrompts_NormalizesLineBreaks verifies line breaks inside example
// text collapse to spaces before substitution.
func TestRenderPrompts_NormalizesLineBreaks(t *testing.T) {
	cfg := sentimentConfig(t)
	cfg.PromptPrefix = ""

	fewShot := []dataset.Example{{ID: "a", Text: "  Rad ett.\nRad två.\n", Label: "neutral"}}
	evals := []dataset.Example{{ID: "e", Text: "Sista\nraden."}}

	prompts, err := seqclass.RenderPrompts(fewShot, evals, cfg)
	require.NoError(t, err)
	want := "Dokument: Rad ett. Rad två.\nSentiment: neutral\n\n" +
		"Dokument: Sista raden.\nSentiment:"
	assert.Equal(t, want, prompts[0])
}

// TestRenderPrompts_ZeroShot verifies an empty demonstration block leaves
// just the rendered evaluation example.
func TestRenderPrompts_ZeroShot(t *testing.T) {
	cfg := sentimentConfig(t)
	cfg.PromptPrefix = ""

	prompts, err := seqclass.RenderPrompts(nil, []dataset.Example{{ID: "e", Text: "Enda texten."}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Dokument: Enda texten.\nSentiment:", prompts[0])
}

// TestRenderPrompts_PrefixOnly verifies a prefix without demonstrations
// still leads the prompt.
func TestRenderPrompts_PrefixOnly(t *testing.T) {
	cfg := sentimentConfig(t)

	prompts, err := seqclass.RenderPrompts(nil, []dataset.Example{{ID: "e", Text: "Enda texten."}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.PromptPrefix+"\n\nDokument: Enda texten.\nSentiment:", prompts[0])
}

// TestRenderPrompts_UnknownLabel verifies a demonstration label outside the
// set aborts rendering with the configured mapping in the error.
func TestRenderPrompts_UnknownLabel(t *testing.T) {
	cfg := sentimentConfig(t)
	fewShot := []dataset.Example{{ID: "a", Text: "Konstig text.", Label: "sarcastic"}}

	_, err := seqclass.RenderPrompts(fewShot, []dataset.Example{{ID: "e", Text: "x"}}, cfg)
	require.Error(t, err)

	var unknown *dataset.UnknownLabelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "sarcastic", unknown.Label)
}

// TestRenderPrompts_EachEvalGetsOwnPrompt verifies the block is shared and
// every evaluation example is rendered separately.
func TestRenderPrompts_EachEvalGetsOwnPrompt(t *testing.T) {
	cfg := sentimentConfig(t)
	cfg.PromptPrefix = ""
	fewShot := []dataset.Example{{ID: "a", Text: "Bra.", Label: "positive"}}
	evals := []dataset.Example{
		{ID: "e1", Text: "Första."},
		{ID: "e2", Text: "Andra."},
	}

	prompts, err := seqclass.RenderPrompts(fewShot, evals, cfg)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "Dokument: Bra.\nSentiment: positiv\n\nDokument: Första.\nSentiment:", prompts[0])
	assert.Equal(t, "Dokument: Bra.\nSentiment: positiv\n\nDokument: Andra.\nSentiment:", prompts[1])
}
