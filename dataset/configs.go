//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package dataset

import "golang.org/x/text/language"

// Built-in task configurations for the Nordic benchmark datasets the
// harness ships with. Each constructor returns a fresh config so callers
// can tweak fields without affecting other runs.

// AbsabankImm returns the configuration of the ABSAbank-Imm Swedish
// sentiment classification dataset.
func AbsabankImm() *TaskConfig {
	return &TaskConfig{
		Name:     "absabank-imm",
		Task:     SequenceClassification,
		Language: language.Swedish,
		Labels: mustLabelSet(
			[]string{"negative", "neutral", "positive"},
			[]string{"negativ", "neutral", "positiv"},
		),
		PromptPrefix: "Följande är dokument och deras sentiment, " +
			"som kan vara 'positiv', 'neutral' eller 'negativ'.",
		PromptTemplate: "Dokument: {text}\nSentiment: {label}",
		NumFewShot:     12,
		StopSequences:  []string{"\n"},
		MaxNewTokens:   3,
		Metrics:        []string{"mcc", "macro_f1"},
	}
}

// ScalaSv returns the configuration of the ScaLA-sv Swedish linguistic
// acceptability dataset.
func ScalaSv() *TaskConfig {
	return &TaskConfig{
		Name:     "scala-sv",
		Task:     SequenceClassification,
		Language: language.Swedish,
		Labels: mustLabelSet(
			[]string{"correct", "incorrect"},
			[]string{"ja", "nej"},
		),
		PromptPrefix: "Följande är meningar och huruvida de är " +
			"grammatiskt korrekta.",
		PromptTemplate: "Mening: {text}\nGrammatiskt korrekt: {label}",
		NumFewShot:     12,
		StopSequences:  []string{"\n"},
		MaxNewTokens:   3,
		Metrics:        []string{"mcc", "macro_f1"},
	}
}

// SUC3 returns the configuration of the SUC 3.0 Swedish named entity
// recognition dataset. The harness scores it with a token scorer, so no
// prompt strings are configured.
func SUC3() *TaskConfig {
	tags := []string{
		"O",
		"B-PER", "I-PER",
		"B-ORG", "I-ORG",
		"B-LOC", "I-LOC",
		"B-MISC", "I-MISC",
	}
	return &TaskConfig{
		Name:     "suc3",
		Task:     TokenClassification,
		Language: language.Swedish,
		Labels:   mustLabelSet(tags, tags),
		Metrics:  []string{"entity_f1"},
	}
}

// ScandiQASv returns the configuration of the ScandiQA-sv Swedish
// extractive question answering dataset.
func ScandiQASv() *TaskConfig {
	return &TaskConfig{
		Name:     "scandiqa-sv",
		Task:     QuestionAnswering,
		Language: language.Swedish,
		Metrics:  []string{"em", "f1"},
	}
}

// Builtin returns the configurations of all built-in datasets.
func Builtin() []*TaskConfig {
	return []*TaskConfig{
		AbsabankImm(),
		ScalaSv(),
		SUC3(),
		ScandiQASv(),
	}
}

// mustLabelSet builds a label set for a built-in config; the inputs are
// static, so a failure is a programming error.
func mustLabelSet(canonical, prompt []string) *LabelSet {
	s, err := NewLabelSet(canonical, prompt)
	if err != nil {
		panic(err)
	}
	return s
}
