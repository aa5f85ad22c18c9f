//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package tokenizer defines the contract nordeval expects from an external
// tokenization engine. The harness never tokenizes text itself; it consumes
// token ids, byte offsets and sequence tags produced by an implementation of
// the Tokenizer interface and turns them into model-ready inputs.
package tokenizer

import "fmt"

// SequenceTag classifies one token position of a question/context pair
// encoding. It replaces the numeric sentinel offsets some toolkits use for
// special tokens, so that downstream code can branch on the tag instead of
// doing arithmetic on magic values.
type SequenceTag uint8

const (
	// TagOther marks special, padding or otherwise non-text tokens.
	TagOther SequenceTag = iota
	// TagQuestion marks tokens originating from the first (question) sequence.
	TagQuestion
	// TagContext marks tokens originating from the second (context) sequence.
	TagContext
)

// String returns the lowercase name of the tag.
func (t SequenceTag) String() string {
	switch t {
	case TagQuestion:
		return "question"
	case TagContext:
		return "context"
	default:
		return "other"
	}
}

// Offset is the half-open byte range [Start, End) a token covers in its
// source string. Byte indexing is used throughout so Go string slicing and
// tokenizer output agree; loaders converting corpora produced with
// code-point indexing are responsible for the conversion.
type Offset struct {
	Start int
	End   int
}

// Encoding is the tokenization of one input (or one window of one input).
type Encoding struct {
	// IDs are the token ids, including special tokens.
	IDs []int
	// Offsets holds the byte range each token covers in its source
	// sequence. Entries for non-text tokens are meaningless; consult Tags.
	Offsets []Offset
	// Tags classifies every token position. Always the same length as IDs
	// for pair encodings; may be nil for single-sequence encodings.
	Tags []SequenceTag
	// WordIDs maps each token to the index of the word it was split from
	// when the input was pre-split into words, with -1 for tokens that do
	// not belong to any word (special tokens, padding). Nil when the input
	// was not word-split.
	WordIDs []int
}

// Batch is the result of a batched pair encoding. Sliding-window truncation
// can produce more encodings than inputs; SampleMapping relates them back.
type Batch struct {
	// Encodings holds one entry per produced window, in input order.
	Encodings []Encoding
	// SampleMapping maps each encoding to the index of the input pair it
	// was derived from. len(SampleMapping) == len(Encodings).
	SampleMapping []int
}

// PairRequest asks for a batched question/context encoding with
// sliding-window truncation. The question is encoded first and is never
// truncated; the context is truncated to fit MaxLength, with the overflow
// carried into subsequent windows that overlap the previous window by
// Stride context tokens.
type PairRequest struct {
	Questions []string
	Contexts  []string
	// MaxLength is the total token budget per window, special tokens
	// included.
	MaxLength int
	// Stride is the number of overlapping context tokens between
	// consecutive windows of the same pair.
	Stride int
	// PadToMax pads every window to exactly MaxLength tokens.
	PadToMax bool
}

// SpecialToken names the special tokens a tokenizer may expose. Not every
// vocabulary defines all of them.
type SpecialToken int

const (
	// ClassToken is the classification token (often "[CLS]"); extractive QA
	// uses its position as the no-answer sentinel.
	ClassToken SpecialToken = iota
	// SeparatorToken separates paired sequences (often "[SEP]").
	SeparatorToken
	// PadToken fills windows up to the requested length.
	PadToken
	// UnknownToken stands in for out-of-vocabulary input.
	UnknownToken
)

// String returns a printable name for the special token.
func (s SpecialToken) String() string {
	switch s {
	case ClassToken:
		return "class"
	case SeparatorToken:
		return "separator"
	case PadToken:
		return "pad"
	case UnknownToken:
		return "unknown"
	default:
		return fmt.Sprintf("special(%d)", int(s))
	}
}

// Tokenizer is the external tokenization engine.
//
// Implementations wrap a concrete subword tokenizer (WordPiece,
// SentencePiece, BPE, ...). All methods must be safe for concurrent use:
// the harness fans batches out across workers.
type Tokenizer interface {
	// Encode tokenizes a single string. With addSpecialTokens false the
	// result contains content tokens only, which is what label
	// representative-token lookup requires.
	Encode(text string, addSpecialTokens bool) (Encoding, error)

	// EncodeWords tokenizes an input that is already split into words,
	// populating WordIDs on the result.
	EncodeWords(words []string, addSpecialTokens bool) (Encoding, error)

	// EncodePairs encodes question/context pairs with sliding-window
	// truncation as described on PairRequest.
	EncodePairs(req *PairRequest) (*Batch, error)

	// Decode converts token ids back to text.
	Decode(ids []int, skipSpecialTokens bool) (string, error)

	// SpecialTokenID reports the vocabulary id of the given special token,
	// or an error when the vocabulary does not define it.
	SpecialTokenID(tok SpecialToken) (int, error)

	// ModelMaxLength reports the maximum input length the associated model
	// accepts, in tokens.
	ModelMaxLength() int
}
