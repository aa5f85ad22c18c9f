//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"fmt"
	"strings"
)

// entity is one labeled span inside a tag sequence.
type entity struct {
	typ        string
	start, end int
}

// EntityF1 returns entity-level micro F1 over BIO tag sequences as a
// percentage. An entity counts as correct only when its type and exact word
// span both match.
func EntityF1(predTags, refTags [][]string) (float64, error) {
	if err := checkPairs(len(predTags), len(refTags)); err != nil {
		return 0, err
	}

	var tp, fp, fn float64
	for i := range predTags {
		if len(predTags[i]) != len(refTags[i]) {
			return 0, fmt.Errorf("sequence %d: %d predicted tags for %d reference tags",
				i, len(predTags[i]), len(refTags[i]))
		}
		pred := extractEntities(predTags[i])
		ref := extractEntities(refTags[i])

		refSet := make(map[entity]bool, len(ref))
		for _, e := range ref {
			refSet[e] = true
		}
		for _, e := range pred {
			if refSet[e] {
				tp++
				delete(refSet, e)
				continue
			}
			fp++
		}
		fn += float64(len(refSet))
	}

	denom := 2*tp + fp + fn
	if denom == 0 {
		// No entities anywhere: perfect agreement on "nothing to find".
		return 100, nil
	}
	return 100 * 2 * tp / denom, nil
}

// extractEntities collects the labeled spans of one BIO sequence. A stray
// I- tag after O or after a different type opens a new span, matching the
// usual chunk-evaluation convention.
func extractEntities(tags []string) []entity {
	var ents []entity
	var cur *entity
	flush := func() {
		if cur != nil {
			ents = append(ents, *cur)
			cur = nil
		}
	}

	for i, tag := range tags {
		prefix, typ := splitTag(tag)
		switch prefix {
		case "B":
			flush()
			cur = &entity{typ: typ, start: i, end: i}
		case "I":
			if cur != nil && cur.typ == typ {
				cur.end = i
				continue
			}
			flush()
			cur = &entity{typ: typ, start: i, end: i}
		default:
			flush()
		}
	}
	flush()
	return ents
}

// splitTag separates a BIO tag into its prefix and entity type. Anything
// that is not B- or I- counts as outside.
func splitTag(tag string) (string, string) {
	if prefix, typ, ok := strings.Cut(tag, "-"); ok && (prefix == "B" || prefix == "I") {
		return prefix, typ
	}
	return "O", ""
}
