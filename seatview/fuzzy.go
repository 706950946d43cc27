// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching a pattern against one text.
type FuzzyResult struct {
	// Score is the fzf match quality. Zero means no match.
	Score int

	// Positions are the rune indices in the text that matched,
	// sorted ascending. Empty when there is no match.
	Positions []int
}

// fuzzyMatch runs fzf's FuzzyMatchV2 against the text. Matching is
// case-insensitive: fzf expects a lowercased pattern in that mode, so
// the pattern is folded here and callers pass it as typed. The slab
// is fzf's scratch allocation arena; nil is accepted and allocates
// per call, callers in hot loops pass a reused slab.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	folded := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, folded, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = make([]int, len(*positions))
		copy(matched.Positions, *positions)
		// fzf reports positions in backtrack order.
		sort.Ints(matched.Positions)
	}
	return matched
}
