// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"testing"

	"github.com/junegunn/fzf/src/util"
)

func matchText(text, pattern string) FuzzyResult {
	slab := util.MakeSlab(100*1024, 2048)
	return fuzzyMatch(text, []rune(pattern), slab)
}

func TestFuzzyMatchBasic(t *testing.T) {
	t.Parallel()

	result := matchText("assistant-prod", "prod")
	if result.Score <= 0 {
		t.Fatalf("score = %d, want > 0", result.Score)
	}
	if len(result.Positions) != 4 {
		t.Fatalf("positions = %v, want 4 entries", result.Positions)
	}
	for index, position := range result.Positions {
		if position != 10+index {
			t.Errorf("position[%d] = %d, want %d", index, position, 10+index)
		}
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	t.Parallel()

	result := matchText("assistant-staging", "astg")
	if result.Score <= 0 {
		t.Fatalf("no match for scattered pattern")
	}
	if len(result.Positions) != 4 {
		t.Fatalf("positions = %v, want 4 entries", result.Positions)
	}
	for index := 1; index < len(result.Positions); index++ {
		if result.Positions[index] <= result.Positions[index-1] {
			t.Fatalf("positions not ascending: %v", result.Positions)
		}
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	t.Parallel()

	lower := matchText("Acme Robotics", "acme")
	if lower.Score <= 0 {
		t.Error("lowercase pattern did not match mixed-case text")
	}
	upper := matchText("Acme Robotics", "ACME")
	if upper.Score <= 0 {
		t.Error("uppercase pattern did not match mixed-case text")
	}
	if lower.Score != upper.Score {
		t.Errorf("case changed score: %d vs %d", lower.Score, upper.Score)
	}
}

func TestFuzzyMatchMiss(t *testing.T) {
	t.Parallel()

	result := matchText("assistant-prod", "xyz")
	if result.Score != 0 || result.Positions != nil {
		t.Errorf("miss returned %+v, want zero result", result)
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	t.Parallel()

	result := matchText("anything", "")
	if result.Score != 0 || result.Positions != nil {
		t.Errorf("empty pattern returned %+v, want zero result", result)
	}
}

func TestFuzzyMatchPrefersContiguous(t *testing.T) {
	t.Parallel()

	contiguous := matchText("production", "prod")
	scattered := matchText("p-r-o-d-service", "prod")
	if contiguous.Score <= scattered.Score {
		t.Errorf("contiguous score %d not above scattered %d",
			contiguous.Score, scattered.Score)
	}
}
