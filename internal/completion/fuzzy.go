package completion

import (
	"math"

	"github.com/hbollon/go-edlib"
)

// ApproxEditDistance estimates the Levenshtein distance between a and b
// using go-edlib's normalized similarity score, the same library and
// technique the pack's semantic fuzzy matcher grounds its own Levenshtein
// path on. Rounding a normalized similarity back to an integer distance is
// an approximation, not exact DP — acceptable here since the threshold
// check only needs to separate "close" from "not close", not a precise
// edit script.
func ApproxEditDistance(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" || b == "" {
		return max(len(a), len(b))
	}
	similarity, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return max(len(a), len(b))
	}
	maxLen := max(len(a), len(b))
	return int(math.Round((1.0 - float64(similarity)) * float64(maxLen)))
}

// WithinThreshold reports whether query fuzzily matches candidate within
// maxDistance edits — the per-scope threshold from the ranking contract
// (local ≤ 2, global ≤ 1).
func WithinThreshold(query, candidate string, maxDistance int) bool {
	return ApproxEditDistance(query, candidate) <= maxDistance
}
