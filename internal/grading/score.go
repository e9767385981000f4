// Package grading holds the pure scoring and workflow rules of the
// evaluation engine. Nothing in this package touches storage or transport;
// services compose these functions inside atomic updates.
package grading

// letterBoundaries maps inclusive lower percentage bounds to letter grades,
// evaluated top-down with first match winning.
var letterBoundaries = []struct {
	floor  float64
	letter string
}{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{60, "D"},
}

// Percentage converts earned/total points to a percentage score. A zero
// total yields zero; negative totals are rejected by callers before this
// function runs.
func Percentage(earned, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return earned / total * 100
}

// LetterFor maps a percentage to the twelve-step letter scale.
func LetterFor(percentage float64) string {
	for _, boundary := range letterBoundaries {
		if percentage >= boundary.floor {
			return boundary.letter
		}
	}
	return "F"
}

// Score bundles the derived grade fields that are always recomputed together.
type Score struct {
	Percentage  float64
	LetterGrade string
}

// Calculate produces the percentage and letter grade for an earned/total
// pair. Both fields stay zero-valued while total is zero.
func Calculate(earned, total float64) Score {
	if total <= 0 {
		return Score{}
	}
	percentage := Percentage(earned, total)
	return Score{Percentage: percentage, LetterGrade: LetterFor(percentage)}
}
