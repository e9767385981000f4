package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculatePercentageAndLetter(t *testing.T) {
	score := Calculate(93.5, 100)
	require.InDelta(t, 93.5, score.Percentage, 1e-9)
	require.Equal(t, "A", score.LetterGrade)
}

func TestCalculateZeroTotal(t *testing.T) {
	score := Calculate(10, 0)
	require.Zero(t, score.Percentage)
	require.Empty(t, score.LetterGrade)
}

func TestLetterForBoundaries(t *testing.T) {
	cases := []struct {
		percentage float64
		expected   string
	}{
		{100, "A+"},
		{97, "A+"},
		{96.999, "A"},
		{93, "A"},
		{92.999, "A-"},
		{90, "A-"},
		{87, "B+"},
		{83, "B"},
		{80, "B-"},
		{77, "C+"},
		{73, "C"},
		{70, "C-"},
		{67, "D+"},
		{60, "D"},
		{59.999, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, LetterFor(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestPercentageMatchesRatio(t *testing.T) {
	for earned := 0.0; earned <= 50; earned += 2.5 {
		require.InDelta(t, earned/50*100, Percentage(earned, 50), 1e-9)
	}
}
