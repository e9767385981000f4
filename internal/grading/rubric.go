package grading

import (
	"fmt"
	"strings"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// RubricViolation describes one criterion-level scoring problem.
type RubricViolation struct {
	Criterion string
	Reason    string
}

// RubricViolations aggregates per-criterion failures so callers can surface
// exactly which criteria are invalid instead of one opaque error.
type RubricViolations []RubricViolation

func (v RubricViolations) Error() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", violation.Criterion, violation.Reason))
	}
	return "invalid rubric scores: " + strings.Join(parts, "; ")
}

// ScoreRubric validates submitted scores against the rubric definition and
// sums the awarded points. Every referenced criterion must exist, may be
// referenced at most once, and its awarded points must not exceed the
// criterion ceiling. The summed total is
// only used for rubric-based grading; the direct-grade path bypasses it.
func ScoreRubric(rubric []models.RubricCriterion, scores []models.RubricScore) (float64, error) {
	criteria := make(map[string]models.RubricCriterion, len(rubric))
	for _, criterion := range rubric {
		criteria[criterion.Name] = criterion
	}

	var violations RubricViolations
	var earned float64
	scored := make(map[string]struct{}, len(scores))
	for _, score := range scores {
		criterion, ok := criteria[score.Criterion]
		if !ok {
			violations = append(violations, RubricViolation{
				Criterion: score.Criterion,
				Reason:    "criterion not defined in rubric",
			})
			continue
		}
		// A repeated reference would let one criterion sum past its ceiling.
		if _, duplicate := scored[score.Criterion]; duplicate {
			violations = append(violations, RubricViolation{
				Criterion: score.Criterion,
				Reason:    "criterion referenced more than once",
			})
			continue
		}
		scored[score.Criterion] = struct{}{}
		if score.Points < 0 {
			violations = append(violations, RubricViolation{
				Criterion: score.Criterion,
				Reason:    "awarded points must not be negative",
			})
			continue
		}
		if score.Points > criterion.MaxPoints {
			violations = append(violations, RubricViolation{
				Criterion: score.Criterion,
				Reason:    fmt.Sprintf("awarded %.2f exceeds max %.2f", score.Points, criterion.MaxPoints),
			})
			continue
		}
		if score.Level != "" && !hasLevel(criterion, score.Level) {
			violations = append(violations, RubricViolation{
				Criterion: score.Criterion,
				Reason:    fmt.Sprintf("level %q not defined for criterion", score.Level),
			})
			continue
		}
		earned += score.Points
	}

	if len(violations) > 0 {
		return 0, violations
	}
	return earned, nil
}

func hasLevel(criterion models.RubricCriterion, name string) bool {
	for _, level := range criterion.Levels {
		if level.Name == name {
			return true
		}
	}
	return false
}

// ValidateRubric checks a rubric definition at creation time.
func ValidateRubric(rubric []models.RubricCriterion) error {
	var violations RubricViolations
	seen := make(map[string]struct{}, len(rubric))
	for _, criterion := range rubric {
		name := strings.TrimSpace(criterion.Name)
		if name == "" {
			violations = append(violations, RubricViolation{Criterion: "(unnamed)", Reason: "criterion name is required"})
			continue
		}
		if _, duplicate := seen[name]; duplicate {
			violations = append(violations, RubricViolation{Criterion: name, Reason: "duplicate criterion name"})
			continue
		}
		seen[name] = struct{}{}
		if criterion.MaxPoints < 0 {
			violations = append(violations, RubricViolation{Criterion: name, Reason: "max points must not be negative"})
		}
	}
	if len(violations) > 0 {
		return violations
	}
	return nil
}
