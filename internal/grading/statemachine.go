package grading

import (
	"fmt"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// InvalidTransitionError reports a status-graph violation. The evaluation is
// left untouched; callers must not clamp to a nearby valid state.
type InvalidTransitionError struct {
	From models.EvaluationStatus
	To   models.EvaluationStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// transitions is the closed status graph. The returned → resubmitted edge is
// additionally gated by the evaluation's resubmission settings, which the
// service checks because it owns the settings document.
var transitions = map[models.EvaluationStatus][]models.EvaluationStatus{
	models.StatusPending:     {models.StatusInProgress, models.StatusCompleted},
	models.StatusInProgress:  {models.StatusCompleted},
	models.StatusCompleted:   {models.StatusReturned},
	models.StatusReturned:    {models.StatusResubmitted},
	models.StatusResubmitted: {models.StatusInProgress, models.StatusCompleted},
}

// CanTransition reports whether the status graph permits from → to.
func CanTransition(from, to models.EvaluationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates from → to and returns a typed error naming both
// statuses when the edge is not in the graph.
func Transition(from, to models.EvaluationStatus) error {
	if !CanTransition(from, to) {
		return InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// TargetFor maps a timeline action to its target status. Actions outside the
// closed vocabulary yield false.
func TargetFor(action models.TimelineAction) (models.EvaluationStatus, bool) {
	switch action {
	case models.ActionSubmitted:
		return models.StatusPending, true
	case models.ActionStartedGrading:
		return models.StatusInProgress, true
	case models.ActionGraded:
		return models.StatusCompleted, true
	case models.ActionReturned:
		return models.StatusReturned, true
	case models.ActionResubmitted:
		return models.StatusResubmitted, true
	default:
		return "", false
	}
}
