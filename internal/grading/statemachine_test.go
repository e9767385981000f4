package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

func TestTransitionGradingLoop(t *testing.T) {
	loop := []models.EvaluationStatus{
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusReturned,
		models.StatusResubmitted,
		models.StatusInProgress,
	}
	for i := 0; i < len(loop)-1; i++ {
		require.NoError(t, Transition(loop[i], loop[i+1]), "%s -> %s", loop[i], loop[i+1])
	}
}

func TestTransitionRejectsCompletedToInProgress(t *testing.T) {
	err := Transition(models.StatusCompleted, models.StatusInProgress)
	require.Error(t, err)

	var invalid InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, models.StatusCompleted, invalid.From)
	require.Equal(t, models.StatusInProgress, invalid.To)
}

func TestTransitionRejectsBackwardsEdges(t *testing.T) {
	require.Error(t, Transition(models.StatusCompleted, models.StatusPending))
	require.Error(t, Transition(models.StatusReturned, models.StatusCompleted))
	require.Error(t, Transition(models.StatusInProgress, models.StatusPending))
	require.Error(t, Transition(models.StatusResubmitted, models.StatusPending),
		"no action in the closed vocabulary can record a return to pending")
}

func TestPendingCanCompleteDirectly(t *testing.T) {
	require.True(t, CanTransition(models.StatusPending, models.StatusCompleted))
}

func TestTargetFor(t *testing.T) {
	target, ok := TargetFor(models.ActionStartedGrading)
	require.True(t, ok)
	require.Equal(t, models.StatusInProgress, target)

	target, ok = TargetFor(models.ActionGraded)
	require.True(t, ok)
	require.Equal(t, models.StatusCompleted, target)

	_, ok = TargetFor(models.TimelineAction("withdrawn"))
	require.False(t, ok, "only the closed vocabulary drives the status graph")
}
