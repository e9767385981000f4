package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Evaluation{}))
	return db
}

func seedEvaluation(t *testing.T, db *gorm.DB, mutate func(*models.Evaluation)) models.Evaluation {
	t.Helper()
	evaluation := models.Evaluation{
		PublicID:     uuid.NewString(),
		AssignmentID: 1,
		CourseID:     10,
		StudentID:    100,
		EvaluatorID:  200,
		Content:      "submission body",
		SubmittedAt:  time.Now().UTC(),
		DueDate:      time.Now().UTC().Add(24 * time.Hour),
		TotalPoints:  100,
		Status:       models.StatusPending,
	}
	if mutate != nil {
		mutate(&evaluation)
	}
	require.NoError(t, db.Create(&evaluation).Error)
	return evaluation
}

func TestEvaluationRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	seeded := seedEvaluation(t, db, nil)

	byID, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, seeded.PublicID, byID.PublicID)

	byPublic, err := repo.GetByPublicID(context.Background(), seeded.PublicID)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, byPublic.ID)
}

func TestEvaluationRepositoryVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	seedEvaluation(t, db, nil)

	first, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	second, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	first.Status = models.StatusInProgress
	require.NoError(t, repo.Update(context.Background(), &first))
	require.Equal(t, 1, first.Version)

	second.Status = models.StatusCompleted
	err = repo.Update(context.Background(), &second)
	require.ErrorIs(t, err, ErrVersionConflict)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, stored.Status, "stale writer must not overwrite")
}

func TestEvaluationRepositoryUpdatePersistsTimeline(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	seedEvaluation(t, db, nil)

	evaluation, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	evaluation.RecordAction(models.ActionStartedGrading, 200, "evaluator", "", time.Now().UTC())
	evaluation.Status = models.StatusInProgress
	require.NoError(t, repo.Update(context.Background(), &evaluation))

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stored.Timeline, 1)
	require.Equal(t, models.ActionStartedGrading, stored.Timeline[0].Action)
}

func TestEvaluationRepositoryListByCourseSortsBySubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	older := seedEvaluation(t, db, func(e *models.Evaluation) {
		e.SubmittedAt = time.Now().UTC().Add(-2 * time.Hour)
	})
	newer := seedEvaluation(t, db, func(e *models.Evaluation) {
		e.SubmittedAt = time.Now().UTC().Add(-time.Hour)
	})
	seedEvaluation(t, db, func(e *models.Evaluation) {
		e.CourseID = 99
	})

	evaluations, err := repo.ListByCourse(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
	require.Equal(t, newer.ID, evaluations[0].ID)
	require.Equal(t, older.ID, evaluations[1].ID)
}

func TestEvaluationRepositoryListPendingByEvaluator(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	pending := seedEvaluation(t, db, nil)
	seedEvaluation(t, db, func(e *models.Evaluation) {
		e.Status = models.StatusCompleted
	})
	seedEvaluation(t, db, func(e *models.Evaluation) {
		e.Flags = datatypes.NewJSONType(models.EvaluationFlags{Withdrawn: true})
	})

	evaluations, err := repo.ListPendingByEvaluator(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, evaluations, 1)
	require.Equal(t, pending.ID, evaluations[0].ID)
}

func TestStatisticsRepositoryFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatisticsRepository(db)

	seedEvaluation(t, db, nil)
	seedEvaluation(t, db, func(e *models.Evaluation) {
		e.CourseID = 20
		e.EvaluatorID = 300
	})
	cutoff := time.Now().UTC().Add(-48 * time.Hour)
	seedEvaluation(t, db, func(e *models.Evaluation) {
		e.SubmittedAt = cutoff.Add(-time.Hour)
	})

	courseID := uint(10)
	evaluations, err := repo.ListForStats(context.Background(), StatisticsFilter{CourseID: &courseID})
	require.NoError(t, err)
	require.Len(t, evaluations, 2)

	evaluatorID := uint(300)
	evaluations, err = repo.ListForStats(context.Background(), StatisticsFilter{EvaluatorID: &evaluatorID})
	require.NoError(t, err)
	require.Len(t, evaluations, 1)

	evaluations, err = repo.ListForStats(context.Background(), StatisticsFilter{From: &cutoff})
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
}
