package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/repository"
)

type fakeStatisticsRepo struct {
	evaluations []models.Evaluation
	calls       int
}

func (f *fakeStatisticsRepo) ListForStats(_ context.Context, _ repository.StatisticsFilter) ([]models.Evaluation, error) {
	f.calls++
	return f.evaluations, nil
}

func TestStatisticsExcludesUngradableFromAverage(t *testing.T) {
	repo := &fakeStatisticsRepo{
		evaluations: []models.Evaluation{
			{TotalPoints: 100, Percentage: 80, Status: models.StatusCompleted},
			{TotalPoints: 100, Percentage: 90, Status: models.StatusCompleted, IsLate: true},
			{TotalPoints: 0, Status: models.StatusPending},
		},
	}
	svc := NewStatisticsService(repo, nil, time.Minute, testLogger())

	response, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{})
	require.NoError(t, err)
	require.Equal(t, 3, response.TotalEvaluations)
	require.InDelta(t, 85, response.AverageGrade, 1e-9)
	require.Equal(t, 2, response.CompletedEvaluations)
	require.Equal(t, 1, response.PendingEvaluations)
	require.Equal(t, 1, response.LateSubmissions)
}

func TestStatisticsEmptySetYieldsZeroes(t *testing.T) {
	svc := NewStatisticsService(&fakeStatisticsRepo{}, nil, time.Minute, testLogger())

	response, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{})
	require.NoError(t, err)
	require.Zero(t, response.TotalEvaluations)
	require.Zero(t, response.AverageGrade)
	require.Zero(t, response.CompletedEvaluations)
	require.Zero(t, response.PendingEvaluations)
	require.Zero(t, response.LateSubmissions)
}

func TestStatisticsCacheRoundTrip(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeStatisticsRepo{
		evaluations: []models.Evaluation{
			{TotalPoints: 100, Percentage: 75, Status: models.StatusCompleted},
		},
	}
	svc := NewStatisticsService(repo, client, time.Minute, testLogger())

	first, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.AverageGrade, second.AverageGrade)
	require.Equal(t, 1, repo.calls, "second read must come from cache")
}

func TestStatisticsCacheKeyVariesByFilter(t *testing.T) {
	courseA, courseB := uint(1), uint(2)
	keyA := statsCacheKey(dto.StatisticsQuery{CourseID: &courseA})
	keyB := statsCacheKey(dto.StatisticsQuery{CourseID: &courseB})
	require.NotEqual(t, keyA, keyB)
}
