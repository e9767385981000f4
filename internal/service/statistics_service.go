package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/repository"
)

// StatisticsService aggregates summary metrics over stored evaluations. It
// is a pure read-side operation over one snapshot query and never mutates.
type StatisticsService interface {
	GetStatistics(ctx context.Context, query dto.StatisticsQuery) (dto.StatisticsResponse, error)
}

type statisticsService struct {
	repo     repository.StatisticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStatisticsService constructs the statistics service.
func NewStatisticsService(repo repository.StatisticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatisticsService {
	return &statisticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "statistics_service").Logger(),
		now:      time.Now,
	}
}

func (s *statisticsService) GetStatistics(ctx context.Context, query dto.StatisticsQuery) (dto.StatisticsResponse, error) {
	cacheKey := statsCacheKey(query)
	tracer := otel.Tracer("github.com/gradeflow/gradeflow-api/internal/service/statistics")
	ctx, span := tracer.Start(ctx, "statistics.aggregate")
	span.SetAttributes(attribute.String("statistics.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.StatisticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("statistics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read statistics cache")
			span.RecordError(err)
		}
	}

	evaluations, err := s.repo.ListForStats(ctx, repository.StatisticsFilter{
		CourseID:    query.CourseID,
		EvaluatorID: query.EvaluatorID,
		From:        query.From,
		To:          query.To,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_for_stats_failed")
		return dto.StatisticsResponse{}, err
	}

	response := s.aggregate(evaluations)
	span.SetAttributes(attribute.Int("statistics.total", response.TotalEvaluations))

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store statistics cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

// aggregate computes the summary over one snapshot. Evaluations without a
// gradable total are counted but excluded from the average.
func (s *statisticsService) aggregate(evaluations []models.Evaluation) dto.StatisticsResponse {
	response := dto.StatisticsResponse{
		TotalEvaluations: len(evaluations),
		GeneratedAt:      s.now().UTC(),
	}

	var percentageSum float64
	var gradable int
	for _, evaluation := range evaluations {
		if evaluation.TotalPoints > 0 {
			percentageSum += evaluation.Percentage
			gradable++
		}
		switch evaluation.Status {
		case models.StatusCompleted:
			response.CompletedEvaluations++
		case models.StatusPending:
			response.PendingEvaluations++
		}
		if evaluation.IsLate {
			response.LateSubmissions++
		}
	}
	if gradable > 0 {
		response.AverageGrade = percentageSum / float64(gradable)
	}

	return response
}

func statsCacheKey(query dto.StatisticsQuery) string {
	course, evaluator := uint(0), uint(0)
	if query.CourseID != nil {
		course = *query.CourseID
	}
	if query.EvaluatorID != nil {
		evaluator = *query.EvaluatorID
	}
	from, to := "", ""
	if query.From != nil {
		from = query.From.UTC().Format(time.RFC3339)
	}
	if query.To != nil {
		to = query.To.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("stats:c%d:e%d:%s:%s", course, evaluator, from, to)
}
