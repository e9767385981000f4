package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// StatisticsFilter narrows the evaluation set an aggregation runs over.
// All fields are optional and combine with AND semantics.
type StatisticsFilter struct {
	CourseID    *uint
	EvaluatorID *uint
	From        *time.Time
	To          *time.Time
}

// StatisticsRepository supplies a single consistent snapshot of evaluations
// for read-side aggregation.
type StatisticsRepository interface {
	ListForStats(ctx context.Context, filter StatisticsFilter) ([]models.Evaluation, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository constructs the statistics repository.
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) ListForStats(ctx context.Context, filter StatisticsFilter) ([]models.Evaluation, error) {
	query := r.db.WithContext(ctx).Model(&models.Evaluation{})

	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.EvaluatorID != nil {
		query = query.Where("evaluator_id = ?", *filter.EvaluatorID)
	}
	if filter.From != nil {
		query = query.Where("submitted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("submitted_at <= ?", *filter.To)
	}

	var evaluations []models.Evaluation
	if err := query.Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}
