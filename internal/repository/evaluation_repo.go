package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// ErrVersionConflict indicates a version-checked update lost an optimistic
// concurrency race. Callers retry the whole read-modify-write.
var ErrVersionConflict = errors.New("evaluation version conflict")

// EvaluationRepository defines persistence operations for evaluations.
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *models.Evaluation) error
	GetByID(ctx context.Context, id uint) (models.Evaluation, error)
	GetByPublicID(ctx context.Context, publicID string) (models.Evaluation, error)
	// Update applies a version-checked write. The stored row must still carry
	// the version the evaluation was read at; otherwise ErrVersionConflict is
	// returned and nothing is written.
	Update(ctx context.Context, evaluation *models.Evaluation) error
	ListByCourse(ctx context.Context, courseID uint) ([]models.Evaluation, error)
	ListPendingByEvaluator(ctx context.Context, evaluatorID uint) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).First(&evaluation, id).Error; err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

func (r *evaluationRepository) GetByPublicID(ctx context.Context, publicID string) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

func (r *evaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) error {
	readVersion := evaluation.Version
	evaluation.Version = readVersion + 1

	result := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("id = ? AND version = ?", evaluation.ID, readVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(evaluation)
	if result.Error != nil {
		evaluation.Version = readVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		evaluation.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}

func (r *evaluationRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("submitted_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepository) ListPendingByEvaluator(ctx context.Context, evaluatorID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	err := r.db.WithContext(ctx).
		Where("evaluator_id = ?", evaluatorID).
		Where("status = ?", models.StatusPending).
		Order("submitted_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	filtered := evaluations[:0]
	for _, evaluation := range evaluations {
		if !evaluation.IsWithdrawn() {
			filtered = append(filtered, evaluation)
		}
	}
	return filtered, nil
}
