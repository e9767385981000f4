package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/grading"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/observability"
	"github.com/gradeflow/gradeflow-api/internal/repository"
)

// ErrEvaluationNotFound indicates the evaluation was not located.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// ErrEvaluationWithdrawn indicates a grading operation hit a withdrawn evaluation.
var ErrEvaluationWithdrawn = errors.New("evaluation is withdrawn")

// ErrAlreadyCompleted indicates a re-grade was attempted without going
// through the returned/resubmitted loop.
var ErrAlreadyCompleted = errors.New("evaluation already completed; return it before re-grading")

// ErrResubmissionNotAllowed indicates the evaluation settings forbid resubmission.
var ErrResubmissionNotAllowed = errors.New("resubmission is not allowed for this evaluation")

// ErrResubmissionDeadline indicates the resubmission window has closed.
var ErrResubmissionDeadline = errors.New("resubmission deadline has passed")

// ErrGradeNotReleasable indicates the workflow settings keep the grade hidden.
var ErrGradeNotReleasable = errors.New("grade is not released to the student by workflow settings")

// ErrEmptyContent indicates the submission text was empty after sanitization.
var ErrEmptyContent = errors.New("submission content must not be empty")

// ErrUnsupportedAttachment indicates an attachment mime type outside the allow list.
var ErrUnsupportedAttachment = errors.New("unsupported attachment mime type")

// Actor identifies who performed an operation, extracted from the external
// auth system's token.
type Actor struct {
	ID   uint
	Role string
}

// allowedAttachmentTypes is the metadata allow list; the upload collaborator
// owns the bytes, the engine only vets what it records.
var allowedAttachmentTypes = []string{
	"application/pdf",
	"application/zip",
	"text/plain",
	"text/markdown",
	"image/png",
	"image/jpeg",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// EvaluationService orchestrates the grading lifecycle of evaluations.
type EvaluationService interface {
	Create(ctx context.Context, payload dto.EvaluationCreateRequest, actor Actor) (dto.EvaluationResponse, error)
	ApplyRubricScores(ctx context.Context, id uint, payload dto.ApplyRubricScoresRequest, actor Actor) (dto.EvaluationResponse, error)
	SetGrade(ctx context.Context, id uint, payload dto.SetGradeRequest, actor Actor) (dto.EvaluationResponse, error)
	Transition(ctx context.Context, id uint, payload dto.TransitionRequest, actor Actor) (dto.EvaluationResponse, error)
	Resubmit(ctx context.Context, id uint, payload dto.ResubmitRequest, actor Actor) (dto.EvaluationResponse, error)
	Withdraw(ctx context.Context, id uint, actor Actor) (dto.EvaluationResponse, error)
	AttachPlagiarismReport(ctx context.Context, id uint, payload dto.PlagiarismReportRequest, actor Actor) (dto.EvaluationResponse, error)
	GetByID(ctx context.Context, id uint) (dto.EvaluationResponse, error)
	GetByPublicID(ctx context.Context, publicID string) (dto.EvaluationResponse, error)
	ListByCourse(ctx context.Context, courseID uint) ([]dto.EvaluationResponse, error)
	ListPendingByEvaluator(ctx context.Context, evaluatorID uint) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	repo         repository.EvaluationRepository
	validator    *validator.Validate
	events       EventPublisher
	logger       zerolog.Logger
	tracer       trace.Tracer
	sanitizer    *bluemonday.Policy
	autoComplete bool
	now          func() time.Time
}

// NewEvaluationService constructs the evaluation service. autoComplete
// governs the implicit pending → completed transition when a direct grade
// lands while the evaluation is still pending.
func NewEvaluationService(repo repository.EvaluationRepository, validate *validator.Validate, events EventPublisher, autoComplete bool, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		repo:         repo,
		validator:    validate,
		events:       events,
		logger:       logger.With().Str("component", "evaluation_service").Logger(),
		tracer:       otel.Tracer("github.com/gradeflow/gradeflow-api/internal/service/evaluation"),
		sanitizer:    bluemonday.StrictPolicy(),
		autoComplete: autoComplete,
		now:          time.Now,
	}
}

func (s *evaluationService) Create(ctx context.Context, payload dto.EvaluationCreateRequest, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.create", trace.WithAttributes(
		attribute.Int64("evaluation.assignment_id", int64(payload.AssignmentID)),
		attribute.Int64("evaluation.course_id", int64(payload.CourseID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Submission.Content))
	if content == "" {
		span.SetStatus(codes.Error, "empty_content")
		return dto.EvaluationResponse{}, ErrEmptyContent
	}

	attachments, err := s.vetAttachments(payload.Submission.Attachments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_attachment")
		return dto.EvaluationResponse{}, err
	}

	rubric := toRubric(payload.Rubric)
	if err := grading.ValidateRubric(rubric); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_rubric")
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.Evaluation{
		PublicID:     uuid.NewString(),
		AssignmentID: payload.AssignmentID,
		CourseID:     payload.CourseID,
		StudentID:    payload.StudentID,
		EvaluatorID:  payload.EvaluatorID,
		Content:      content,
		Attachments:  attachments,
		SubmittedAt:  payload.Submission.SubmittedAt,
		DueDate:      payload.DueDate,
		TotalPoints:  payload.TotalPoints,
		Rubric:       rubric,
		Status:       models.StatusPending,
		Settings: datatypes.NewJSONType(models.EvaluationSettings{
			AllowResubmission:    payload.Settings.AllowResubmission,
			ShowGradeToStudent:   payload.Settings.ShowGradeToStudent,
			ResubmissionDeadline: payload.Settings.ResubmissionDeadline,
		}),
	}
	evaluation.RecordAction(models.ActionSubmitted, actor.ID, actor.Role, "", s.now())

	if err := s.repo.Create(ctx, &evaluation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_failed")
		return dto.EvaluationResponse{}, err
	}

	s.publish(ctx, string(models.ActionSubmitted), evaluation, actor)
	span.SetAttributes(attribute.String("evaluation.public_id", evaluation.PublicID))
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) ApplyRubricScores(ctx context.Context, id uint, payload dto.ApplyRubricScoresRequest, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.apply_rubric_scores", trace.WithAttributes(
		attribute.Int64("evaluation.id", int64(id)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	scores := toRubricScores(payload.Scores)

	noop := false
	evaluation, err := s.mutate(ctx, id, func(evaluation *models.Evaluation) error {
		if evaluation.IsWithdrawn() {
			return ErrEvaluationWithdrawn
		}

		earned, err := grading.ScoreRubric(evaluation.Rubric, scores)
		if err != nil {
			return err
		}

		noop = false
		if evaluation.Status == models.StatusCompleted || evaluation.Status == models.StatusReturned {
			if sameRubricScores(evaluation.RubricScores, scores) && evaluation.EarnedPoints == earned {
				noop = true
				return errNoChange
			}
			return ErrAlreadyCompleted
		}

		evaluation.RubricScores = scores
		evaluation.EarnedPoints = earned
		s.finishGrading(evaluation, actor)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rubric_scoring_failed")
		return dto.EvaluationResponse{}, err
	}

	if !noop {
		s.publish(ctx, string(models.ActionGraded), evaluation, actor)
	}
	span.SetAttributes(attribute.Float64("evaluation.earned_points", evaluation.EarnedPoints))
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) SetGrade(ctx context.Context, id uint, payload dto.SetGradeRequest, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.set_grade", trace.WithAttributes(
		attribute.Int64("evaluation.id", int64(id)),
		attribute.Float64("evaluation.earned_points", payload.EarnedPoints),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	completed := false
	evaluation, err := s.mutate(ctx, id, func(evaluation *models.Evaluation) error {
		if evaluation.IsWithdrawn() {
			return ErrEvaluationWithdrawn
		}

		completed = false
		if evaluation.Status == models.StatusCompleted || evaluation.Status == models.StatusReturned {
			// A finished grade only changes through the returned/resubmitted
			// loop; repeating the recorded grade verbatim is a no-op.
			if evaluation.EarnedPoints == payload.EarnedPoints && payload.Feedback == nil {
				return errNoChange
			}
			return ErrAlreadyCompleted
		}

		evaluation.EarnedPoints = payload.EarnedPoints
		if payload.Feedback != nil {
			evaluation.Feedback = datatypes.NewJSONType(s.sanitizeFeedback(*payload.Feedback))
		}

		flags := evaluation.Flags.Data()
		if payload.EarnedPoints > evaluation.TotalPoints && evaluation.TotalPoints > 0 {
			// Over-award is possible by policy (rubric levels can exceed the
			// total); it is flagged, never rejected.
			flags.OverAwarded = true
			s.logger.Warn().
				Uint("evaluation_id", evaluation.ID).
				Float64("earned", payload.EarnedPoints).
				Float64("total", evaluation.TotalPoints).
				Msg("earned points exceed total points")
		}
		evaluation.Flags = datatypes.NewJSONType(flags)

		if evaluation.Status == models.StatusPending && s.autoComplete && payload.EarnedPoints > 0 {
			s.finishGrading(evaluation, actor)
			completed = true
			return nil
		}

		score := grading.Calculate(evaluation.EarnedPoints, evaluation.TotalPoints)
		evaluation.Percentage = score.Percentage
		evaluation.LetterGrade = score.LetterGrade
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "set_grade_failed")
		return dto.EvaluationResponse{}, err
	}

	if completed {
		s.publish(ctx, string(models.ActionGraded), evaluation, actor)
	}
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Transition(ctx context.Context, id uint, payload dto.TransitionRequest, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.transition", trace.WithAttributes(
		attribute.Int64("evaluation.id", int64(id)),
		attribute.String("evaluation.action", payload.Action),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	action := models.TimelineAction(payload.Action)
	target, ok := grading.TargetFor(action)
	if !ok || action == models.ActionSubmitted {
		return dto.EvaluationResponse{}, fmt.Errorf("action %q cannot be requested explicitly", payload.Action)
	}

	evaluation, err := s.mutate(ctx, id, func(evaluation *models.Evaluation) error {
		if evaluation.IsWithdrawn() {
			return ErrEvaluationWithdrawn
		}
		if err := grading.Transition(evaluation.Status, target); err != nil {
			return err
		}
		if target == models.StatusReturned && !evaluation.Settings.Data().ShowGradeToStudent {
			return ErrGradeNotReleasable
		}

		if target == models.StatusCompleted {
			s.finishGrading(evaluation, actor)
			return nil
		}

		observability.Transitions().WithLabelValues(string(evaluation.Status), string(target)).Inc()
		evaluation.Status = target
		evaluation.RecordAction(action, actor.ID, actor.Role, payload.Notes, s.now())
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition_failed")
		return dto.EvaluationResponse{}, err
	}

	s.publish(ctx, payload.Action, evaluation, actor)
	span.SetAttributes(attribute.String("evaluation.status", string(evaluation.Status)))
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Resubmit(ctx context.Context, id uint, payload dto.ResubmitRequest, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.resubmit", trace.WithAttributes(
		attribute.Int64("evaluation.id", int64(id)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Submission.Content))
	if content == "" {
		return dto.EvaluationResponse{}, ErrEmptyContent
	}
	attachments, err := s.vetAttachments(payload.Submission.Attachments)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.mutate(ctx, id, func(evaluation *models.Evaluation) error {
		if evaluation.IsWithdrawn() {
			return ErrEvaluationWithdrawn
		}
		if err := grading.Transition(evaluation.Status, models.StatusResubmitted); err != nil {
			return err
		}

		settings := evaluation.Settings.Data()
		if !settings.AllowResubmission {
			return ErrResubmissionNotAllowed
		}
		if settings.ResubmissionDeadline != nil && payload.Submission.SubmittedAt.After(*settings.ResubmissionDeadline) {
			return ErrResubmissionDeadline
		}

		evaluation.Content = content
		evaluation.Attachments = attachments
		evaluation.SubmittedAt = payload.Submission.SubmittedAt

		isLate, daysLate := grading.Lateness(evaluation.SubmittedAt, evaluation.DueDate)
		evaluation.IsLate = isLate
		evaluation.DaysLate = daysLate

		score := grading.Calculate(evaluation.EarnedPoints, evaluation.TotalPoints)
		evaluation.Percentage = score.Percentage
		evaluation.LetterGrade = score.LetterGrade

		analytics := evaluation.Analytics.Data()
		analytics.NumberOfRevisions++
		evaluation.Analytics = datatypes.NewJSONType(analytics)

		flags := evaluation.Flags.Data()
		flags.LatenessComputed = true
		evaluation.Flags = datatypes.NewJSONType(flags)

		observability.Transitions().WithLabelValues(string(evaluation.Status), string(models.StatusResubmitted)).Inc()
		evaluation.Status = models.StatusResubmitted
		evaluation.RecordAction(models.ActionResubmitted, actor.ID, actor.Role, "", s.now())
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resubmit_failed")
		return dto.EvaluationResponse{}, err
	}

	s.publish(ctx, string(models.ActionResubmitted), evaluation, actor)
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Withdraw(ctx context.Context, id uint, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.withdraw", trace.WithAttributes(
		attribute.Int64("evaluation.id", int64(id)),
	))
	defer span.End()

	evaluation, err := s.mutate(ctx, id, func(evaluation *models.Evaluation) error {
		flags := evaluation.Flags.Data()
		if flags.Withdrawn {
			return nil
		}
		flags.Withdrawn = true
		evaluation.Flags = datatypes.NewJSONType(flags)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "withdraw_failed")
		return dto.EvaluationResponse{}, err
	}

	s.publish(ctx, "withdrawn", evaluation, actor)
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) AttachPlagiarismReport(ctx context.Context, id uint, payload dto.PlagiarismReportRequest, actor Actor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.plagiarism_report", trace.WithAttributes(
		attribute.Int64("evaluation.id", int64(id)),
		attribute.Float64("plagiarism.score", payload.Score),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.mutate(ctx, id, func(evaluation *models.Evaluation) error {
		checkedAt := s.now()
		evaluation.Plagiarism = datatypes.NewJSONType(models.PlagiarismCheck{
			Checked:   true,
			Score:     payload.Score,
			Sources:   payload.Sources,
			CheckedAt: &checkedAt,
		})
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plagiarism_report_failed")
		return dto.EvaluationResponse{}, err
	}

	s.publish(ctx, "plagiarism_checked", evaluation, actor)
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) GetByID(ctx context.Context, id uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.load(ctx, id)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) GetByPublicID(ctx context.Context, publicID string) (dto.EvaluationResponse, error) {
	evaluation, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) ListByCourse(ctx context.Context, courseID uint) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toResponses(evaluations), nil
}

func (s *evaluationService) ListPendingByEvaluator(ctx context.Context, evaluatorID uint) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.repo.ListPendingByEvaluator(ctx, evaluatorID)
	if err != nil {
		return nil, err
	}
	return toResponses(evaluations), nil
}

// errNoChange is returned by an apply step that found the stored record
// already in the requested state. The write is skipped entirely, leaving
// Version and UpdatedAt untouched.
var errNoChange = errors.New("evaluation unchanged")

// mutate runs one atomic read-modify-write. A lost optimistic-lock race is
// retried once with a fresh read before the conflict is reported, so the
// caller only ever sees the evaluation fully before or fully after the change.
func (s *evaluationService) mutate(ctx context.Context, id uint, apply func(*models.Evaluation) error) (models.Evaluation, error) {
	for attempt := 0; ; attempt++ {
		evaluation, err := s.load(ctx, id)
		if err != nil {
			return models.Evaluation{}, err
		}

		if err := apply(&evaluation); err != nil {
			if errors.Is(err, errNoChange) {
				return evaluation, nil
			}
			return models.Evaluation{}, err
		}

		err = s.repo.Update(ctx, &evaluation)
		if err == nil {
			return evaluation, nil
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			observability.VersionConflicts().Inc()
		}
		if !errors.Is(err, repository.ErrVersionConflict) || attempt >= 1 {
			return models.Evaluation{}, err
		}
		s.logger.Debug().Uint("evaluation_id", id).Msg("version conflict, retrying")
	}
}

func (s *evaluationService) load(ctx context.Context, id uint) (models.Evaluation, error) {
	evaluation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Evaluation{}, ErrEvaluationNotFound
		}
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

// finishGrading applies the completion side effects: lateness (first pass
// only), score derivation, grading stamps, status, and the timeline entry.
func (s *evaluationService) finishGrading(evaluation *models.Evaluation, actor Actor) {
	from := evaluation.Status
	flags := evaluation.Flags.Data()
	if !flags.LatenessComputed {
		isLate, daysLate := grading.Lateness(evaluation.SubmittedAt, evaluation.DueDate)
		evaluation.IsLate = isLate
		evaluation.DaysLate = daysLate
		flags.LatenessComputed = true
	}
	if evaluation.EarnedPoints > evaluation.TotalPoints && evaluation.TotalPoints > 0 {
		flags.OverAwarded = true
	}
	evaluation.Flags = datatypes.NewJSONType(flags)

	score := grading.Calculate(evaluation.EarnedPoints, evaluation.TotalPoints)
	evaluation.Percentage = score.Percentage
	evaluation.LetterGrade = score.LetterGrade

	gradedAt := s.now()
	evaluation.GradedAt = &gradedAt
	gradedBy := actor.ID
	evaluation.GradedBy = &gradedBy

	evaluation.Status = models.StatusCompleted
	evaluation.RecordAction(models.ActionGraded, actor.ID, actor.Role, "", gradedAt)

	observability.Transitions().WithLabelValues(string(from), string(models.StatusCompleted)).Inc()
	observability.EvaluationsGraded().Inc()
}

func (s *evaluationService) sanitizeFeedback(input dto.FeedbackInput) models.Feedback {
	feedback := models.Feedback{
		Overall:      strings.TrimSpace(s.sanitizer.Sanitize(input.Overall)),
		Strengths:    s.sanitizeAll(input.Strengths),
		Improvements: s.sanitizeAll(input.Improvements),
	}
	for _, comment := range input.Comments {
		feedback.Comments = append(feedback.Comments, models.InlineComment{
			Line: comment.Line,
			Type: comment.Type,
			Text: strings.TrimSpace(s.sanitizer.Sanitize(comment.Text)),
		})
	}
	return feedback
}

func (s *evaluationService) sanitizeAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		clean := strings.TrimSpace(s.sanitizer.Sanitize(value))
		if clean != "" {
			result = append(result, clean)
		}
	}
	return result
}

func (s *evaluationService) vetAttachments(inputs []dto.AttachmentInput) ([]models.Attachment, error) {
	attachments := make([]models.Attachment, 0, len(inputs))
	for _, input := range inputs {
		if !mimetype.EqualsAny(input.MimeType, allowedAttachmentTypes...) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedAttachment, input.Filename, input.MimeType)
		}
		attachments = append(attachments, models.Attachment{
			Filename:   input.Filename,
			URL:        input.URL,
			Size:       input.Size,
			MimeType:   input.MimeType,
			UploadedAt: input.UploadedAt,
		})
	}
	return attachments, nil
}

func (s *evaluationService) publish(ctx context.Context, event string, evaluation models.Evaluation, actor Actor) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, EvaluationEvent{
		Event:        event,
		EvaluationID: evaluation.ID,
		PublicID:     evaluation.PublicID,
		CourseID:     evaluation.CourseID,
		StudentID:    evaluation.StudentID,
		EvaluatorID:  evaluation.EvaluatorID,
		Status:       string(evaluation.Status),
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		At:           s.now().UTC(),
	})
}

func toRubric(inputs []dto.RubricCriterionInput) []models.RubricCriterion {
	rubric := make([]models.RubricCriterion, 0, len(inputs))
	for _, input := range inputs {
		criterion := models.RubricCriterion{
			Name:      input.Name,
			MaxPoints: input.MaxPoints,
		}
		for _, level := range input.Levels {
			criterion.Levels = append(criterion.Levels, models.RubricLevel{
				Name:   level.Name,
				Points: level.Points,
			})
		}
		rubric = append(rubric, criterion)
	}
	return rubric
}

func toRubricScores(inputs []dto.RubricScoreInput) []models.RubricScore {
	scores := make([]models.RubricScore, 0, len(inputs))
	for _, input := range inputs {
		scores = append(scores, models.RubricScore{
			Criterion: input.Criterion,
			Points:    input.Points,
			Level:     input.Level,
			Comment:   input.Comment,
		})
	}
	return scores
}

func sameRubricScores(current, next []models.RubricScore) bool {
	if len(current) != len(next) {
		return false
	}
	for i := range current {
		if current[i] != next[i] {
			return false
		}
	}
	return true
}

func toResponses(evaluations []models.Evaluation) []dto.EvaluationResponse {
	responses := make([]dto.EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, dto.NewEvaluationResponse(evaluation))
	}
	return responses
}
