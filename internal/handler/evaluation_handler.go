package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/grading"
	"github.com/gradeflow/gradeflow-api/internal/repository"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/internal/utils"
)

// EvaluationHandler manages evaluation lifecycle endpoints.
type EvaluationHandler struct {
	service   service.EvaluationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, validator *validator.Validate, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Grading
// endpoints pass through the supplied guard before reaching the handler.
func (h *EvaluationHandler) Register(router fiber.Router, gradingGuard fiber.Handler) {
	if gradingGuard == nil {
		gradingGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/rubric-scores", gradingGuard, h.applyRubricScores)
	router.Post("/:id/grade", gradingGuard, h.setGrade)
	router.Post("/:id/transition", gradingGuard, h.transition)
	router.Post("/:id/resubmit", h.resubmit)
	router.Post("/:id/withdraw", h.withdraw)
	router.Put("/:id/plagiarism", gradingGuard, h.plagiarism)
}

func (h *EvaluationHandler) list(c *fiber.Ctx) error {
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course_id")
	}
	evaluatorID, err := parseQueryUint(c, "evaluator_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid evaluator_id")
	}

	switch {
	case courseID != nil:
		evaluations, err := h.service.ListByCourse(c.Context(), *courseID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "evaluations retrieved", evaluations)
	case evaluatorID != nil:
		evaluations, err := h.service.ListPendingByEvaluator(c.Context(), *evaluatorID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "pending evaluations retrieved", evaluations)
	default:
		return utils.SendError(c, fiber.StatusBadRequest, "course_id or evaluator_id is required")
	}
}

func (h *EvaluationHandler) create(c *fiber.Ctx) error {
	var payload dto.EvaluationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation created", evaluation)
}

func (h *EvaluationHandler) get(c *fiber.Ctx) error {
	if id, err := parseUintParam(c, "id"); err == nil {
		evaluation, err := h.service.GetByID(c.Context(), id)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "evaluation retrieved", evaluation)
	}

	// Non-numeric identifiers are treated as public UUIDs.
	evaluation, err := h.service.GetByPublicID(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "evaluation retrieved", evaluation)
}

func (h *EvaluationHandler) applyRubricScores(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplyRubricScoresRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.ApplyRubricScores(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rubric scores applied", evaluation)
}

func (h *EvaluationHandler) setGrade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SetGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.SetGrade(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade recorded", evaluation)
}

func (h *EvaluationHandler) transition(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TransitionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Transition(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation transitioned", evaluation)
}

func (h *EvaluationHandler) resubmit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ResubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Resubmit(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission replaced", evaluation)
}

func (h *EvaluationHandler) withdraw(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.service.Withdraw(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation withdrawn", evaluation)
}

func (h *EvaluationHandler) plagiarism(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PlagiarismReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.AttachPlagiarismReport(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism report stored", evaluation)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var rubricViolations grading.RubricViolations
	var invalidTransition grading.InvalidTransitionError
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "evaluation not found")
	case errors.As(err, &invalidTransition):
		return utils.SendError(c, fiber.StatusConflict, invalidTransition.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		return utils.SendError(c, fiber.StatusConflict, "concurrent update detected, retry the operation")
	case errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrEvaluationWithdrawn):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &rubricViolations):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, rubricViolations.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrUnsupportedAttachment),
		errors.Is(err, service.ErrResubmissionNotAllowed),
		errors.Is(err, service.ErrResubmissionDeadline),
		errors.Is(err, service.ErrGradeNotReleasable):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
