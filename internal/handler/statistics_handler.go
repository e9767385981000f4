package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/internal/utils"
)

// StatisticsHandler serves aggregated evaluation metrics.
type StatisticsHandler struct {
	service service.StatisticsService
	logger  zerolog.Logger
}

// NewStatisticsHandler builds a statistics handler instance.
func NewStatisticsHandler(service service.StatisticsService, logger zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		logger:  logger.With().Str("component", "statistics_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StatisticsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *StatisticsHandler) get(c *fiber.Ctx) error {
	var query dto.StatisticsQuery

	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course_id")
	}
	query.CourseID = courseID

	evaluatorID, err := parseQueryUint(c, "evaluator_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid evaluator_id")
	}
	query.EvaluatorID = evaluatorID

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid from timestamp")
		}
		query.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid to timestamp")
		}
		query.To = &parsed
	}

	statistics, err := h.service.GetStatistics(c.Context(), query)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to aggregate statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "statistics computed", statistics)
}
