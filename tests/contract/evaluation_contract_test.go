package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/handler"
	"github.com/gradeflow/gradeflow-api/internal/service"
)

type stubEvaluationService struct {
	response dto.EvaluationResponse
}

func (s stubEvaluationService) Create(context.Context, dto.EvaluationCreateRequest, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) ApplyRubricScores(context.Context, uint, dto.ApplyRubricScoresRequest, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) SetGrade(context.Context, uint, dto.SetGradeRequest, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) Transition(context.Context, uint, dto.TransitionRequest, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) Resubmit(context.Context, uint, dto.ResubmitRequest, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) Withdraw(context.Context, uint, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) AttachPlagiarismReport(context.Context, uint, dto.PlagiarismReportRequest, service.Actor) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) GetByID(context.Context, uint) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) GetByPublicID(context.Context, string) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) ListByCourse(context.Context, uint) ([]dto.EvaluationResponse, error) {
	return []dto.EvaluationResponse{s.response}, nil
}

func (s stubEvaluationService) ListPendingByEvaluator(context.Context, uint) ([]dto.EvaluationResponse, error) {
	return []dto.EvaluationResponse{s.response}, nil
}

func TestEvaluationContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "evaluation.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	gradedAt := time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC)
	gradedBy := uint(42)
	evaluation := dto.EvaluationResponse{
		ID:           7,
		PublicID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
		AssignmentID: 3,
		CourseID:     11,
		StudentID:    21,
		EvaluatorID:  42,
		Content:      "final submission",
		SubmittedAt:  time.Date(2025, 7, 2, 0, 5, 0, 0, time.UTC),
		DueDate:      time.Date(2025, 7, 1, 23, 59, 0, 0, time.UTC),
		IsLate:       true,
		DaysLate:     1,
		TotalPoints:  100,
		EarnedPoints: 93.5,
		Percentage:   93.5,
		LetterGrade:  "A",
		Status:       "completed",
		Timeline: []dto.TimelineEntryResponse{
			{Action: "submitted", Timestamp: time.Date(2025, 7, 2, 0, 5, 0, 0, time.UTC), ActorID: 21, ActorRole: "student"},
			{Action: "graded", Timestamp: gradedAt, ActorID: 42, ActorRole: "teacher"},
		},
		GradedAt:  &gradedAt,
		GradedBy:  &gradedBy,
		CreatedAt: time.Date(2025, 7, 2, 0, 5, 0, 0, time.UTC),
		UpdatedAt: gradedAt,
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	evaluationHandler := handler.NewEvaluationHandler(stubEvaluationService{response: evaluation}, validate, zerolog.Nop())

	app := fiber.New()
	evaluationHandler.Register(app.Group("/api/v1/evaluations"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
