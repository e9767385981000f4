package dto

import (
	"time"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// AttachmentInput carries attachment metadata supplied by the upload
// collaborator. The engine records the metadata; it never stores bytes.
type AttachmentInput struct {
	Filename   string    `json:"filename" validate:"required"`
	URL        string    `json:"url" validate:"required,url"`
	Size       int64     `json:"size" validate:"gte=0"`
	MimeType   string    `json:"mime_type" validate:"required"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// RubricLevelInput defines a selectable level on a rubric criterion.
type RubricLevelInput struct {
	Name   string  `json:"name" validate:"required"`
	Points float64 `json:"points"`
}

// RubricCriterionInput defines one rubric criterion at creation time.
type RubricCriterionInput struct {
	Name      string             `json:"name" validate:"required"`
	MaxPoints float64            `json:"max_points" validate:"gte=0"`
	Levels    []RubricLevelInput `json:"levels" validate:"dive"`
}

// SubmissionInput is the student-submitted payload for creation/resubmission.
type SubmissionInput struct {
	Content     string            `json:"content" validate:"required"`
	Attachments []AttachmentInput `json:"attachments" validate:"dive"`
	SubmittedAt time.Time         `json:"submitted_at" validate:"required"`
}

// SettingsInput configures the per-evaluation workflow.
type SettingsInput struct {
	AllowResubmission    bool       `json:"allow_resubmission"`
	ShowGradeToStudent   bool       `json:"show_grade_to_student"`
	ResubmissionDeadline *time.Time `json:"resubmission_deadline"`
}

// EvaluationCreateRequest creates an evaluation from a submission event.
type EvaluationCreateRequest struct {
	AssignmentID uint                   `json:"assignment_id" validate:"required,gt=0"`
	CourseID     uint                   `json:"course_id" validate:"required,gt=0"`
	StudentID    uint                   `json:"student_id" validate:"required,gt=0"`
	EvaluatorID  uint                   `json:"evaluator_id" validate:"required,gt=0"`
	Submission   SubmissionInput        `json:"submission" validate:"required"`
	DueDate      time.Time              `json:"due_date" validate:"required"`
	Rubric       []RubricCriterionInput `json:"rubric" validate:"dive"`
	TotalPoints  float64                `json:"total_points" validate:"gte=0"`
	Settings     SettingsInput          `json:"settings"`
}

// RubricScoreInput awards points against one rubric criterion.
type RubricScoreInput struct {
	Criterion string  `json:"criterion" validate:"required"`
	Points    float64 `json:"points"`
	Level     string  `json:"level"`
	Comment   string  `json:"comment"`
}

// ApplyRubricScoresRequest carries a full rubric scoring pass. Scores replace
// any previous pass, so repeating an identical request is idempotent.
type ApplyRubricScoresRequest struct {
	Scores []RubricScoreInput `json:"scores" validate:"required,min=1,dive"`
}

// InlineCommentInput anchors one feedback finding to a submission line.
type InlineCommentInput struct {
	Line int    `json:"line" validate:"gte=0"`
	Type string `json:"type" validate:"required,oneof=suggestion error praise question"`
	Text string `json:"text" validate:"required"`
}

// FeedbackInput is the evaluator's feedback payload.
type FeedbackInput struct {
	Overall      string               `json:"overall"`
	Strengths    []string             `json:"strengths"`
	Improvements []string             `json:"improvements"`
	Comments     []InlineCommentInput `json:"comments" validate:"dive"`
}

// SetGradeRequest is the direct-grade path that bypasses rubric summing.
type SetGradeRequest struct {
	EarnedPoints float64        `json:"earned_points" validate:"gte=0"`
	Feedback     *FeedbackInput `json:"feedback"`
}

// TransitionRequest requests an explicit status change by action name.
type TransitionRequest struct {
	Action string `json:"action" validate:"required,oneof=started_grading graded returned"`
	Notes  string `json:"notes"`
}

// ResubmitRequest replaces the submission after a return.
type ResubmitRequest struct {
	Submission SubmissionInput `json:"submission" validate:"required"`
}

// PlagiarismReportRequest stores a collaborator-computed plagiarism result.
type PlagiarismReportRequest struct {
	Score   float64  `json:"score" validate:"gte=0,lte=100"`
	Sources []string `json:"sources"`
}

// TimelineEntryResponse serializes one audit entry.
type TimelineEntryResponse struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   uint      `json:"actor_id"`
	ActorRole string    `json:"actor_role,omitempty"`
	Notes     string    `json:"notes"`
}

// EvaluationResponse is returned to API clients.
type EvaluationResponse struct {
	ID           uint                       `json:"id"`
	PublicID     string                     `json:"public_id"`
	AssignmentID uint                       `json:"assignment_id"`
	CourseID     uint                       `json:"course_id"`
	StudentID    uint                       `json:"student_id"`
	EvaluatorID  uint                       `json:"evaluator_id"`
	Content      string                     `json:"content"`
	Attachments  []models.Attachment        `json:"attachments"`
	SubmittedAt  time.Time                  `json:"submitted_at"`
	DueDate      time.Time                  `json:"due_date"`
	IsLate       bool                       `json:"is_late"`
	DaysLate     int                        `json:"days_late"`
	TotalPoints  float64                    `json:"total_points"`
	EarnedPoints float64                    `json:"earned_points"`
	Percentage   float64                    `json:"percentage"`
	LetterGrade  string                     `json:"letter_grade"`
	Rubric       []models.RubricCriterion   `json:"rubric"`
	RubricScores []models.RubricScore       `json:"rubric_scores"`
	Feedback     models.Feedback            `json:"feedback"`
	Status       string                     `json:"status"`
	Timeline     []TimelineEntryResponse    `json:"timeline"`
	Plagiarism   models.PlagiarismCheck     `json:"plagiarism"`
	Analytics    models.EvaluationAnalytics `json:"analytics"`
	Flags        models.EvaluationFlags     `json:"flags"`
	Settings     models.EvaluationSettings  `json:"settings"`
	GradedAt     *time.Time                 `json:"graded_at"`
	GradedBy     *uint                      `json:"graded_by"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	timeline := make([]TimelineEntryResponse, 0, len(model.Timeline))
	for _, entry := range model.Timeline {
		timeline = append(timeline, TimelineEntryResponse{
			Action:    string(entry.Action),
			Timestamp: entry.Timestamp,
			ActorID:   entry.ActorID,
			ActorRole: entry.ActorRole,
			Notes:     entry.Notes,
		})
	}

	return EvaluationResponse{
		ID:           model.ID,
		PublicID:     model.PublicID,
		AssignmentID: model.AssignmentID,
		CourseID:     model.CourseID,
		StudentID:    model.StudentID,
		EvaluatorID:  model.EvaluatorID,
		Content:      model.Content,
		Attachments:  model.Attachments,
		SubmittedAt:  model.SubmittedAt,
		DueDate:      model.DueDate,
		IsLate:       model.IsLate,
		DaysLate:     model.DaysLate,
		TotalPoints:  model.TotalPoints,
		EarnedPoints: model.EarnedPoints,
		Percentage:   model.Percentage,
		LetterGrade:  model.LetterGrade,
		Rubric:       model.Rubric,
		RubricScores: model.RubricScores,
		Feedback:     model.Feedback.Data(),
		Status:       string(model.Status),
		Timeline:     timeline,
		Plagiarism:   model.Plagiarism.Data(),
		Analytics:    model.Analytics.Data(),
		Flags:        model.Flags.Data(),
		Settings:     model.Settings.Data(),
		GradedAt:     model.GradedAt,
		GradedBy:     model.GradedBy,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
